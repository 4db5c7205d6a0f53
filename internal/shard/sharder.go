package shard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/jobs"
	"corpusprep/internal/logging"
	"corpusprep/internal/textutil"
)

const jobName = "shard"

// Options configures a sharding run.
type Options struct {
	InputPath string
	Count     int
	// Seed fixes the assignment sequence. Nil draws a random seed.
	Seed   *uint64
	Logger *slog.Logger
}

// Shard describes one written output file.
type Shard struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Result summarizes a completed run.
type Result struct {
	InputPath string  `json:"input_path"`
	Seed      uint64  `json:"seed"`
	Total     int     `json:"total_lines"`
	Clamped   int     `json:"clamped"`
	Shards    []Shard `json:"shards"`
}

// OutputPath returns the path of the 1-based shard index for input.
func OutputPath(input string, index int) string {
	return fmt.Sprintf("%s_%d", input, index)
}

// OutputPaths returns all n shard paths for input in index order.
func OutputPaths(input string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = OutputPath(input, i+1)
	}
	return paths
}

// Run reads opts.InputPath line by line and writes every trimmed line to a
// uniformly chosen shard. All shard files are created (truncated) up front and
// held open until the input is consumed. Partial outputs remain on failure.
func Run(ctx context.Context, opts Options) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = jobs.WithJob(ctx, jobName)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "sharder"))

	if strings.TrimSpace(opts.InputPath) == "" {
		return Result{}, jobs.Invalid(jobName, "input path is required")
	}
	seed := RandomSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	assigner, err := NewAssigner(opts.Count, seed)
	if err != nil {
		return Result{}, err
	}

	input, err := openInput(opts.InputPath)
	if err != nil {
		return Result{}, err
	}
	defer input.Close()

	paths := OutputPaths(opts.InputPath, opts.Count)
	if err := fileutil.CheckWritableParents(paths[0]); err != nil {
		return Result{}, jobs.Wrap(jobs.ErrIO, jobName, "preflight", "output directory not writable", err)
	}

	writers := make([]*fileutil.LineWriter, 0, len(paths))
	defer func() { _ = fileutil.CloseAll(writers) }()
	for _, path := range paths {
		w, err := fileutil.CreateLineWriter(path)
		if err != nil {
			return Result{}, jobs.Wrap(jobs.ErrIO, jobName, "create", path, err)
		}
		writers = append(writers, w)
	}

	logger.Info("sharding started",
		logging.String("input", opts.InputPath),
		logging.Int("shards", opts.Count),
		logging.Uint64("seed", seed),
		logging.Bool("seeded", opts.Seed != nil),
	)

	result := Result{InputPath: opts.InputPath, Seed: seed}
	err = fileutil.ForEachLine(ctx, input, func(line string) error {
		part, clamped, err := assigner.Next()
		if err != nil {
			return err
		}
		if clamped {
			result.Clamped++
			logging.WarnWithContext(logger, "shard index clamped to last shard", "shard_index_clamped",
				logging.Int("line", result.Total+1),
				logging.Int("shard", part+1),
				logging.String(logging.FieldImpact, "line written to the last shard"),
				logging.String(logging.FieldErrorHint, "floating-point rounding at the upper interval bound; no action needed"),
			)
		}
		if err := writers[part].WriteLine(strings.Trim(line, textutil.ASCIISpace)); err != nil {
			return jobs.Wrap(jobs.ErrIO, jobName, "write", writers[part].Path(), err)
		}
		result.Total++
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		if errors.Is(err, jobs.ErrIO) || errors.Is(err, jobs.ErrInvariant) {
			return Result{}, err
		}
		return Result{}, jobs.Wrap(jobs.ErrIO, jobName, "read", opts.InputPath, err)
	}

	if err := fileutil.CloseAll(writers); err != nil {
		return Result{}, jobs.Wrap(jobs.ErrIO, jobName, "close", "", err)
	}

	result.Shards = make([]Shard, len(writers))
	for i, w := range writers {
		result.Shards[i] = Shard{Index: i + 1, Path: w.Path(), Lines: w.Lines()}
	}

	logger.Info("sharding complete",
		logging.Int("lines", result.Total),
		logging.Int("shards", len(result.Shards)),
		logging.Int("clamped", result.Clamped),
	)
	return result, nil
}

func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, jobs.Wrap(jobs.ErrNotFound, jobName, "open", path, err)
		}
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "open", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, jobs.Wrap(jobs.ErrIO, jobName, "stat", path, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, jobs.Wrap(jobs.ErrInvalidArgument, jobName, "open", path+" is a directory", nil)
	}
	return file, nil
}
