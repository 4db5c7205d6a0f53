package vocab

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

const jobName = "vocab"

// Default output paths, relative to the working directory.
const (
	DefaultVocabPath    = "./vocab.txt"
	DefaultTrainingPath = "./train_topic.csv"
)

// Options configures a vocabulary build.
type Options struct {
	CorpusPath   string
	VocabPath    string
	TrainingPath string
	MaxSize      int
	Logger       *slog.Logger
}

// Summary reports what a build read and wrote.
type Summary struct {
	CorpusPath    string `json:"corpus_path"`
	VocabPath     string `json:"vocab_path"`
	TrainingPath  string `json:"training_path"`
	RequestedSize int    `json:"requested_size"`
	VocabSize     int    `json:"vocab_size"`
	DistinctTerms int    `json:"distinct_terms"`
	Lines         int    `json:"lines"`
	SkippedMarkup int    `json:"skipped_markup"`
	Rows          int    `json:"rows"`
	DroppedRows   int    `json:"dropped_rows"`

	Vocabulary *Vocabulary `json:"-"`
}

// Build runs both passes over opts.CorpusPath and writes the vocabulary and
// feature matrix. Outputs written before a failure are left in place.
func Build(ctx context.Context, opts Options) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = jobs.WithJob(ctx, jobName)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "vocab-builder"))

	if err := opts.normalize(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		CorpusPath:    opts.CorpusPath,
		VocabPath:     opts.VocabPath,
		TrainingPath:  opts.TrainingPath,
		RequestedSize: opts.MaxSize,
	}
	tokenizer := textutil.NewTokenizer()

	dict, err := countTerms(ctx, opts.CorpusPath, tokenizer, &summary)
	if err != nil {
		return Summary{}, err
	}
	summary.DistinctTerms = dict.Len()
	logger.Info("term counting complete",
		logging.Int("lines", summary.Lines),
		logging.Int("skipped_markup", summary.SkippedMarkup),
		logging.Int("distinct_terms", summary.DistinctTerms),
	)

	vocabulary, err := Select(dict, opts.MaxSize)
	if err != nil {
		return Summary{}, err
	}
	summary.Vocabulary = vocabulary
	summary.VocabSize = vocabulary.Len()
	if summary.DistinctTerms > summary.VocabSize {
		logger.Debug("vocabulary truncated",
			logging.Int("distinct_terms", summary.DistinctTerms),
			logging.Int("kept", summary.VocabSize),
			logging.Int("cap", EffectiveSize(opts.MaxSize)),
		)
	}
	if summary.VocabSize == 0 {
		logging.WarnWithContext(logger, "corpus produced no vocabulary terms", "vocab_empty",
			logging.String("corpus", opts.CorpusPath),
			logging.String(logging.FieldImpact, "vocabulary and feature matrix will be empty"),
			logging.String(logging.FieldErrorHint, "check that the corpus is plain space-separated text"),
		)
	}

	if err := fileutil.CheckWritableParents(opts.VocabPath, opts.TrainingPath); err != nil {
		return Summary{}, jobs.Wrap(jobs.ErrIO, jobName, "preflight", "output directory not writable", err)
	}
	if err := writeVocabulary(opts.VocabPath, vocabulary); err != nil {
		return Summary{}, err
	}
	logger.Info("vocabulary written",
		logging.String("path", opts.VocabPath),
		logging.Int("terms", summary.VocabSize),
	)

	if err := writeMatrix(ctx, opts, tokenizer, vocabulary, &summary); err != nil {
		return Summary{}, err
	}
	logger.Info("feature matrix written",
		logging.String("path", opts.TrainingPath),
		logging.Int("rows", summary.Rows),
		logging.Int("dropped", summary.DroppedRows),
	)
	return summary, nil
}

func (o *Options) normalize() error {
	if o.MaxSize <= 0 {
		return jobs.Invalid(jobName, fmt.Sprintf("max vocabulary size must be positive, got %d", o.MaxSize))
	}
	if strings.TrimSpace(o.CorpusPath) == "" {
		return jobs.Invalid(jobName, "corpus path is required")
	}
	if strings.TrimSpace(o.VocabPath) == "" {
		o.VocabPath = DefaultVocabPath
	}
	if strings.TrimSpace(o.TrainingPath) == "" {
		o.TrainingPath = DefaultTrainingPath
	}
	if fileutil.SamePath(o.VocabPath, o.TrainingPath) {
		return jobs.Invalid(jobName, "vocabulary and training outputs must be different files")
	}
	for _, out := range []struct{ name, path string }{
		{"vocabulary", o.VocabPath},
		{"training", o.TrainingPath},
	} {
		if fileutil.SamePath(o.CorpusPath, out.path) {
			return jobs.Invalid(jobName, fmt.Sprintf("%s output %s would overwrite the corpus", out.name, out.path))
		}
	}
	return nil
}

func openCorpus(path string) (*os.File, error) {
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

func countTerms(ctx context.Context, path string, tokenizer *textutil.Tokenizer, summary *Summary) (*Dictionary, error) {
	corpus, err := openCorpus(path)
	if err != nil {
		return nil, err
	}
	defer corpus.Close()

	dict := NewDictionary()
	err = fileutil.ForEachLine(ctx, corpus, func(line string) error {
		summary.Lines++
		if textutil.SkipLine(line) {
			summary.SkippedMarkup++
			return nil
		}
		for _, term := range tokenizer.Terms(line) {
			dict.Add(term)
		}
		return nil
	})
	if err != nil {
		return nil, readError(path, "count", err)
	}
	return dict, nil
}

func writeVocabulary(path string, vocabulary *Vocabulary) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "create", path, err)
	}
	if _, err := vocabulary.WriteTo(file); err != nil {
		_ = file.Close()
		return jobs.Wrap(jobs.ErrIO, jobName, "write", path, err)
	}
	if err := file.Close(); err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "close", path, err)
	}
	return nil
}

func writeMatrix(ctx context.Context, opts Options, tokenizer *textutil.Tokenizer, vocabulary *Vocabulary, summary *Summary) error {
	corpus, err := openCorpus(opts.CorpusPath)
	if err != nil {
		return err
	}
	defer corpus.Close()

	out, err := fileutil.CreateLineWriter(opts.TrainingPath)
	if err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "create", opts.TrainingPath, err)
	}
	defer out.Close()

	err = fileutil.ForEachLine(ctx, corpus, func(line string) error {
		if textutil.SkipLine(line) {
			return nil
		}
		row, hits := vocabulary.Row(tokenizer.Terms(line))
		if hits == 0 {
			summary.DroppedRows++
			return nil
		}
		if err := out.WriteLine(FormatRow(row)); err != nil {
			return jobs.Wrap(jobs.ErrIO, jobName, "write", opts.TrainingPath, err)
		}
		summary.Rows++
		return nil
	})
	if err != nil {
		return readError(opts.CorpusPath, "matrix", err)
	}
	if err := out.Close(); err != nil {
		return jobs.Wrap(jobs.ErrIO, jobName, "close", opts.TrainingPath, err)
	}
	return nil
}

func readError(path, operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, jobs.ErrIO) {
		return err
	}
	return jobs.Wrap(jobs.ErrIO, jobName, operation, "read "+path, err)
}
