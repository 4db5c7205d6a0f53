package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"corpusprep/internal/cliapp"
	"corpusprep/internal/config"
	"corpusprep/internal/fileutil"
	"corpusprep/internal/jobs"
	"corpusprep/internal/logging"
	"corpusprep/internal/vocab"
	"corpusprep/internal/vocabstore"
)

const jobName = "vocab_builder"

type outputFlags struct {
	vocabPath    string
	trainingPath string
	sqlitePath   string
}

type report struct {
	vocab.Summary
	RunID      string `json:"run_id"`
	SQLitePath string `json:"sqlite_path,omitempty"`
}

func newRootCommand() *cobra.Command {
	var flags outputFlags

	ctx := cliapp.NewContext(jobName)

	rootCmd := &cobra.Command{
		Use:           "vocab_builder <corpusPath> <maxVocabSize>",
		Short:         "Build a vocabulary and document-term matrix from a corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cliapp.ExactArgs(jobName, 2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSize, err := parseMaxSize(args[1])
			if err != nil {
				return err
			}
			cfg, err := ctx.EnsureConfig()
			if err != nil {
				return err
			}
			outputs, err := resolveOutputs(cfg, flags, args[0])
			if err != nil {
				return err
			}

			lock, err := ctx.AcquireRunLock(outputs.vocabPath)
			if err != nil {
				return err
			}
			defer lock.Release()

			logger := ctx.Logger()
			summary, err := vocab.Build(cmd.Context(), vocab.Options{
				CorpusPath:   args[0],
				VocabPath:    outputs.vocabPath,
				TrainingPath: outputs.trainingPath,
				MaxSize:      maxSize,
				Logger:       logger,
			})
			if err != nil {
				logger.Error("vocabulary build failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, jobs.Classify(err)),
				)
				return err
			}

			rep := report{Summary: summary, RunID: ctx.RunID(), SQLitePath: outputs.sqlitePath}
			if outputs.sqlitePath != "" {
				if err := exportVocabulary(cmd, ctx, outputs.sqlitePath, summary); err != nil {
					return err
				}
			}

			if ctx.Flags().JSON {
				return cliapp.WriteJSON(cmd, rep)
			}
			printReport(cmd, rep)
			return nil
		},
	}

	ctx.BindPersistentFlags(rootCmd)
	rootCmd.Flags().StringVar(&flags.vocabPath, "vocab-out", "", "Vocabulary output path (default ./vocab.txt)")
	rootCmd.Flags().StringVar(&flags.trainingPath, "training-out", "", "Feature matrix output path (default ./train_topic.csv)")
	rootCmd.Flags().StringVar(&flags.sqlitePath, "sqlite", "", "Also record the vocabulary in this SQLite database")
	rootCmd.SetFlagErrorFunc(cliapp.FlagError(jobName))
	rootCmd.AddCommand(cliapp.NewConfigCommand(ctx))

	return rootCmd
}

func parseMaxSize(raw string) (int, error) {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, jobs.Wrap(jobs.ErrInvalidArgument, jobName, "validate", fmt.Sprintf("max vocabulary size %q is not an integer", raw), nil)
	}
	if size <= 0 {
		return 0, jobs.Invalid(jobName, fmt.Sprintf("max vocabulary size must be positive, got %d", size))
	}
	return size, nil
}

// resolveOutputs layers command-line paths over the configured ones.
func resolveOutputs(cfg *config.Config, flags outputFlags, corpusPath string) (outputFlags, error) {
	resolved := outputFlags{
		vocabPath:    cfg.Vocab.VocabPath,
		trainingPath: cfg.Vocab.TrainingPath,
		sqlitePath:   cfg.Vocab.SQLitePath,
	}
	for _, pair := range []struct {
		flag string
		dst  *string
	}{
		{flags.vocabPath, &resolved.vocabPath},
		{flags.trainingPath, &resolved.trainingPath},
		{flags.sqlitePath, &resolved.sqlitePath},
	} {
		if strings.TrimSpace(pair.flag) == "" {
			continue
		}
		expanded, err := config.ExpandPath(pair.flag)
		if err != nil {
			return outputFlags{}, jobs.Wrap(jobs.ErrInvalidArgument, jobName, "validate", "resolve "+pair.flag, err)
		}
		*pair.dst = expanded
	}

	if fileutil.SamePath(resolved.vocabPath, resolved.trainingPath) {
		return outputFlags{}, jobs.Invalid(jobName, "vocabulary and training outputs must be different files")
	}
	if resolved.sqlitePath != "" {
		if fileutil.SamePath(resolved.sqlitePath, resolved.vocabPath) || fileutil.SamePath(resolved.sqlitePath, resolved.trainingPath) {
			return outputFlags{}, jobs.Invalid(jobName, "sqlite database must not reuse a text output path")
		}
	}
	for _, out := range []string{resolved.vocabPath, resolved.trainingPath, resolved.sqlitePath} {
		if out != "" && fileutil.SamePath(corpusPath, out) {
			return outputFlags{}, jobs.Invalid(jobName, fmt.Sprintf("output %s would overwrite the corpus", out))
		}
	}
	return resolved, nil
}

func exportVocabulary(cmd *cobra.Command, ctx *cliapp.Context, path string, summary vocab.Summary) error {
	store, err := vocabstore.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveVocabulary(cmd.Context(), ctx.RunID(), summary.CorpusPath, summary.RequestedSize, summary.Vocabulary); err != nil {
		return err
	}
	ctx.Logger().Info("vocabulary exported",
		logging.String("sqlite", path),
		logging.Int("terms", summary.VocabSize),
	)
	return nil
}

func printReport(cmd *cobra.Command, rep report) {
	rows := [][]string{
		{"Corpus", rep.CorpusPath},
		{"Lines read", strconv.Itoa(rep.Lines)},
		{"Markup lines skipped", strconv.Itoa(rep.SkippedMarkup)},
		{"Distinct terms", strconv.Itoa(rep.DistinctTerms)},
		{"Vocabulary size", fmt.Sprintf("%d (requested %d)", rep.VocabSize, rep.RequestedSize)},
		{"Rows written", strconv.Itoa(rep.Rows)},
		{"Rows dropped", strconv.Itoa(rep.DroppedRows)},
		{"Vocabulary", rep.VocabPath},
		{"Feature matrix", rep.TrainingPath},
	}
	if rep.SQLitePath != "" {
		rows = append(rows, []string{"SQLite", rep.SQLitePath})
	}
	rows = append(rows, []string{"Run ID", rep.RunID})
	fmt.Fprintln(cmd.OutOrStdout(), cliapp.RenderTable(
		[]string{"Field", "Value"},
		rows,
		[]cliapp.ColumnAlignment{cliapp.AlignLeft, cliapp.AlignLeft},
		nil,
	))
}
