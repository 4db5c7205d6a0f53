package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"corpusprep/internal/cliapp"
	"corpusprep/internal/jobs"
	"corpusprep/internal/logging"
	"corpusprep/internal/shard"
)

const jobName = "sharder"

func newRootCommand() *cobra.Command {
	var seedFlag uint64

	ctx := cliapp.NewContext(jobName)

	rootCmd := &cobra.Command{
		Use:           "sharder <inputPath> <shardCount>",
		Short:         "Split a text file into randomly assigned line shards",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cliapp.ExactArgs(jobName, 2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseShardCount(args[1])
			if err != nil {
				return err
			}
			cfg, err := ctx.EnsureConfig()
			if err != nil {
				return err
			}

			opts := shard.Options{
				InputPath: args[0],
				Count:     count,
				Logger:    ctx.Logger(),
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seedFlag
			} else if seed, ok := cfg.SeedValue(); ok {
				opts.Seed = &seed
			}

			lock, err := ctx.AcquireRunLock(opts.InputPath)
			if err != nil {
				return err
			}
			defer lock.Release()

			result, err := shard.Run(cmd.Context(), opts)
			if err != nil {
				ctx.Logger().Error("sharding failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, jobs.Classify(err)),
				)
				return err
			}
			if ctx.Flags().JSON {
				return cliapp.WriteJSON(cmd, result)
			}
			printResult(cmd, result)
			return nil
		},
	}

	ctx.BindPersistentFlags(rootCmd)
	rootCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Seed for reproducible shard assignment")
	rootCmd.SetFlagErrorFunc(cliapp.FlagError(jobName))
	rootCmd.AddCommand(cliapp.NewConfigCommand(ctx))

	return rootCmd
}

func parseShardCount(raw string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, jobs.Wrap(jobs.ErrInvalidArgument, jobName, "validate", fmt.Sprintf("shard count %q is not an integer", raw), nil)
	}
	if count <= 0 {
		return 0, jobs.Invalid(jobName, fmt.Sprintf("shard count must be positive, got %d", count))
	}
	return count, nil
}

func printResult(cmd *cobra.Command, result shard.Result) {
	rows := make([][]string, 0, len(result.Shards))
	for _, s := range result.Shards {
		rows = append(rows, []string{strconv.Itoa(s.Index), s.Path, strconv.Itoa(s.Lines)})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cliapp.RenderTable(
		[]string{"Shard", "Path", "Lines"},
		rows,
		[]cliapp.ColumnAlignment{cliapp.AlignRight, cliapp.AlignLeft, cliapp.AlignRight},
		[]string{"", "Total", strconv.Itoa(result.Total)},
	))
	fmt.Fprintf(out, "Seed: %d\n", result.Seed)
	if result.Clamped > 0 {
		fmt.Fprintf(out, "Clamped assignments: %d\n", result.Clamped)
	}
}
