package cliapp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"corpusprep/internal/config"
	"corpusprep/internal/jobs"
)

// NewConfigCommand returns the config command group shared by both binaries.
func NewConfigCommand(c *Context) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(c))
	configCmd.AddCommand(newConfigInitCommand(c))

	return configCmd
}

func newConfigInitCommand(c *Context) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        ExactArgs(c.Job(), 0),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return jobs.Wrap(jobs.ErrConfiguration, c.Job(), "config init", "determine default config path", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return jobs.Wrap(jobs.ErrInvalidArgument, c.Job(), "config init", "resolve config path", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return jobs.Wrap(jobs.ErrIO, c.Job(), "config init", fmt.Sprintf("create config directory %q", dir), err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return jobs.Wrap(jobs.ErrInvalidArgument, c.Job(), "config init",
						fmt.Sprintf("config file already exists at %s (use --overwrite to replace it)", target), nil)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return jobs.Wrap(jobs.ErrIO, c.Job(), "config init", "check config path", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return jobs.Wrap(jobs.ErrIO, c.Job(), "config init", "create sample config", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(c *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  ExactArgs(c.Job(), 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.EnsureConfig()
			if err != nil {
				return err
			}
			path, exists := c.ConfigPath()
			if c.Flags().JSON {
				return WriteJSON(cmd, struct {
					Path   string         `json:"path"`
					Exists bool           `json:"exists"`
					Config *config.Config `json:"config"`
				}{path, exists, cfg})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
