package cliapp

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"corpusprep/internal/config"
	"corpusprep/internal/fileutil"
	"corpusprep/internal/jobs"
	"corpusprep/internal/logging"
)

// Flags are the persistent flags every binary accepts.
type Flags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	JSON       bool
}

// Context carries per-invocation state between cobra hooks and commands.
type Context struct {
	job   string
	runID string
	flags Flags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	logger *slog.Logger
}

// NewContext returns a Context for the named job with a fresh run id.
func NewContext(job string) *Context {
	return &Context{job: job, runID: uuid.NewString()}
}

// Job returns the job name used in errors and logs.
func (c *Context) Job() string { return c.job }

// RunID identifies this invocation in logs and stored results.
func (c *Context) RunID() string { return c.runID }

// Flags returns the bound persistent flag values.
func (c *Context) Flags() *Flags { return &c.flags }

// BindPersistentFlags registers the shared flags on root.
func (c *Context) BindPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&c.flags.ConfigPath, "config", "c", "", "Configuration file path")
	root.PersistentFlags().StringVar(&c.flags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.flags.LogFormat, "log-format", "", "Log format override (console, json)")
	root.PersistentFlags().BoolVar(&c.flags.JSON, "json", false, "Print the run summary as JSON")
}

// EnsureConfig loads the configuration once, applying .env and flag overrides.
func (c *Context) EnsureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadEnvFile(""); err != nil {
			c.configErr = jobs.Wrap(jobs.ErrConfiguration, c.job, "config", "", err)
			return
		}
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.ConfigPath))
		if err != nil {
			c.configErr = jobs.Wrap(jobs.ErrConfiguration, c.job, "config", "", err)
			return
		}
		if err := c.applyFlagOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = jobs.Wrap(jobs.ErrConfiguration, c.job, "config", "ensure directories", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ConfigPath returns the resolved configuration path after EnsureConfig and
// whether a file existed there.
func (c *Context) ConfigPath() (string, bool) { return c.configPath, c.configSeen }

func (c *Context) applyFlagOverrides(cfg *config.Config) error {
	if level := strings.TrimSpace(c.flags.LogLevel); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if format := strings.TrimSpace(c.flags.LogFormat); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
	if err := cfg.Validate(); err != nil {
		return jobs.Wrap(jobs.ErrInvalidArgument, c.job, "flags", "", err)
	}
	return nil
}

// Prepare loads configuration and builds the run logger unless cmd opts out
// through the skipConfigLoad annotation. It is meant for PersistentPreRunE.
func (c *Context) Prepare(cmd *cobra.Command) error {
	if ShouldSkipConfig(cmd) {
		return nil
	}
	cfg, err := c.EnsureConfig()
	if err != nil {
		return err
	}
	opts := logging.OptionsFromConfig(cfg, c.runID)
	opts.Stderr = cmd.ErrOrStderr()
	logger, err := logging.New(opts)
	if err != nil {
		return jobs.Wrap(jobs.ErrConfiguration, c.job, "logging", "", err)
	}
	c.logger = logger.With(logging.String(logging.FieldCommand, c.job))

	ctx := jobs.WithRunID(jobs.WithJob(cmd.Context(), c.job), c.runID)
	cmd.SetContext(ctx)
	return nil
}

// Logger returns the run logger, or a no-op logger before Prepare.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

// AcquireRunLock locks target when run locking is enabled. The returned lock
// may be nil; RunLock.Release accepts nil.
func (c *Context) AcquireRunLock(target string) (*fileutil.RunLock, error) {
	cfg, err := c.EnsureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Run.Lock {
		return nil, nil
	}
	lock, err := fileutil.AcquireRunLock(cfg.Run.LockDir, target)
	if err != nil {
		if errors.Is(err, fileutil.ErrLockHeld) {
			return nil, jobs.Wrap(jobs.ErrLocked, c.job, "lock", "another run is writing these outputs", err)
		}
		return nil, jobs.Wrap(jobs.ErrIO, c.job, "lock", "", err)
	}
	c.Logger().Debug("run lock acquired", logging.String("lock", lock.Path()), logging.String("target", target))
	return lock, nil
}

// ShouldSkipConfig reports whether cmd or any parent is annotated with
// skipConfigLoad.
func ShouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
