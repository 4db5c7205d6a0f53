package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSharder(); err != nil {
		return err
	}
	if err := c.validateVocab(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSharder() error {
	if c.Sharder.Seed > math.MaxInt64 {
		return fmt.Errorf("sharder.seed %d exceeds the TOML integer range", c.Sharder.Seed)
	}
	return nil
}

func (c *Config) validateVocab() error {
	if c.Vocab.VocabPath == c.Vocab.TrainingPath {
		return fmt.Errorf("vocab.vocab_path and vocab.training_path must differ (both %s)", c.Vocab.VocabPath)
	}
	if c.Vocab.SQLitePath != "" && (c.Vocab.SQLitePath == c.Vocab.VocabPath || c.Vocab.SQLitePath == c.Vocab.TrainingPath) {
		return errors.New("vocab.sqlite_path must not reuse a text output path")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}
