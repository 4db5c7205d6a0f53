package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizeVocab(); err != nil {
		return err
	}
	if err := c.normalizeRun(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) applyEnv() {
	if value, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv(EnvLogFormat); ok {
		c.Logging.Format = value
	}
	if value, ok := lookupEnv(EnvSQLitePath); ok {
		c.Vocab.SQLitePath = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizeVocab() error {
	var err error
	if strings.TrimSpace(c.Vocab.VocabPath) == "" {
		c.Vocab.VocabPath = defaultVocabPath
	}
	if c.Vocab.VocabPath, err = expandPath(strings.TrimSpace(c.Vocab.VocabPath)); err != nil {
		return fmt.Errorf("vocab.vocab_path: %w", err)
	}
	if strings.TrimSpace(c.Vocab.TrainingPath) == "" {
		c.Vocab.TrainingPath = defaultTrainingPath
	}
	if c.Vocab.TrainingPath, err = expandPath(strings.TrimSpace(c.Vocab.TrainingPath)); err != nil {
		return fmt.Errorf("vocab.training_path: %w", err)
	}
	if c.Vocab.SQLitePath, err = expandPath(strings.TrimSpace(c.Vocab.SQLitePath)); err != nil {
		return fmt.Errorf("vocab.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRun() error {
	var err error
	if strings.TrimSpace(c.Run.LockDir) == "" {
		c.Run.LockDir = defaultLockDir()
	}
	if c.Run.LockDir, err = expandPath(strings.TrimSpace(c.Run.LockDir)); err != nil {
		return fmt.Errorf("run.lock_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
