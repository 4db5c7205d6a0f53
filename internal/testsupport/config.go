package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"corpusprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// Isolate points HOME at a fresh temp directory, clears the CORPUSPREP_*
// overrides and changes into an empty work directory, which it returns.
func Isolate(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	work := filepath.Join(base, "work")
	for _, dir := range []string{home, work} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", home)
	for _, key := range []string{config.EnvLogLevel, config.EnvLogFormat, config.EnvSQLitePath} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	t.Chdir(work)
	return work
}

// NewConfig produces a config whose outputs and lock directory live under a
// unique temp directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Vocab.VocabPath = filepath.Join(base, "out", "vocab.txt")
	cfgVal.Vocab.TrainingPath = filepath.Join(base, "out", "train_topic.csv")
	cfgVal.Run.LockDir = filepath.Join(base, "locks")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSeed fixes the sharder seed.
func WithSeed(seed uint64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sharder.Seed = seed
	}
}

// WithSQLite enables vocabulary export to a database under the temp directory.
func WithSQLite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vocab.SQLitePath = filepath.Join(b.baseDir, "vocab.db")
	}
}

// WithLogFile adds a log file under the temp directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", "corpusprep.log")
	}
}

// WithoutLock disables the run lock.
func WithoutLock() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Lock = false
	}
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
