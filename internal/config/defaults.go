package config

const (
	defaultConfigPath   = "~/.config/corpusprep/config.toml"
	projectConfigName   = "corpusprep.toml"
	defaultEnvFile      = ".env"
	defaultVocabPath    = "./vocab.txt"
	defaultTrainingPath = "./train_topic.csv"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultRunLock      = true
)

// Environment variables that override file settings when set.
const (
	EnvLogLevel   = "CORPUSPREP_LOG_LEVEL"
	EnvLogFormat  = "CORPUSPREP_LOG_FORMAT"
	EnvSQLitePath = "CORPUSPREP_SQLITE_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Vocab: Vocab{
			VocabPath:    defaultVocabPath,
			TrainingPath: defaultTrainingPath,
		},
		Run: Run{
			Lock: defaultRunLock,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
