package config

type Config struct {
	Logger    Logger    `yaml:"logger"`
	Collector Collector `yaml:"collector"`
	Allowlist Allowlist `yaml:"allowlist"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Collector tunes corpus enumeration. Empty fields fall back to the
// built-in defaults used by the guard engine.
type Collector struct {
	Roots             []string `yaml:"roots"`
	ExcludedDirs      []string `yaml:"excluded_dirs"`
	ExcludedPrefixes  []string `yaml:"excluded_prefixes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// Allowlist points at the exception documents for each detector.
type Allowlist struct {
	SQLPath     string `yaml:"sql_path"`
	SecretsPath string `yaml:"secrets_path"`
}
