// Package config loads the translit configuration file.
//
// Configuration is read from YAML, layered over built-in defaults, then
// overridden by TRANSLIT_* environment variables and validated.
package config

import "time"

// Config is the full configuration of the translit tools.
type Config struct {
	Tables TablesConfig `yaml:"tables"`
	Log    LogConfig    `yaml:"log"`
	Batch  BatchConfig  `yaml:"batch"`
	Watch  WatchConfig  `yaml:"watch"`
}

// TablesConfig selects and checks transliteration tables.
type TablesConfig struct {
	// Dir holds Hebrew.tsv and Greek.tsv (or .tsv.xz). Empty uses the
	// tables compiled into the binary.
	Dir string `yaml:"dir"`
	// Strict makes duplicate table sources a load failure.
	Strict bool `yaml:"strict"`
	// Normalize applies NFC to script spans before substitution.
	Normalize bool `yaml:"normalize"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BatchConfig controls batch runs over files.
type BatchConfig struct {
	Capitalize bool `yaml:"capitalize"`
	// CacheSize is the number of memoized lines; 0 disables the cache.
	CacheSize int `yaml:"cache_size"`
	// Check validates every output line for residual script.
	Check bool `yaml:"check"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tables: TablesConfig{
			Strict: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Batch: BatchConfig{
			CacheSize: 4096,
			Check:     true,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}
