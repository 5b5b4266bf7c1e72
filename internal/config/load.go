package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRANSLIT_"

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, cerrors.NewNotFound("config file", path)
			}
			return nil, cerrors.NewIO("read", path, err)
		}
		if err := Parse(data, cfg); err != nil {
			pe := cerrors.NewParse("YAML", path, err.Error())
			pe.Err = err
			return nil, pe
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from data keep their current
// values, so callers pass a Default() config to layer over.
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// applyEnvOverrides applies TRANSLIT_SECTION_FIELD variables. Values that
// do not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	if val, ok := lookup("TABLES_DIR"); ok {
		cfg.Tables.Dir = val
	}
	if val, ok := lookup("TABLES_STRICT"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tables.Strict = b
		}
	}
	if val, ok := lookup("TABLES_NORMALIZE"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tables.Normalize = b
		}
	}
	if val, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = val
	}
	if val, ok := lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = val
	}
	if val, ok := lookup("BATCH_CAPITALIZE"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Batch.Capitalize = b
		}
	}
	if val, ok := lookup("BATCH_CACHE_SIZE"); ok {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Batch.CacheSize = i
		}
	}
	if val, ok := lookup("BATCH_CHECK"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Batch.Check = b
		}
	}
	if val, ok := lookup("WATCH_DEBOUNCE"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}

func lookup(name string) (string, bool) {
	val := os.Getenv(EnvPrefix + name)
	return val, val != ""
}
