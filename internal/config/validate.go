package config

import (
	"fmt"
	"os"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// Validate checks cfg for values the tools cannot use.
func Validate(cfg *Config) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return cerrors.NewValidation("log.level",
			fmt.Sprintf("unknown level %q (want debug, info, warn or error)", cfg.Log.Level))
	}
	if _, ok := logging.ParseFormat(cfg.Log.Format); !ok {
		return cerrors.NewValidation("log.format",
			fmt.Sprintf("unknown format %q (want text or json)", cfg.Log.Format))
	}
	if cfg.Batch.CacheSize < 0 {
		return cerrors.NewValidation("batch.cache_size", "must not be negative")
	}
	if cfg.Watch.Debounce < 0 {
		return cerrors.NewValidation("watch.debounce", "must not be negative")
	}
	if cfg.Tables.Dir != "" {
		info, err := os.Stat(cfg.Tables.Dir)
		if err != nil {
			return cerrors.NewValidation("tables.dir", err.Error())
		}
		if !info.IsDir() {
			return cerrors.NewValidation("tables.dir", cfg.Tables.Dir+" is not a directory")
		}
	}
	return nil
}

// ApplyLogging initializes the global logger from cfg.Log.
func (c *Config) ApplyLogging() {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	logging.InitLogger(level, format)
}
