package config

import (
	"log/slog"
	"os"
)

// InitLogger installs a JSON slog logger as the process default. Development
// builds log at debug level.
func InitLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Env == "development" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", "connectly", "env", cfg.Env)
	slog.SetDefault(logger)
	return logger
}
