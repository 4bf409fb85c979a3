package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const appName = "weather-collector"

// New builds the process logger: human-readable tint output in dev,
// JSON everywhere else.
func New(appEnv string, level slog.Level) *slog.Logger {
	if appEnv == "dev" {
		h := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", appName, "env", appEnv)
}
