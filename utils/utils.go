package utils

import (
	"context"
	"log/slog"
)

func logAt(level slog.Level, e error) {
	if e != nil {
		slog.Log(context.Background(), level, "Error Occurred", "error", e)
	}
}

// Logde logs a non-nil error at debug level.
func Logde(e error) { logAt(slog.LevelDebug, e) }
