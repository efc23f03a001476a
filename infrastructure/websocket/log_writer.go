package websocket

import (
	"bytes"
	"context"
	"log/slog"
)

// LogWriter redirects the gin access log into the structured logger.
type LogWriter struct {
	log   *slog.Logger
	level slog.Level
}

func NewLogWriter(log *slog.Logger, level slog.Level) *LogWriter {
	return &LogWriter{log: log, level: level}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if msg := bytes.TrimSpace(line); len(msg) > 0 {
			w.log.Log(context.Background(), w.level, string(msg), "component", "http")
		}
	}
	return len(p), nil
}
