// Package logging provides structured logging setup for the CLI.
package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the default slog logger on stderr so log lines never
// mix into command output. Verbose mode enables debug-level text logs;
// otherwise only warnings and errors appear.
func Setup(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
