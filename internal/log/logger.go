package log

import (
	"io"
	"log/slog"
)

// NewLogger creates the application logger.
//
// Records at Info and above go to stderr, or Debug and above when verbose is
// set. When debug is not nil it additionally receives every Debug record.
// All output is redacted.
func NewLogger(stderr io.Writer, verbose bool, debug io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	if debug != nil {
		handlers = append(handlers, slog.NewTextHandler(debug, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = newFanoutHandler(handlers...)
	}
	return slog.New(NewRedactingHandler(handler))
}
