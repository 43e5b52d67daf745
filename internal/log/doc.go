// Package log builds the slog loggers used by wikihop.
//
// NewLogger returns a logger that writes text records to stderr and,
// optionally, every record down to debug level to a second sink such as a
// debug log file. Before a record reaches any sink its credential-like
// attributes (Authorization, Cookie, tokens) are replaced with MaskValue,
// because request headers configured by the user are logged at debug level.
//
//	logger := log.NewLogger(os.Stderr, verbose, debugFile)
//	slog.SetDefault(logger)
package log
