// Package logger constructs the slog loggers the rest of the module accepts
// through WithLogger options.
//
// JSON output at info level is the default; text output suits development.
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug), logger.WithFormat(logger.FormatText))
//	c := cache.New(store, cache.WithLogger(log))
package logger
