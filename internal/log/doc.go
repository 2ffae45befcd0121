// Package log builds the slog loggers used by docproof.
//
// Every logger returned here wraps its handler in a SecureHandler, which masks
// values whose attribute keys look sensitive. Example runners are commonly
// configured with registry or CI credentials in their environment, and the
// harness logs that environment as a group at debug level:
//
//	logger := log.NewLogger(os.Stderr, verbose, color)
//	logger.Debug("runner configured", slog.Group("env", "NPM_TOKEN", "abc"))
//	// env.NPM_TOKEN=***REDACTED***
//
// When color is requested the output goes through tint, otherwise through the
// standard text handler.
package log
