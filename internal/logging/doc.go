// Package logging provides structured logging for envmatch.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent by default so that command output stays clean; set
// ENVMATCH_LOG_LEVEL to debug, info, warn or error to enable it.
//
// # Output
//
// Logs go to stderr in console format, or to the file named by
// ENVMATCH_LOG_FILE. The interactive session owns the terminal, so use a log
// file when debugging it:
//
//	ENVMATCH_LOG_LEVEL=debug ENVMATCH_LOG_FILE=/tmp/envmatch.log envmatch tui
//
// # Structured Logging
//
//	logging.Info("Switched environment",
//	    zap.String("from", "development"),
//	    zap.String("to", "production"),
//	)
//
// Variable values are never logged, only keys and environment names.
//
// # Configuration
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
//	}
//	defer logging.Sync()
package logging
