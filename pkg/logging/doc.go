// Package logging builds the slog loggers used by sitectl.
//
// Components take a *slog.Logger in their constructor or through an option;
// when none is given they fall back to Nop.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.LogLevel),
//	    Format: logging.ParseFormat(cfg.LogFormat),
//	})
//	logger.Debug("request", "method", "GET", "path", "/sites")
//
// The CLI logs to stderr at warn level by default. The console writes to a
// file instead (see NewFile) so log lines do not corrupt the alt screen.
package logging
