// Package logging constructs the application logger.
package logging

import "go.uber.org/zap"

// New creates a sugared zap logger. When debug is true it uses the
// development config (human-readable output, debug level).
func New(debug bool) *zap.SugaredLogger {
	var logger *zap.Logger
	if debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger.Sugar()
}
