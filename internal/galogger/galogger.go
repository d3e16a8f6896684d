// Package galogger fills in the logger constructor the teacher's
// top-level instance wiring expects but never shipped in the copied
// snapshot (it imported "pkg/logger", which did not exist).
package galogger

import "go.uber.org/zap"

// New builds a SugaredLogger tagged with the given service name. It
// uses zap's production config, which is what the teacher's own
// engine/storage/index packages expect to receive.
func New(service string) *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Named(service).Sugar()
}

// NewDevelopment builds a development-mode logger (human-readable,
// debug-level) for tests; the CLI uses New.
func NewDevelopment(service string) *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Named(service).Sugar()
}
