// Package logging builds the structured logger this module emits warnings
// through. The teacher's monorepo mostly routes logging through its own
// log15-style wrapper (erigon-lib/log/v3), but also depends on
// go.uber.org/zap directly for the subsystems that don't go through that
// wrapper; this module is small enough to lean on zap alone.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// L returns the process-wide sugared logger, building it lazily on first
// use with a production JSON encoder config.
func L() *zap.SugaredLogger {
	once.Do(func() {
		base, err := zap.NewProduction()
		if err != nil {
			base = zap.NewNop()
		}
		logger = base.Sugar().Named("accountsdb")
	})
	return logger
}

// WarnCause logs spec §7's single warning line for a reconstruction
// failure: the error's cause plus the stage it occurred in.
func WarnCause(stage string, err error) {
	L().Warnw("reconstruction failed", "stage", stage, "error", err)
}

// SetForTesting swaps in a no-op logger so tests don't spam stdout; returns
// a restore function.
func SetForTesting() func() {
	old := logger
	once.Do(func() {}) // ensure once has fired so L() won't race re-init
	logger = zap.NewNop().Sugar()
	return func() { logger = old }
}
