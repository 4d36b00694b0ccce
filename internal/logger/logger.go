// Package logger builds the zap loggers used across crucible.
package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// ModeEnv selects the encoder: "development" gives human-readable console
// output, anything else gives production JSON.
const ModeEnv = "CRUCIBLE_LOG_MODE"

var debug atomic.Bool

// SetDebug forces development mode regardless of ModeEnv.
func SetDebug(on bool) {
	debug.Store(on)
}

// New returns a logger tagged with the given package name.
func New(pkg string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug.Load() || os.Getenv(ModeEnv) == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("package", pkg)), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
