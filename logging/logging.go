// Package logging builds the zap loggers used across mancala-local.
package logging

import (
	"fmt"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logFile = "mancala-local/debug.log"

// DefaultPath returns the debug log location in the xdg state directory,
// creating the directory if needed.
func DefaultPath() (string, error) {
	return xdg.StateFile(logFile)
}

// New returns a JSON logger appending to path. An empty path means DefaultPath.
// The terminal belongs to the UI, so nothing is written to stdout or stderr.
func New(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate log file: %w", err)
		}
		path = p
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
