// Package telemetry holds the module-wide structured logger.
package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.RWMutex
)

// L returns the shared logger. It defaults to a no-op logger so that
// importing this module never produces console output on its own.
func L() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		loggerMu.Unlock()
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger lets an embedding host redirect the module's logging, e.g. to
// its own zap.Logger. Passing nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}
