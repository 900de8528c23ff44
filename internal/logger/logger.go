// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	mu    sync.RWMutex
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// For "production", it uses a JSON encoder. For all other environments,
// it uses a human-readable console encoder.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		Set(base.Sugar())
	})
}

// Set replaces the global logger. Tests use it with zaptest/observer loggers.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	sugar = l
	mu.Unlock()
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l == nil {
		Init("development")
		mu.RLock()
		l = sugar
		mu.RUnlock()
	}
	return l
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if l := Get(); l != nil {
		_ = l.Sync()
	}
}
