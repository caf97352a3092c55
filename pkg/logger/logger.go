package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger

// Init builds the global logger. Development mode gets console output,
// everything else the production JSON config.
func Init(env string) {
	if env == "development" {
		log, _ = zap.NewDevelopment()
		return
	}
	log, _ = zap.NewProduction()
}

// L returns the global logger, falling back to a no-op logger so that
// packages can log before Init runs (tests mostly).
func L() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}

// Sync flushes buffered entries.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
