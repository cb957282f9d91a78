// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// baseLogger reports the caller of its own methods; log skips this
// package's helper frame.
var baseLogger = zap.NewNop()
var log = baseLogger.Sugar()

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	baseLogger = zapLogger
	log = zapLogger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return nil
}

// With returns a child logger carrying the given key/value pairs. It is
// called directly, so it reports its caller without the helper skip.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return baseLogger.Sugar().With(keysAndValues...)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = log.Sync()
}

func Debugw(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}

func Infof(template string, args ...interface{}) {
	log.Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	log.Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	log.Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, keysAndValues...)
}

// Fatalf logs and exits the process.
func Fatalf(template string, args ...interface{}) {
	log.Fatalf(template, args...)
}
