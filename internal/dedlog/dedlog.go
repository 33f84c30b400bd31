// Package dedlog is a thin leveled-logging wrapper around zap, used the
// same way the rest of the retrieval pack wraps it: a small interface in
// front of a *zap.SugaredLogger, defaulting to info level and dropping to
// debug when verbose output is requested.
package dedlog

import "go.uber.org/zap"

// Logger is the leveled logging surface every pipeline stage is handed.
type Logger struct {
	inner *zap.SugaredLogger
}

// New builds a Logger. Debug-level output is enabled when verbose is true;
// otherwise only info and above are emitted.
func New(verbose bool) (*Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	logger, err := cfg.Build(zap.IncreaseLevel(level))
	if err != nil {
		return nil, err
	}

	return &Logger{inner: logger.Sugar()}, nil
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.inner.Sync()
}

// Debug logs a formatted debug-level message.
func (l *Logger) Debug(format string, args ...any) {
	l.inner.Debugf(format, args...)
}

// Info logs a formatted info-level message.
func (l *Logger) Info(format string, args ...any) {
	l.inner.Infof(format, args...)
}

// Warn logs a formatted warn-level message.
func (l *Logger) Warn(format string, args ...any) {
	l.inner.Warnf(format, args...)
}
