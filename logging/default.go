package logging

import (
	"context"
	"io"
	"maps"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is a logrus-backed implementation of Logger.
// Derived loggers (WithFields/WithContext) share the underlying logrus
// instance, so SetLevel on any of them affects all of them.
type DefaultLogger struct {
	base   *logrus.Logger
	fields Fields
}

// NewDefaultLogger creates a new default logger writing to stderr, colored
// when stderr is a terminal
func NewDefaultLogger() *DefaultLogger {
	return NewDefaultLoggerWithOutput(os.Stderr, isTerminal(os.Stderr))
}

// NewDefaultLoggerWithOutput creates a default logger writing to w
func NewDefaultLoggerWithOutput(w io.Writer, useColors bool) *DefaultLogger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(newFormatter(useColors))

	return &DefaultLogger{
		base:   base,
		fields: make(Fields),
	}
}

func newFormatter(useColors bool) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		ForceColors:   useColors,
		DisableColors: !useColors,
		FullTimestamp: true,
	}
}

// isTerminal checks if f is a character device
func isTerminal(f *os.File) bool {
	if fileInfo, _ := f.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func (d *DefaultLogger) entry(err error, fields ...Fields) *logrus.Entry {
	allFields := make(logrus.Fields, len(d.fields))
	maps.Copy(allFields, d.fields)
	for _, f := range fields {
		maps.Copy(allFields, f)
	}

	entry := d.base.WithFields(allFields)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.entry(nil, fields...).Debug(msg)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.entry(nil, fields...).Info(msg)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.entry(nil, fields...).Warn(msg)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.entry(err, fields...).Error(msg)
}

// Fatal logs and exits the process through logrus
func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.entry(err, fields...).Fatal(msg)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(d.fields)+len(fields))
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		base:   d.base,
		fields: newFields,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.base.SetLevel(toLogrusLevel(level))
}

func (d *DefaultLogger) setColors(useColors bool) {
	d.base.SetFormatter(newFormatter(useColors))
}

// NoOpLogger discards everything; tests install it with SetGlobalLogger(nil)
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
