// Package logger builds the process logger.
package logger

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger at the given level ("debug", "info", "warn",
// "error"); unknown levels fall back to info.
func New(level, environment string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.AddHook(staticFieldsHook{fields: logrus.Fields{
		"service": "blog-api",
		"env":     environment,
	}})
	return log
}

type staticFieldsHook struct {
	fields logrus.Fields
}

func (h staticFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h staticFieldsHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

type entryKey struct{}

// WithEntry returns a copy of ctx carrying entry.
func WithEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, entryKey{}, entry)
}

// FromContext returns the entry stored by WithEntry, or an entry on the
// standard logger when there is none.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(entryKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
