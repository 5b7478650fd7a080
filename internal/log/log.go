package log

import (
	"context"
	"github.com/sirupsen/logrus"
	"os"
)

type ctxKey struct{}

// Init configures the standard logrus logger. JSON output is used unless pretty is set.
func Init(level logrus.Level, pretty bool) {
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	if pretty {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// ParseLevel falls back to info on unknown names.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
