package log

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
)

type watermillLogger struct {
	entry *logrus.Entry
}

// NewWatermill adapts a logrus entry to watermill.LoggerAdapter. Watermill's info level is
// noisy, so it is logged at debug.
func NewWatermill(entry *logrus.Entry) watermill.LoggerAdapter {
	return watermillLogger{entry: entry}
}

func (l watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.entry.WithError(err).WithFields(logrus.Fields(fields)).Error(msg)
}

func (l watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.entry.WithFields(logrus.Fields(fields)).Trace(msg)
}

func (l watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}
