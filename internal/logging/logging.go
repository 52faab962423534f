// Package logging builds the structured logger shared by every layer.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "blog-api"

// New returns a logger configured for the given level and environment.
// Production writes JSON, development writes colored text, test discards output.
func New(level, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	switch environment {
	case "production":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "test":
		logger.SetOutput(io.Discard)
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 03:04:05 PM",
		})
	}

	logger.AddHook(serviceHook{})
	return logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = serviceName
	}
	return nil
}
