// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers don't import logrus directly.
type Fields = logrus.Fields

var global = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// Setup reconfigures the global logger from loaded configuration.
// An empty level keeps the current one; an empty file keeps stderr.
func Setup(level, file string) {
	if level != "" {
		if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			global.SetLevel(lvl)
		}
	}
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		global.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}
}

// L returns the global logger.
func L() *logrus.Logger {
	return global
}

// Component returns an entry scoped to one subsystem.
func Component(name string) *logrus.Entry {
	return global.WithField("component", name)
}
