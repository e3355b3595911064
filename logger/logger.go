// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log from LOG_LEVEL (default "info") and LOG_FORMAT ("json" or text).
// Call it once from main before anything logs.
func Init() {
	Log = New(os.Stdout)
}

// New builds a logger that writes to out using the environment settings
func New(out io.Writer) *logrus.Logger {
	l := logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	l.SetOutput(out)
	return l
}

// UseStderr moves log output off stdout, which the MCP stdio transport owns
func UseStderr() {
	Log.SetOutput(os.Stderr)
}

// SetDebug forces debug level regardless of LOG_LEVEL
func SetDebug() {
	Log.SetLevel(logrus.DebugLevel)
	Log.SetReportCaller(true)
}

// Session returns an entry tagged with a session id
func Session(id string) *logrus.Entry {
	return Log.WithField("session", id)
}
