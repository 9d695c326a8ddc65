package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production and staging log JSON; every
// other environment logs human-readable text.
func New(out io.Writer, level string, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		log.Warnf("invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "staging":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}
