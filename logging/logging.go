package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/config"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// GetLogger returns a log entry tagged with the service name. Packages
// typically add their own fields to the returned entry.
func GetLogger() *logrus.Entry {
	return logger.WithFields(logrus.Fields{"service": config.ServiceName})
}

// SetupLogging sets the global log level. Unparseable levels fall back to
// warn.
func SetupLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(logrus.WarnLevel)
		logger.Warnf("unrecognized log level %q, defaulting to warn", level)
		return
	}
	logger.SetLevel(parsed)
}
