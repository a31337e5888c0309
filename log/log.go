// Package log builds the loggers used across the rack packages.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// GetLogger returns a logger for command and engine output. Setting
// RACK_DEBUG to a true value enables debug level.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug, _ := strconv.ParseBool(os.Getenv("RACK_DEBUG")); debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
