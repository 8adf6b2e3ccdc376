package sim

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package-level structured logger.
var log = &logrus.Logger{
	Out:   os.Stdout,
	Level: logrus.InfoLevel,
	Formatter: &logrus.TextFormatter{
		FullTimestamp: true,
	},
}

// SetLevel adjusts the package logger's verbosity; cmd/rdtsim wires
// this to a --verbose flag.
func SetLevel(level logrus.Level) {
	log.Level = level
}
