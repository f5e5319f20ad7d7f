package device

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "device",
	Level:  log.WarnLevel,
})

// SetLogLevel adjusts the package logger's verbosity.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
