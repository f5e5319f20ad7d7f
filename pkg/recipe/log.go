package recipe

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "recipe",
	Level:  log.WarnLevel,
})

// SetLogLevel adjusts the package logger's verbosity.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
