package mesh

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is quiet by default so library consumers are not spammed;
// commands raise the level for operational summaries.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "mesh",
	Level:  log.WarnLevel,
})

// SetLogLevel adjusts the package log level.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
