package config

import (
	"github.com/starwind-ui/starwind/internal/logging"
)

// ToLoggingConfig converts the settings section into a logging.Config.
// A configured file switches output to that file; otherwise logs go to
// stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
