package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/internal/config"
	"github.com/ludo-technologies/linthell/internal/constants"
)

// LogLevelEnvVar overrides the configured log level
const LogLevelEnvVar = constants.EnvVarPrefix + "_LOG_LEVEL"

// NewLogger creates a new hclog.Logger writing to stderr; stdout carries findings.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return NewLoggerWithOutput(cfg, name, os.Stderr)
}

// NewLoggerWithOutput creates a new hclog.Logger writing to output
func NewLoggerWithOutput(cfg *config.Config, name string, output io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      output,
		Level:       determineLogLevel(cfg),
	})
}

// determineLogLevel returns a log level determined first by an environment variable,
// then by the provided configuration. WARN when neither sets one.
func determineLogLevel(cfg *config.Config) hclog.Level {
	if logLevelEnv := os.Getenv(LogLevelEnvVar); logLevelEnv != "" {
		return parseLogLevel(logLevelEnv)
	}
	if cfg != nil && cfg.Logger.Level != "" {
		return parseLogLevel(cfg.Logger.Level)
	}
	return hclog.Warn
}

// parseLogLevel converts a string level to hclog.Level
func parseLogLevel(levelStr string) hclog.Level {
	switch strings.ToUpper(levelStr) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Warn
	}
}
