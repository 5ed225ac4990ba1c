// Package logging provides structured logging for the relink system using zerolog.
// It offers human-readable console output during interactive use and structured
// JSON output when stderr is not a terminal or LOG_FORMAT=json is set.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("contract_id", id).Msg("Linking contract")
//
//	log.Error().
//	    Err(err).
//	    Str("person", name).
//	    Int("attempt", 3).
//	    Msg("Remote call failed")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger zerolog.Logger

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = createDefaultLogger()
}

// Config describes how a logger should be constructed.
type Config struct {
	Level     string // trace, debug, info, warn, error
	Format    string // auto, console, json
	Output    string // stderr, stdout, or a file path
	AddCaller bool
}

// createDefaultLogger creates a logger with default settings.
func createDefaultLogger() zerolog.Logger {
	isTerminal := isatty()

	var writer io.Writer = os.Stderr

	if isTerminal && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := getLogLevel()
	zerolog.SetGlobalLevel(level)

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewLoggerFromConfig creates a logger from an explicit configuration.
func NewLoggerFromConfig(config *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	writer := resolveWriter(config)

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if config.AddCaller {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// resolveWriter picks the output writer for a logger configuration.
func resolveWriter(config *Config) io.Writer {
	var out io.Writer
	switch config.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	useConsole := config.Format == "console" || (config.Format != "json" && isatty())
	if useConsole {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}
	return out
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// New creates a new logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// isatty checks if stderr is a terminal.
func isatty() bool {
	if fileInfo, _ := os.Stderr.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// getLogLevel returns the log level from environment or defaults.
func getLogLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
