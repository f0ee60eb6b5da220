// Package logging builds zerolog loggers for the instrumentation runtime
// and adapts them to the core's required Log(message, level) capability
// (spec.md §1's "Log sink" collaborator). Adapted from the teacher's
// internal/logging/logger.go, generalized from a free-form level string
// to the config.LogLevel enum shared with logLevel/coreAgentLogLevel.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/config"
)

// Options configures logger construction.
type Options struct {
	// Level sets the logging threshold.
	Level config.LogLevel
	// Pretty enables human-readable console output with colors.
	Pretty bool
	// Output sets the output writer (defaults to os.Stdout).
	Output io.Writer
}

// DefaultOptions returns a default logger configuration.
func DefaultOptions() Options {
	return Options{
		Level:  config.LogLevelInfo,
		Pretty: true,
		Output: os.Stdout,
	}
}

// New creates a new zerolog logger with the given options.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	switch opts.Level {
	case config.LogLevelDebug:
		level = zerolog.DebugLevel
	case config.LogLevelWarn:
		level = zerolog.WarnLevel
	case config.LogLevelError:
		level = zerolog.ErrorLevel
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	// Use pretty console writer for human-readable output.
	if opts.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewWithComponent creates a logger with a component field for structured
// logging, the convention used throughout internal/config, internal/
// transport and internal/lifecycle.
func NewWithComponent(opts Options, component string) zerolog.Logger {
	return New(opts).With().Str("component", component).Logger()
}

// Sink adapts a zerolog.Logger to the two-argument Log(message, level)
// capability the core requires of its embedder (spec.md §1). Embedding
// programs may supply any other implementation of the same signature in
// place of Sink.
type Sink struct {
	logger zerolog.Logger
}

// NewSink wraps logger as a Log(message, level) capability.
func NewSink(logger zerolog.Logger) Sink {
	return Sink{logger: logger}
}

// Log implements the core's required logging capability.
func (s Sink) Log(message string, level config.LogLevel) {
	var event *zerolog.Event
	switch level {
	case config.LogLevelDebug:
		event = s.logger.Debug()
	case config.LogLevelWarn:
		event = s.logger.Warn()
	case config.LogLevelError:
		event = s.logger.Error()
	default:
		event = s.logger.Info()
	}
	event.Msg(message)
}
