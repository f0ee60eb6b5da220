package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/scout-apm/agentcore/internal/config"
)

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: config.LogLevelDebug, Output: &buf})

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
}

func TestNew_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: config.LogLevelInfo, Output: &buf})

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
}

func TestNew_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: config.LogLevelWarn, Output: &buf})

	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

func TestNew_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: config.LogLevelError, Output: &buf})

	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	output := buf.String()
	assert.NotContains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Options{Level: config.LogLevelInfo, Output: &buf}, "test-component")

	logger.Info().Msg("test message")

	output := buf.String()
	assert.Contains(t, output, "test-component")
	assert.Contains(t, output, "test message")
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: config.LogLevelInfo, Pretty: true, Output: &buf})

	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestNew_DefaultOutput(t *testing.T) {
	assert.NotPanics(t, func() {
		logger := New(Options{Level: config.LogLevelInfo})
		logger.Info().Msg("test message")
	})
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, config.LogLevelInfo, opts.Level)
	assert.True(t, opts.Pretty)
}

func TestNew_LevelHierarchy(t *testing.T) {
	cases := []struct {
		level    config.LogLevel
		expected zerolog.Level
	}{
		{config.LogLevelDebug, zerolog.DebugLevel},
		{config.LogLevelInfo, zerolog.InfoLevel},
		{config.LogLevelWarn, zerolog.WarnLevel},
		{config.LogLevelError, zerolog.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level.String(), func(t *testing.T) {
			logger := New(Options{Level: tc.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tc.expected, logger.GetLevel())
		})
	}
}

func TestSink_Log(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(New(Options{Level: config.LogLevelDebug, Output: &buf}))

	sink.Log("debug event", config.LogLevelDebug)
	sink.Log("warn event", config.LogLevelWarn)

	output := buf.String()
	assert.Contains(t, output, "debug event")
	assert.Contains(t, output, "warn event")
}
