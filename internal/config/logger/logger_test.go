package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/config"
)

func Test_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		expected zerolog.Level
	}{
		{name: "Default", level: InfoLevel, format: ConsoleFormat, expected: zerolog.InfoLevel},
		{name: "Debug level", level: DebugLevel, format: ConsoleFormat, expected: zerolog.DebugLevel},
		{name: "Warn level and json format", level: WarnLevel, format: JSONFormat, expected: zerolog.WarnLevel},
		{name: "Empty level and format (defaults)", level: "", format: "", expected: zerolog.InfoLevel},
		{name: "Error level", level: ErrorLevel, format: ConsoleFormat, expected: zerolog.ErrorLevel},
		{name: "Trace level", level: TraceLevel, format: ConsoleFormat, expected: zerolog.TraceLevel},
		{name: "Unknown format (defaults to console)", level: InfoLevel, format: "unknown", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format

			logger := NewLogger(cfg)
			assert.NotNil(t, logger)

			appLogger, ok := logger.(*AppLogger)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, appLogger.log.GetLevel())
		})
	}
}

func Test_NewLogger_EmptyValuesAreFilled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""

	NewLogger(cfg)

	assert.Equal(t, InfoLevel, cfg.Logging.Level)
	assert.Equal(t, ConsoleFormat, cfg.Logging.Format)
}

func Test_NewLoggerWithOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat

	var buf bytes.Buffer

	log := NewLoggerWithOutput(cfg, &buf)
	log.Info().Str("key", "value").Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "value", line["key"])
	assert.Equal(t, config.Version, line["version"])
}

func Test_WithComponent(t *testing.T) {
	cfg := config.DefaultConfig()

	var buf bytes.Buffer

	log := NewLoggerWithOutput(cfg, &buf).WithComponent("TAILER")
	log.Warn().Msg("file missing")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "TAILER", line["component"])
	assert.Equal(t, "warn", line["level"])
}

func Test_LevelFiltering(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = ErrorLevel

	var buf bytes.Buffer

	log := NewLoggerWithOutput(cfg, &buf)
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	log.Warn().Msg("warn")
	assert.Empty(t, buf.String())

	log.Error().Err(errors.New("boom")).Msg("error")
	assert.Contains(t, buf.String(), "boom")
}

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "Debug", level: DebugLevel, expected: zerolog.DebugLevel},
		{name: "Info", level: InfoLevel, expected: zerolog.InfoLevel},
		{name: "Warn", level: WarnLevel, expected: zerolog.WarnLevel},
		{name: "Error", level: ErrorLevel, expected: zerolog.ErrorLevel},
		{name: "Fatal", level: FatalLevel, expected: zerolog.FatalLevel},
		{name: "Panic", level: PanicLevel, expected: zerolog.PanicLevel},
		{name: "Trace", level: TraceLevel, expected: zerolog.TraceLevel},
		{name: "Unknown", level: "unknown", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.level))
		})
	}
}

func Test_zerologEvent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = DebugLevel

	var buf bytes.Buffer

	logger := NewLoggerWithOutput(cfg, &buf)

	event := logger.Debug()
	assert.NotNil(t, event.Str("key", "value"))
	assert.NotNil(t, event.Int("count", 42))
	assert.NotNil(t, event.Dur("duration", time.Second))
	assert.NotNil(t, event.Err(errors.New("test error")))
	event.Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func Test_sentryHook_IgnoresLowerLevels(t *testing.T) {
	hook := sentryHook{}

	assert.NotPanics(t, func() {
		hook.Run(nil, zerolog.InfoLevel, "info")
		hook.Run(nil, zerolog.ErrorLevel, "")
	})
}
