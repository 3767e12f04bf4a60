package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/app/entry"
	"logscope/internal/config"
)

var fixedNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func newTestParser() Parser {
	return New(config.DefaultZones, func() time.Time { return fixedNow })
}

func Test_NewParser(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.Zones["ist"] = 19800

	p := NewParser(cfg)
	require.NotNil(t, p)

	impl, ok := p.(*parser)
	require.True(t, ok)
	assert.Contains(t, impl.zones, "IST")
	assert.Contains(t, impl.zones, "EST")
	assert.NotNil(t, impl.now)
}

func Test_Parse_WellFormed(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		level     entry.Level
		source    string
		component string
		message   string
	}{
		{
			name:      "Example line",
			raw:       "[2025-09-15 17:01:16,643 EST] [INFO] [speech_synthesis] [MainThread] Processing TTS: 'Hello!' (voice: onyx)",
			level:     entry.Info,
			source:    "speech_synthesis",
			component: "MainThread",
			message:   "Processing TTS: 'Hello!' (voice: onyx)",
		},
		{
			name:      "Lowercase level",
			raw:       "[2025-09-15 17:01:16,643 UTC] [warning] [navigation] [planner] Path blocked",
			level:     entry.Warning,
			source:    "navigation",
			component: "planner",
			message:   "Path blocked",
		},
		{
			name:      "Critical with brackets in message",
			raw:       "[2025-09-15 17:01:16,643 PST] [CRITICAL] [core] [Thread-3] state=[a] [b]",
			level:     entry.Critical,
			source:    "core",
			component: "Thread-3",
			message:   "state=[a] [b]",
		},
		{
			name:      "Empty message",
			raw:       "[2025-09-15 17:01:16,643 EST] [DEBUG] [core] [main]",
			level:     entry.Debug,
			source:    "core",
			component: "main",
			message:   "",
		},
		{
			name:      "Trailing carriage return",
			raw:       "[2025-09-15 17:01:16,643 EST] [ERROR] [core] [main] failed\r",
			level:     entry.Error,
			source:    "core",
			component: "main",
			message:   "failed",
		},
	}

	p := newTestParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := p.Parse(tt.raw)

			assert.False(t, e.Unparsed)
			assert.False(t, e.SyntheticTime)
			assert.Equal(t, tt.level, e.Level)
			assert.Equal(t, tt.source, e.Source)
			assert.Equal(t, tt.component, e.Component)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func Test_Parse_Timestamp(t *testing.T) {
	p := newTestParser()

	e := p.Parse("[2025-09-15 17:01:16,643 EST] [INFO] [speech_synthesis] [MainThread] hi")

	_, offset := e.Timestamp.Zone()
	assert.Equal(t, -5*3600, offset)
	assert.Equal(t, time.Date(2025, 9, 15, 22, 1, 16, 643_000_000, time.UTC), e.Timestamp.UTC())
	assert.Equal(t, "EST", e.Timestamp.Location().String())
}

func Test_New_CaseCollidingZones(t *testing.T) {
	zones := map[string]int{"EST": -5 * 3600, "est": 0}

	for range 50 {
		e := New(zones, nil).Parse("[2025-09-15 17:01:16,643 EST] [INFO] [core] [main] hi")

		_, offset := e.Timestamp.Zone()
		require.Equal(t, 0, offset)
	}
}

func Test_Parse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "Plain text", raw: "Traceback (most recent call last):"},
		{name: "Empty line", raw: ""},
		{name: "Unknown level", raw: "[2025-09-15 17:01:16,643 EST] [NOTICE] [core] [main] hi"},
		{name: "WARN is not a known level", raw: "[2025-09-15 17:01:16,643 EST] [WARN] [core] [main] hi"},
		{name: "Missing component", raw: "[2025-09-15 17:01:16,643 EST] [INFO] [core] hi"},
		{name: "Unterminated field", raw: "[2025-09-15 17:01:16,643 EST] [INFO"},
		{name: "Leading whitespace", raw: "  [2025-09-15 17:01:16,643 EST] [INFO] [core] [main] hi"},
		{name: "Empty source", raw: "[2025-09-15 17:01:16,643 EST] [INFO] [] [main] hi"},
	}

	p := newTestParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := p.ParseFrom("core_file", tt.raw)

			assert.True(t, e.Unparsed)
			assert.Equal(t, tt.raw, e.RawLine)
			assert.Equal(t, tt.raw, e.Message)
			assert.Equal(t, "core_file", e.File)
			assert.Equal(t, tt.raw, e.Display())
		})
	}
}

func Test_Parse_PartialKeepsExtractedFields(t *testing.T) {
	p := newTestParser()

	raw := "[2025-09-15 17:01:16,643 EST] [ERROR] [vision] broken line"
	e := p.ParseFrom("vision", raw)

	assert.True(t, e.Unparsed)
	assert.Equal(t, entry.Error, e.Level)
	assert.Equal(t, "vision", e.Source)
	assert.Empty(t, e.Component)
	assert.Equal(t, raw, e.Message)
	assert.False(t, e.SyntheticTime)
}

func Test_Parse_UnparsedSourceFallsBackToFile(t *testing.T) {
	p := newTestParser()

	e := p.ParseFrom("navigation", "garbage")

	assert.True(t, e.Unparsed)
	assert.Equal(t, "navigation", e.Source)
	assert.Equal(t, entry.Unknown, e.Level)
	assert.True(t, e.SyntheticTime)
	assert.Equal(t, fixedNow, e.Timestamp)
}

func Test_Parse_BadTimestampKeepsOtherFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "Unknown zone", raw: "[2025-09-15 17:01:16,643 XYZ] [INFO] [core] [main] hi"},
		{name: "Garbled date", raw: "[yesterday at noon EST] [INFO] [core] [main] hi"},
		{name: "Missing zone", raw: "[2025-09-15] [INFO] [core] [main] hi"},
	}

	p := newTestParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := p.Parse(tt.raw)

			assert.False(t, e.Unparsed)
			assert.True(t, e.SyntheticTime)
			assert.Equal(t, fixedNow, e.Timestamp)
			assert.Equal(t, entry.Info, e.Level)
			assert.Equal(t, "core", e.Source)
			assert.Equal(t, "main", e.Component)
			assert.Equal(t, "hi", e.Message)
		})
	}
}

func Test_Parse_RoundTripsGeneratedLines(t *testing.T) {
	p := newTestParser()

	sources := []string{"speech_recognition", "navigation", "speech_synthesis"}
	messages := []string{"ok", "a [bracketed] message", "  leading spaces", "tabs\tinside"}

	for _, level := range entry.Levels {
		for _, source := range sources {
			for _, message := range messages {
				raw := "[2025-01-02 03:04:05,006 UTC] [" + level.String() + "] [" + source + "] [worker-1] " + message
				e := p.Parse(raw)

				require.False(t, e.Unparsed, raw)
				assert.Equal(t, level, e.Level)
				assert.Equal(t, source, e.Source)
				assert.Equal(t, "worker-1", e.Component)
				assert.Equal(t, message, e.Message)
				assert.Equal(t, raw, e.RawLine)
			}
		}
	}
}

func Test_nextField(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		pos      int
		expected string
		next     int
		ok       bool
	}{
		{name: "First field", line: "[a] [b]", pos: 0, expected: "a", next: 3, ok: true},
		{name: "Skips blanks", line: "[a]   [b]", pos: 3, expected: "b", next: 9, ok: true},
		{name: "No bracket", line: "a", pos: 0, ok: false},
		{name: "End of line", line: "[a]", pos: 3, ok: false},
		{name: "No closing bracket", line: "[abc", pos: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, next, ok := nextField(tt.line, tt.pos)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.expected, value)
				assert.Equal(t, tt.next, next)
			}
		})
	}
}
