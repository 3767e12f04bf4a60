package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Level
		ok       bool
	}{
		{name: "upper case", input: "ERROR", expected: Error, ok: true},
		{name: "lower case", input: "warning", expected: Warning, ok: true},
		{name: "surrounding spaces", input: " Info ", expected: Info, ok: true},
		{name: "critical", input: "CRITICAL", expected: Critical, ok: true},
		{name: "abbreviation is not a level", input: "WARN", expected: Unknown},
		{name: "empty", input: "", expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.input)

			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func Test_LevelOrder(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		assert.Less(t, Levels[i-1], Levels[i])
	}

	assert.Less(t, Unknown, Debug)
}

func Test_LevelString(t *testing.T) {
	for _, level := range Levels {
		parsed, ok := ParseLevel(level.String())

		assert.True(t, ok)
		assert.Equal(t, level, parsed)
	}

	assert.Equal(t, "UNKNOWN", Unknown.String())
}

func Test_Display(t *testing.T) {
	parsed := Entry{Message: "battery low", RawLine: "[...] battery low"}
	unparsed := Entry{Message: "garbage", RawLine: "garbage line", Unparsed: true}

	assert.Equal(t, "battery low", parsed.Display())
	assert.Equal(t, "garbage line", unparsed.Display())
}
