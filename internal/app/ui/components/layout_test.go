package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"logscope/internal/config"
)

func Test_Truncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{name: "fits", input: "core", maxWidth: 10, expected: "core"},
		{name: "exact", input: "core", maxWidth: 4, expected: "core"},
		{name: "cut", input: "navigation", maxWidth: 5, expected: "navi…"},
		{name: "single cell", input: "navigation", maxWidth: 1, expected: "…"},
		{name: "zero width", input: "navigation", maxWidth: 0, expected: ""},
		{name: "unicode", input: "überwachung", maxWidth: 4, expected: "übe…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxWidth))
		})
	}
}

func Test_RenderLine(t *testing.T) {
	assert.Equal(t, 5, lipgloss.Width(RenderLine(5)))
	assert.Equal(t, 0, lipgloss.Width(RenderLine(-3)))
}

func Test_RenderHeader(t *testing.T) {
	header := RenderHeader(80, "logscope", "12.0/s")

	assert.Contains(t, header, "logscope")
	assert.Contains(t, header, "12.0/s")
}

func Test_RenderFooter(t *testing.T) {
	footer := RenderFooter(80, "levels=ERROR", "q quit")

	assert.Contains(t, footer, "levels=ERROR")
	assert.Contains(t, footer, "v"+config.Version)
	assert.Contains(t, footer, "q quit")
}

func Test_RenderBanner(t *testing.T) {
	lines := RenderBanner(60, "tail", [][2]string{{"sources:", "core, vision"}, {"filter:", "all"}}, "v1")

	assert.Len(t, lines, 4)
	assert.True(t, strings.Contains(lines[0], "tail"))
	assert.True(t, strings.Contains(lines[1], "core, vision"))
	assert.True(t, strings.Contains(lines[3], "v1"))
}
