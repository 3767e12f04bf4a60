package components

import (
	"github.com/charmbracelet/lipgloss"

	"logscope/internal/app/entry"
)

// Color palette for the UI with semantic naming
const (
	FgPrimary = lipgloss.Color("#7D56F4") // Purple - primary/focus color
	FgMuted   = lipgloss.Color("7")
	FgBorder  = lipgloss.Color("8")

	BgSelection = lipgloss.Color("235")

	// Status colors - source and view states
	FgStatusLive    = lipgloss.Color("10")
	FgStatusWarning = lipgloss.Color("11")
	FgStatusError   = lipgloss.Color("9")
	FgStatusIdle    = lipgloss.Color("8")
)

// Level colors, adaptive so DEBUG stays readable on light terminals
var (
	LevelDebugColor    = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#8a8a8a"}
	LevelInfoColor     = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	LevelWarningColor  = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
	LevelErrorColor    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	LevelCriticalColor = lipgloss.AdaptiveColor{Light: "#be185d", Dark: "#f472b6"}
	UnparsedColor      = lipgloss.AdaptiveColor{Light: "#a3a3a3", Dark: "#737373"}
)

// LogSeparatorColor is the adaptive color for log separators
var LogSeparatorColor = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#a3a3a3"}

// SourceColorPalette provides distinct colors for source names
var SourceColorPalette = []lipgloss.AdaptiveColor{
	{Light: "#0891b2", Dark: "#22d3ee"}, // Cyan
	{Light: "#059669", Dark: "#34d399"}, // Emerald
	{Light: "#7c3aed", Dark: "#a78bfa"}, // Violet
	{Light: "#db2777", Dark: "#f472b6"}, // Pink
	{Light: "#65a30d", Dark: "#a3e635"}, // Lime
	{Light: "#0d9488", Dark: "#2dd4bf"}, // Teal
	{Light: "#ea580c", Dark: "#fb923c"}, // Orange
	{Light: "#4f46e5", Dark: "#818cf8"}, // Indigo
	{Light: "#0284c7", Dark: "#38bdf8"}, // Sky
	{Light: "#15803d", Dark: "#86efac"}, // Green
	{Light: "#9333ea", Dark: "#e879f9"}, // Magenta
	{Light: "#b45309", Dark: "#fcd34d"}, // Gold
}

// LevelColor returns the color a level is rendered with
func LevelColor(level entry.Level) lipgloss.TerminalColor {
	switch level {
	case entry.Debug:
		return LevelDebugColor
	case entry.Info:
		return LevelInfoColor
	case entry.Warning:
		return LevelWarningColor
	case entry.Error:
		return LevelErrorColor
	case entry.Critical:
		return LevelCriticalColor
	default:
		return UnparsedColor
	}
}

// SourceColor returns a stable palette color for a source name
func SourceColor(source string) lipgloss.AdaptiveColor {
	return SourceColorPalette[hashString(source)%len(SourceColorPalette)]
}

func hashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}

	if h < 0 {
		h = -h
	}

	return h
}
