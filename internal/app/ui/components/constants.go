package components

import "time"

// UI timing constants
const (
	// UITickInterval is the base tick rate for the TUI; it also drives the blink animation
	UITickInterval = 100 * time.Millisecond

	UITicksPerSecond = int(time.Second / UITickInterval)

	// StatsRefreshTicks is how many UI ticks pass between stats readouts
	StatsRefreshTicks = 10
)

// Header layout constants
const (
	HeaderSeparatorMinWidth = 4
	HeaderFixedChars        = 10
)

// Footer layout constants
const (
	FooterSeparatorMinWidth = 4
	FooterFixedChars        = 5
)

// Log view constants
const (
	DefaultMaxSourceLen  = 12
	DefaultViewportWidth = 80
	HeaderHeight         = 3
	FooterHeight         = 4
	PanelInnerPadding    = 4
	TimestampLayout      = "2006-01-02 15:04:05.000"
)
