package components

import (
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	idleFrame   = "○"
	litFrame    = "●"
	pausedFrame = "⏸"

	blinkFPS = UITicksPerSecond

	// Spring physics parameters
	blinkAngularFrequency = 8.0
	blinkDampingRatio     = 0.7

	// A pulse holds the lamp on for this many ticks before it decays
	blinkHoldTicks = 2

	blinkFrameThreshold = 0.3
	blinkPositionFull   = 1.0
	blinkPositionEmpty  = 0.0
)

type indicatorState int

const (
	indicatorIdle indicatorState = iota
	indicatorLive
	indicatorPaused
)

// Blink is the live ingestion lamp. Each Pulse lights it and a spring fades it back,
// so a steady stream of entries reads as a flicker and silence as a dark lamp
type Blink struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
	hold     int
	state    indicatorState
}

// NewBlink creates an idle lamp
func NewBlink() *Blink {
	return &Blink{
		spring: harmonica.NewSpring(harmonica.FPS(blinkFPS), blinkAngularFrequency, blinkDampingRatio),
		state:  indicatorIdle,
	}
}

// Start marks the view as live
func (b *Blink) Start() {
	b.state = indicatorLive
}

// Pause freezes the lamp on the paused glyph
func (b *Blink) Pause() {
	b.state = indicatorPaused
	b.reset()
}

// Stop turns the lamp off
func (b *Blink) Stop() {
	b.state = indicatorIdle
	b.reset()
}

// Pulse lights the lamp for a newly delivered entry. It has no effect unless live
func (b *Blink) Pulse() {
	if b.state != indicatorLive {
		return
	}

	b.target = blinkPositionFull
	b.hold = blinkHoldTicks
}

// Update advances the animation (called on each UI tick)
func (b *Blink) Update() {
	if b.state != indicatorLive {
		return
	}

	if b.hold > 0 {
		b.hold--
	} else {
		b.target = blinkPositionEmpty
	}

	b.position, b.velocity = b.spring.Update(b.position, b.velocity, b.target)
}

// Frame returns the current glyph
func (b *Blink) Frame() string {
	switch {
	case b.state == indicatorPaused:
		return pausedFrame
	case b.state == indicatorLive && b.position >= blinkFrameThreshold:
		return litFrame
	default:
		return idleFrame
	}
}

// Render returns the styled frame
func (b *Blink) Render(style lipgloss.Style) string {
	return style.Render(b.Frame())
}

// IsActive returns whether the lamp is live
func (b *Blink) IsActive() bool {
	return b.state == indicatorLive
}

// IsPaused returns whether the lamp shows the paused glyph
func (b *Blink) IsPaused() bool {
	return b.state == indicatorPaused
}

func (b *Blink) reset() {
	b.target = blinkPositionEmpty
	b.position = blinkPositionEmpty
	b.velocity = blinkPositionEmpty
	b.hold = 0
}
