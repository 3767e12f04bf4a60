package logs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logscope/internal/app/entry"
	"logscope/internal/app/ui/components"
)

// renderEntry draws "time LEVEL source message", wrapping the message under itself
func renderEntry(e entry.Entry, width, sourceWidth int) string {
	level := unparsedLabel
	levelStyle := lipgloss.NewStyle().Foreground(components.UnparsedColor)

	if !e.Unparsed {
		level = e.Level.String()
		levelStyle = lipgloss.NewStyle().Foreground(components.LevelColor(e.Level)).Bold(e.Level >= entry.Error)
	}

	ts := " " + e.Timestamp.Format(timeLayout)
	if e.SyntheticTime {
		ts = "~" + ts[1:]
	}

	prefix := components.MutedStyle.Render(ts) + " " +
		levelStyle.Render(padRight(level, levelWidth)) + " " +
		lipgloss.NewStyle().Foreground(components.SourceColor(e.Source)).Render(padRight(e.Source, sourceWidth)) + " "

	message := strings.TrimRight(e.Display(), "\r\n")
	if e.Unparsed {
		message = lipgloss.NewStyle().Foreground(components.UnparsedColor).Render(message)
	}

	messageWidth := max(width-lipgloss.Width(prefix), minMessageWidth)
	lines := wrapLines(message, messageWidth)

	var b strings.Builder

	b.WriteString(prefix)
	b.WriteString(lines[0])

	for _, line := range lines[1:] {
		b.WriteString("\n")
		b.WriteString(components.MutedStyle.Render(padLeft(continuation, lipgloss.Width(prefix))))
		b.WriteString(line)
	}

	return b.String()
}

// wrapLines word-wraps text to width, never returning an empty slice
func wrapLines(text string, width int) []string {
	if lipgloss.Width(text) <= width {
		return []string{text}
	}

	wrapped := lipgloss.NewStyle().Width(width).Render(text)

	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}

	return lines
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

func padLeft(s string, width int) string {
	return strings.Repeat(" ", max(width-lipgloss.Width(s), 0)) + s
}
