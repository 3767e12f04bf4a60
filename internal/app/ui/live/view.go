package live

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logscope/internal/app/bus"
	"logscope/internal/app/entry"
	"logscope/internal/app/ui/components"
)

// View renders the UI
func (m Model) View() string {
	if m.ui.width == 0 {
		return "Initializing…"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.ui.logs.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	lamp := m.ui.blink.Render(components.LiveStyle)
	if m.ui.blink.IsPaused() {
		lamp = m.ui.blink.Render(components.PausedStyle)
	}

	title := components.TitleStyle.Render("logscope") + " " + lamp

	return components.RenderHeader(m.ui.width, title, m.renderStats())
}

// renderStats formats the latest stats readout for the header
func (m Model) renderStats() string {
	s := m.state.stats

	parts := []string{
		fmt.Sprintf("%d entries", s.Total),
		fmt.Sprintf("%.1f/s", s.EPS),
		fmt.Sprintf("buf %d/%d", s.Buffered, s.Capacity),
	}

	if drops := s.QueueDropped + s.BacklogDrops; drops > 0 {
		parts = append(parts, components.WarningStyle.Render(fmt.Sprintf("%d dropped", drops)))
	}

	if s.Process.MEM > 0 {
		parts = append(parts, fmt.Sprintf("%.0fMB", s.Process.MEM))
	}

	return components.MutedStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderFooter() string {
	status := m.renderFilterStatus()

	if m.state.notice != "" {
		style := components.MutedStyle
		if m.state.failed {
			style = components.ErrorStyle
		}

		status += "  " + style.Render(m.state.notice)
	}

	helpText := m.ui.help.ShortHelpView(m.ui.keys.ShortHelp())
	if m.ui.searching {
		helpText = m.ui.search.View()
	}

	return components.RenderFooter(m.ui.width, status, helpText)
}

// renderFilterStatus shows levels, sources and modes as lit or dim toggles
func (m Model) renderFilterStatus() string {
	spec := m.controller.Spec()

	toggle := func(label string, on bool) string {
		if on {
			return components.ActiveToggleStyle.Render(label)
		}

		return components.InactiveToggleStyle.Render(label)
	}

	levels := make([]string, 0, len(entry.Levels))
	for _, level := range entry.Levels {
		levels = append(levels, toggle(level.String()[:1], spec.AllowsLevel(level)))
	}

	sources := make([]string, 0, len(m.state.sources))
	statuses := m.sourceStatuses()

	for i, source := range m.state.sources {
		label := source
		if statuses[source] == bus.StatusDegraded {
			label += "!"
		}

		if i == m.state.cursor%len(m.state.sources) {
			label = "[" + label + "]"
		}

		sources = append(sources, toggle(label, spec.AllowsSource(source)))
	}

	parts := []string{strings.Join(levels, ""), strings.Join(sources, " ")}

	if mode := spec.Mode(); mode != "" {
		parts = append(parts, toggle("mode:"+string(mode), true))
	}

	if text := spec.Text(); text != "" {
		flags := ""
		if spec.Regex() {
			flags += "re"
		}

		if spec.CaseSensitive() {
			flags += "Aa"
		}

		label := "/" + text
		if flags != "" {
			label += " [" + flags + "]"
		}

		parts = append(parts, toggle(label, true))
	}

	if m.controller.Paused() {
		parts = append(parts, components.PausedStyle.Render("paused"))
	}

	return strings.Join(parts, "  ")
}

func (m Model) sourceStatuses() map[string]bus.Status {
	out := make(map[string]bus.Status, len(m.state.stats.Sources))
	for _, s := range m.state.stats.Sources {
		out[s.Source] = s.Status
	}

	return out
}
