package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logscope/internal/config"
)

// RenderLine renders a horizontal line of the specified width with separator style
func RenderLine(width int) string {
	if width < 0 {
		width = 0
	}

	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// RenderHeader renders the header with format: ─── <title> ─────── <info> ───
func RenderHeader(width int, title, info string) string {
	titleWidth := lipgloss.Width(title)
	infoWidth := lipgloss.Width(info)

	maxTitleWidth := width - infoWidth - HeaderSeparatorMinWidth - HeaderFixedChars
	if titleWidth > maxTitleWidth && maxTitleWidth > 0 {
		title = Truncate(title, maxTitleWidth)
		titleWidth = lipgloss.Width(title)
	}

	separatorWidth := max(width-titleWidth-infoWidth-HeaderFixedChars, HeaderSeparatorMinWidth)

	return HeaderStyle.Render(RenderLine(3) + " " + title + " " + RenderLine(separatorWidth) + " " + info + " " + RenderLine(3))
}

// RenderFooter renders the filter status line above the version line and help text
func RenderFooter(width int, status, helpText string) string {
	version := fmt.Sprintf("v%s", config.Version)

	separatorWidth := max(width-lipgloss.Width(version)-FooterFixedChars, FooterSeparatorMinWidth)
	versionLine := RenderLine(separatorWidth) + " " + version + " " + RenderLine(3)

	help := FooterHelpStyle.Render(HelpStyle.Render(helpText))

	return FooterStyle.Render(lipgloss.JoinVertical(lipgloss.Left, " "+Truncate(status, width-1), versionLine, help))
}

// RenderContent wraps content with spacing
func RenderContent(content string) string {
	return ContentStyle.Render(content)
}

// RenderBanner renders a bordered box with a title and key/value rows
func RenderBanner(width int, title string, rows [][2]string, corner string) []string {
	innerWidth := max(width-PanelInnerPadding, 20)
	border := PanelBorderStyle.Render

	titleText := PanelTitleStyle.Render(title)
	top := border("╭─ ") + titleText + " " + border(strings.Repeat("─", max(innerWidth-lipgloss.Width(titleText)-1, 0))+"╮")

	lines := []string{top}

	for _, row := range rows {
		value := Truncate(row[1], innerWidth-lipgloss.Width(row[0])-1)
		content := " " + PanelMutedStyle.Render(row[0]) + " " + BoldStyle.Render(value)
		pad := max(innerWidth+2-lipgloss.Width(content), 0)
		lines = append(lines, border("│")+content+strings.Repeat(" ", pad)+border("│"))
	}

	cornerText := PanelMutedStyle.Render(corner)
	bottom := border("╰"+strings.Repeat("─", max(innerWidth-lipgloss.Width(cornerText), 0))+" ") + cornerText + border(" ─╯")

	return append(lines, bottom)
}

// Truncate shortens s to maxWidth cells, marking the cut with an ellipsis
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	if maxWidth == 1 {
		return "…"
	}

	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		truncated := string(runes[:i]) + "…"
		if lipgloss.Width(truncated) <= maxWidth {
			return truncated
		}
	}

	return "…"
}
