package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpRow struct {
	name string
	desc string
}

var (
	helpCommands = []helpRow{
		{"logscope", "Open the live view"},
		{"logscope --no-ui", "Print live entries to stdout"},
		{"logscope search <text>", "Search the log files from the start"},
		{"logscope tail", "Stream entries from a running instance"},
		{"logscope version", "Show version"},
	}

	helpFlags = []helpRow{
		{"--level LEVEL,...", "Show only these levels"},
		{"--source NAME,...", "Show only these sources"},
		{"--search TEXT", "Show entries containing TEXT"},
		{"--regex", "Treat the search text as a regular expression"},
		{"--case-sensitive", "Match the search text case-sensitively"},
		{"--mode crash|dialogue", "Open a preset view"},
		{"--dir PATH", "Directory holding the log files"},
		{"--replay", "Read the log files from the start"},
		{"--max N", "search: maximum number of results"},
		{"--newest", "search: newest entries first"},
		{"--name NAME", "tail: instance to attach to"},
		{"--last N", "tail: stored entries to show first"},
	}

	helpExamples = []helpRow{
		{"logscope --mode crash", "Watch errors and crashes"},
		{"logscope --no-ui --source core --level ERROR", "Print core errors"},
		{"logscope search --regex 'motor (fault|stall)'", "Find motor problems"},
		{"logscope tail --last 50 --mode dialogue", "Follow speech from another terminal"},
	}
)

// renderHelp renders the usage text printed for --help
func renderHelp() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderTitle(),
		sectionHeader.Render("Usage:"),
		renderRows(helpCommands, commandName),
		sectionHeader.Render("Flags:"),
		renderRows(helpFlags, flagName),
		sectionHeader.Render("Examples:"),
		renderRows(helpExamples, exampleCode),
	) + "\n"
}

func renderRows(rows []helpRow, style lipgloss.Style) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		pad := strings.Repeat(" ", width-len(r.name)+2)
		lines[i] = fmt.Sprintf("  %s%s%s", style.Render(r.name), pad, bodyText.Render(r.desc))
	}

	return strings.Join(lines, "\n")
}
