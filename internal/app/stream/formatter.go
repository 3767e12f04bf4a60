package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"logscope/internal/app/entry"
	"logscope/internal/app/ui/components"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

const (
	levelWidth     = len("CRITICAL")
	unparsedLabel  = "-"
	syntheticMark  = "~"
	defaultTermCol = 80
)

// Formatter renders entries for terminal or JSON output
type Formatter struct {
	mu            sync.Mutex
	format        string
	color         bool
	maxSourceLen  int
	separator     lipgloss.Style
	sourceStyles  map[string]lipgloss.Style
	levelStyles   map[entry.Level]lipgloss.Style
	unparsedStyle lipgloss.Style
}

// NewFormatter creates a formatter using the configured log format, coloring only when stdout is a terminal
func NewFormatter(cfg *config.Config) *Formatter {
	return NewFormatterWith(cfg.Logging.Format, term.IsTerminal(os.Stdout.Fd()))
}

// NewFormatterWith creates a formatter with an explicit format and color setting
func NewFormatterWith(format string, color bool) *Formatter {
	levelStyles := make(map[entry.Level]lipgloss.Style, len(entry.Levels))
	for _, level := range entry.Levels {
		levelStyles[level] = lipgloss.NewStyle().Foreground(components.LevelColor(level)).Bold(level >= entry.Error)
	}

	return &Formatter{
		format:        format,
		color:         color,
		maxSourceLen:  components.DefaultMaxSourceLen,
		separator:     lipgloss.NewStyle().Foreground(components.LogSeparatorColor),
		sourceStyles:  make(map[string]lipgloss.Style),
		levelStyles:   levelStyles,
		unparsedStyle: lipgloss.NewStyle().Foreground(components.UnparsedColor),
	}
}

// Format renders a single entry as one line including the trailing newline
func (f *Formatter) Format(e entry.Entry) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.format == logger.JSONFormat {
		data, err := json.Marshal(NewEntryMessage(e))
		if err != nil {
			return fmt.Sprintf(`{"type":"entry","raw":%q}`+"\n", e.RawLine)
		}

		return string(data) + "\n"
	}

	return f.formatLine(e)
}

// WriteFormatted writes a formatted entry to the given writer
func (f *Formatter) WriteFormatted(w io.Writer, e entry.Entry) {
	fmt.Fprint(w, f.Format(e))
}

// RenderBanner writes a connection banner to the given writer
func (f *Formatter) RenderBanner(w io.Writer, status StatusMessage) {
	if f.format == logger.JSONFormat {
		return
	}

	sources := "none yet"
	if len(status.Sources) > 0 {
		const maxShown = 5
		if len(status.Sources) <= maxShown {
			sources = strings.Join(status.Sources, ", ")
		} else {
			sources = strings.Join(status.Sources[:maxShown], ", ") + fmt.Sprintf(" and %d more", len(status.Sources)-maxShown)
		}
	}

	termWidth, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || termWidth < 40 {
		termWidth = defaultTermCol
	}

	rows := [][2]string{
		{"instance:", status.Name},
		{"sources:", sources},
		{"filter:", status.Filter},
	}

	if status.Replayed > 0 {
		rows = append(rows, [2]string{"replayed:", fmt.Sprintf("%d entries", status.Replayed)})
	}

	lines := components.RenderBanner(termWidth, "tail", rows, "v"+status.Version)
	lines = append(lines, " "+components.HelpKeyStyle.Render("ctrl+c")+" "+components.HelpDescStyle.Render("exit"), "")

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// formatLine renders "timestamp LEVEL source | message"
func (f *Formatter) formatLine(e entry.Entry) string {
	ts := e.Timestamp.Format(components.TimestampLayout)
	if e.SyntheticTime {
		ts = syntheticMark + ts
	} else {
		ts = " " + ts
	}

	if len(e.Source) > f.maxSourceLen {
		f.maxSourceLen = len(e.Source)
	}

	source := e.Source + strings.Repeat(" ", f.maxSourceLen-len(e.Source))

	level := unparsedLabel
	if !e.Unparsed {
		level = e.Level.String()
	}

	level += strings.Repeat(" ", max(levelWidth-len(level), 0))

	message := e.Display()

	if !f.color {
		return ts + " " + level + " " + source + " | " + message + "\n"
	}

	levelStyle, ok := f.levelStyles[e.Level]
	if !ok || e.Unparsed {
		levelStyle = f.unparsedStyle
	}

	if e.Unparsed {
		message = f.unparsedStyle.Render(message)
	}

	return components.MutedStyle.Render(ts) + " " +
		levelStyle.Render(level) + " " +
		f.sourceStyle(e.Source).Render(source) + " " +
		f.separator.Render("|") + " " +
		message + "\n"
}

// sourceStyle returns a consistent style for a source name
func (f *Formatter) sourceStyle(source string) lipgloss.Style {
	if style, exists := f.sourceStyles[source]; exists {
		return style
	}

	style := lipgloss.NewStyle().Foreground(components.SourceColor(source)).Bold(true)
	f.sourceStyles[source] = style

	return style
}
