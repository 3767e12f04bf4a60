package logs

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/app/entry"
	"logscope/internal/app/ui/components"
)

// Model is the scrollable list of delivered entries. It keeps at most maxSize
// entries, evicting the oldest, and renders each entry once per width
type Model struct {
	entries      []entry.Entry // Ring buffer: fixed-size array
	rendered     []string      // Ring buffer: rendered line cache, "" when stale
	head         int           // Index of oldest entry in ring
	count        int           // Number of active entries in ring
	maxSize      int
	lastID       uint64
	maxSourceLen int
	dirty        bool
	follow       bool
	viewport     viewport.Model
}

// NewModel creates a log view holding up to capacity entries
func NewModel(capacity int) Model {
	if capacity <= 0 {
		capacity = 1
	}

	return Model{
		entries:      make([]entry.Entry, capacity),
		rendered:     make([]string, capacity),
		maxSize:      capacity,
		maxSourceLen: components.DefaultMaxSourceLen,
		follow:       true,
		viewport:     viewport.New(components.DefaultViewportWidth, 0),
	}
}

// ringIndex converts a logical index (0 to count-1) to physical ring buffer index
func (m *Model) ringIndex(logicalIndex int) int {
	return (m.head + logicalIndex) % m.maxSize
}

// Append adds an entry. Entries at or below the last seen ID are dropped, which
// keeps a reload followed by late deliveries free of duplicates
func (m *Model) Append(e entry.Entry) bool {
	if e.ID != 0 && e.ID <= m.lastID {
		return false
	}

	if e.ID > m.lastID {
		m.lastID = e.ID
	}

	if len(e.Source) > m.maxSourceLen {
		m.maxSourceLen = len(e.Source)
		m.invalidate()
	}

	tail := m.ringIndex(m.count)
	if m.count == m.maxSize {
		m.head = (m.head + 1) % m.maxSize
	} else {
		m.count++
	}

	m.entries[tail] = e
	m.rendered[tail] = ""
	m.dirty = true

	return true
}

// Reset replaces the contents with entries, oldest first
func (m *Model) Reset(entries []entry.Entry) {
	m.Clear()
	m.lastID = 0

	for _, e := range entries {
		m.Append(e)
	}
}

// Clear drops every entry. The ID watermark is kept so nothing older reappears
func (m *Model) Clear() {
	for i := range m.entries {
		m.entries[i] = entry.Entry{}
		m.rendered[i] = ""
	}

	m.head = 0
	m.count = 0
	m.dirty = true
}

// Len returns the number of entries held
func (m Model) Len() int {
	return m.count
}

// Entries returns the held entries, oldest first
func (m Model) Entries() []entry.Entry {
	out := make([]entry.Entry, m.count)
	for i := range m.count {
		out[i] = m.entries[m.ringIndex(i)]
	}

	return out
}

// SetSize updates the viewport dimensions
func (m *Model) SetSize(width, height int) {
	if width != m.viewport.Width {
		m.invalidate()
	}

	m.viewport.Width = width
	m.viewport.Height = max(height, 0)
	m.dirty = true
	m.Flush()
}

// Follow reports whether the view sticks to the newest entry
func (m Model) Follow() bool {
	return m.follow
}

// SetFollow turns following on or off; turning it on jumps to the bottom
func (m *Model) SetFollow(follow bool) {
	m.follow = follow
	if follow {
		m.viewport.GotoBottom()
	}
}

// HandleKey scrolls the viewport. Scrolling away from the bottom stops following
func (m *Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	m.follow = m.viewport.AtBottom()

	return cmd
}

// Flush pushes pending changes into the viewport
func (m *Model) Flush() {
	if !m.dirty {
		return
	}

	m.dirty = false

	width := m.viewport.Width
	if width <= 0 {
		width = components.DefaultViewportWidth
	}

	lines := make([]string, 0, m.count)

	for i := range m.count {
		idx := m.ringIndex(i)
		if m.rendered[idx] == "" {
			m.rendered[idx] = renderEntry(m.entries[idx], width, m.maxSourceLen)
		}

		lines = append(lines, m.rendered[idx])
	}

	offset := m.viewport.YOffset

	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.follow {
		m.viewport.GotoBottom()
	} else {
		m.viewport.SetYOffset(offset)
	}
}

// View returns the rendered log view
func (m Model) View() string {
	if m.count == 0 {
		return components.EmptyStateStyle.Render("No entries match the current filter yet.")
	}

	return m.viewport.View()
}

// invalidate drops the render cache so every entry is drawn again
func (m *Model) invalidate() {
	for i := range m.rendered {
		m.rendered[i] = ""
	}

	m.dirty = true
}
