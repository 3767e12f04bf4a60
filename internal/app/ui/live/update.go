package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/app/bus"
	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
	"logscope/internal/app/ui/components"
	"logscope/internal/app/ui/logs"
)

const tickCounterMaximum = 1000000

// msgMsg wraps a bus message for tea messaging
type msgMsg bus.Message

// tickMsg signals a UI tick for animations
type tickMsg time.Time

// channelClosedMsg signals the event channel has closed
type channelClosedMsg struct{}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.ui.width = msg.Width
		m.ui.height = msg.Height
		m.ui.help.Width = msg.Width
		m.ui.search.Width = max(msg.Width-components.PanelInnerPadding, 10)
		m.ui.logs.SetSize(msg.Width, msg.Height-components.HeaderHeight-components.FooterHeight)

		return m, nil

	case logs.EntryMsg:
		if m.ui.logs.Append(entry.Entry(msg)) {
			m.ui.blink.Pulse()
		}

		return m, nil

	case tickMsg:
		m.ui.tickCounter++
		if m.ui.tickCounter >= tickCounterMaximum {
			m.ui.tickCounter = 0
		}

		m.ui.blink.Update()
		m.ui.logs.Flush()

		if m.ui.tickCounter%components.StatsRefreshTicks == 0 {
			m.state.stats = m.engine.Stats()
		}

		return m, tickCmd()

	case msgMsg:
		return m.handleMessage(bus.Message(msg))

	case channelClosedMsg:
		m.log.Warn().Msg("TUI: Event channel closed, quitting")
		return m, tea.Quit
	}

	if m.ui.searching {
		var cmd tea.Cmd

		m.ui.search, cmd = m.ui.search.Update(msg)

		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.ui.keys.ForceQuit) {
		m.log.Warn().Msg("TUI: Force quit requested, exiting")
		return m, tea.Quit
	}

	if m.ui.searching {
		return m.handleSearchKey(msg)
	}

	for i, binding := range m.ui.keys.Levels {
		if key.Matches(msg, binding) {
			return m.apply(m.controller.ToggleLevel(entry.Levels[i].String()))
		}
	}

	switch {
	case key.Matches(msg, m.ui.keys.Quit):
		m.state.stopping = true
		return m, tea.Quit

	case key.Matches(msg, m.ui.keys.CrashMode):
		return m.apply(m.controller.ToggleMode(string(filter.ModeCrash)))

	case key.Matches(msg, m.ui.keys.DialogueMode):
		return m.apply(m.controller.ToggleMode(string(filter.ModeDialogue)))

	case key.Matches(msg, m.ui.keys.NextSource):
		if len(m.state.sources) > 0 {
			m.state.cursor = (m.state.cursor + 1) % len(m.state.sources)
		}

		return m, nil

	case key.Matches(msg, m.ui.keys.ToggleSource):
		source := m.selectedSource()
		if source == "" {
			return m, nil
		}

		return m.apply(m.controller.ToggleSource(source))

	case key.Matches(msg, m.ui.keys.Search):
		m.ui.searching = true
		m.ui.search.SetValue(m.controller.Spec().Text())
		m.ui.search.CursorEnd()

		return m, m.ui.search.Focus()

	case key.Matches(msg, m.ui.keys.ToggleRegex):
		return m.apply(m.controller.ToggleRegex())

	case key.Matches(msg, m.ui.keys.ToggleCase):
		return m.apply(m.controller.ToggleCaseSensitive())

	case key.Matches(msg, m.ui.keys.Pause):
		return m.handlePauseKey()

	case key.Matches(msg, m.ui.keys.Clear):
		m.controller.Clear()
		m.ui.logs.Clear()
		m.ui.logs.Flush()
		m.setNotice("history cleared", false)

		return m, nil

	case key.Matches(msg, m.ui.keys.Bottom):
		m.ui.logs.SetFollow(true)
		return m, nil

	case key.Matches(msg, m.ui.keys.Up), key.Matches(msg, m.ui.keys.Down),
		key.Matches(msg, m.ui.keys.PageUp), key.Matches(msg, m.ui.keys.PageDown):
		return m, m.ui.logs.HandleKey(msg)
	}

	return m, nil
}

// handleSearchKey edits the search text; enter applies it, esc leaves the filter alone
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ui.keys.ApplySearch):
		updated, cmd := m.apply(m.controller.SetText(m.ui.search.Value()))

		next := updated.(Model)
		if !next.state.failed {
			next.ui.searching = false
			next.ui.search.Blur()
		}

		return next, cmd

	case key.Matches(msg, m.ui.keys.CancelSearch):
		m.ui.searching = false
		m.ui.search.Blur()

		return m, nil
	}

	var cmd tea.Cmd

	m.ui.search, cmd = m.ui.search.Update(msg)

	return m, cmd
}

func (m Model) handlePauseKey() (tea.Model, tea.Cmd) {
	paused, err := m.controller.TogglePause()
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}

	if paused {
		m.ui.blink.Pause()
		m.setNotice("paused, entries are held until resumed", false)
	} else {
		m.ui.blink.Start()
		m.setNotice("resumed", false)
	}

	return m, nil
}

// apply reports the outcome of a filter change. On success the list is rebuilt from history
func (m Model) apply(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.log.Debug().Err(err).Msg("TUI: Filter change rejected")
		m.setNotice(err.Error(), true)

		return m, nil
	}

	m.setNotice("", false)
	m.reload()

	return m, nil
}

// handleMessage processes bus events
func (m Model) handleMessage(msg bus.Message) (tea.Model, tea.Cmd) {
	switch data := msg.Data.(type) {
	case bus.SourceStatus:
		m.handleSourceStatus(data)
	case bus.SourceAdded:
		m.state.sources = m.engine.Sources()
		m.setNotice(fmt.Sprintf("new source %s (%s)", data.Source, data.File), false)
	case bus.BufferCleared:
		m.ui.logs.Clear()
		m.ui.logs.Flush()
	}

	if msg.Type == bus.EventEngineStopped {
		m.log.Info().Msg("TUI: Engine stopped, quitting")
		return m, tea.Quit
	}

	return m, waitForMsgCmd(m.msgChan)
}

func (m *Model) handleSourceStatus(status bus.SourceStatus) {
	switch status.Status {
	case bus.StatusDegraded:
		text := fmt.Sprintf("%s: %s", status.File, status.Status)
		if status.Error != nil {
			text += ": " + status.Error.Error()
		}

		m.setNotice(text, true)
	case bus.StatusRotated, bus.StatusTruncated, bus.StatusRecovered:
		m.setNotice(fmt.Sprintf("%s: %s", status.File, status.Status), false)
	}
}

func waitForMsgCmd(msgChan <-chan bus.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-msgChan
		if !ok {
			return channelClosedMsg{}
		}

		return msgMsg(msg)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(components.UITickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
