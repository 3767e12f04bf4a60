package live

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/app/bus"
	"logscope/internal/app/control"
	"logscope/internal/app/stats"
	"logscope/internal/app/ui/components"
	"logscope/internal/app/ui/logs"
	"logscope/internal/config/logger"
)

// Engine is the read side of the engine the screen reports on
type Engine interface {
	Stats() stats.Snapshot
	Sources() []string
	Events(ctx context.Context) <-chan bus.Message
}

// Model represents the Bubble Tea model of the live log screen
type Model struct {
	ctx        context.Context
	engine     Engine
	controller control.Controller
	msgChan    <-chan bus.Message
	capacity   int

	state struct {
		sources  []string
		cursor   int
		stats    stats.Snapshot
		notice   string
		failed   bool
		stopping bool
	}

	ui struct {
		width       int
		height      int
		keys        components.KeyMap
		help        help.Model
		logs        logs.Model
		search      textinput.Model
		searching   bool
		blink       *components.Blink
		tickCounter int
	}

	log logger.Logger
}

// NewModel creates the live screen over a controlled subscription
func NewModel(ctx context.Context, eng Engine, controller control.Controller, capacity int, log logger.Logger) Model {
	log = log.WithComponent("UI")

	m := Model{
		ctx:        ctx,
		engine:     eng,
		controller: controller,
		msgChan:    eng.Events(ctx),
		capacity:   capacity,
		log:        log,
	}

	m.state.sources = eng.Sources()
	m.state.stats = eng.Stats()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search text"

	m.ui.keys = components.DefaultKeyMap()
	m.ui.help = help.New()
	m.ui.logs = logs.NewModel(capacity)
	m.ui.search = search
	m.ui.blink = components.NewBlink()

	m.reload()

	if controller.Paused() {
		m.ui.blink.Pause()
	} else {
		m.ui.blink.Start()
	}

	log.Debug().Msgf("Created live model over %d sources", len(m.state.sources))

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForMsgCmd(m.msgChan),
		tickCmd(),
	)
}

// selectedSource returns the source under the cursor, or "" when none are known
func (m Model) selectedSource() string {
	if len(m.state.sources) == 0 {
		return ""
	}

	return m.state.sources[m.state.cursor%len(m.state.sources)]
}

// reload redraws the list from the stored history under the current filter
func (m *Model) reload() {
	m.ui.logs.Reset(m.controller.Search(false, m.capacity))
	m.ui.logs.Flush()
}

// setNotice shows a message in the footer; failures are styled as errors
func (m *Model) setNotice(text string, failed bool) {
	m.state.notice = text
	m.state.failed = failed
}
