package wire

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"

	"logscope/internal/app/engine"
	"logscope/internal/app/filter"
	"logscope/internal/app/ui/live"
	"logscope/internal/app/ui/logs"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// UI creates a Bubble Tea program showing a live view opened with the given filter
type UI func(ctx context.Context, opts filter.Options) (*tea.Program, error)

// Module provides the UI factory
var Module = fx.Options(
	fx.Provide(NewUI),
)

// UIParams contains dependencies for creating the UI factory
type UIParams struct {
	fx.In

	Config *config.Config
	Engine engine.Engine
	Logger logger.Logger
}

// NewUI creates a factory function for constructing Bubble Tea programs. The view's
// subscription is released when ctx is done
func NewUI(params UIParams) UI {
	return func(ctx context.Context, opts filter.Options) (*tea.Program, error) {
		spec, err := params.Engine.NewSpec(opts)
		if err != nil {
			return nil, err
		}

		sender := logs.NewSender()

		sub, err := params.Engine.Subscribe(spec, sender.Sink())
		if err != nil {
			return nil, err
		}

		controller, err := params.Engine.Control(sub)
		if err != nil {
			_ = params.Engine.Unsubscribe(sub)
			return nil, fmt.Errorf("failed to control view: %w", err)
		}

		model := live.NewModel(ctx, params.Engine, controller, params.Config.Buffer.Capacity, params.Logger)

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		sender.Set(p.Send)

		context.AfterFunc(ctx, func() {
			_ = params.Engine.Unsubscribe(sub)
		})

		params.Logger.Debug().Msg("TUI: Program created via factory")

		return p, nil
	}
}
