//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"

	"logscope/internal/app/engine"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/registry"
	"logscope/internal/app/store"
	"logscope/internal/app/stream"
	"logscope/internal/app/ui/wire"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// CLI defines the interface for cli operations
type CLI interface {
	Execute() (exitCode int, err error)
}

// Params contains everything a parsed command may need
type Params struct {
	fx.In

	Options   *Options
	Config    *config.Config
	Engine    engine.Engine
	Server    stream.Server
	Runner    stream.Runner
	Formatter *stream.Formatter
	UI        wire.UI
	Logger    logger.Logger
}

// cli represents the command-line interface for the application
type cli struct {
	opts      *Options
	cfg       *config.Config
	engine    engine.Engine
	server    stream.Server
	runner    stream.Runner
	formatter *stream.Formatter
	ui        wire.UI
	out       io.Writer
	errOut    io.Writer
	log       logger.Logger
}

// NewCLI creates a new cli instance
func NewCLI(p Params) CLI {
	return &cli{
		opts:      p.Options,
		cfg:       p.Config,
		engine:    p.Engine,
		server:    p.Server,
		runner:    p.Runner,
		formatter: p.Formatter,
		ui:        p.UI,
		out:       os.Stdout,
		errOut:    os.Stderr,
		log:       p.Logger.WithComponent("CLI"),
	}
}

// Execute runs the parsed command and returns the process exit code
func (c *cli) Execute() (int, error) {
	switch c.opts.Type {
	case CommandHelp:
		return c.handleHelp()
	case CommandVersion:
		return c.handleVersion()
	case CommandTail:
		return c.handleTail()
	case CommandSearch:
		return c.handleSearch()
	case CommandHeadless:
		return c.handleHeadless()
	case CommandUI:
		return c.handleUI()
	default:
		return c.fail(errors.ErrUnknownCommand)
	}
}

// handleHelp prints usage information
func (c *cli) handleHelp() (int, error) {
	c.log.Debug().Msg("Displaying help information")
	fmt.Fprint(c.out, renderHelp())

	return 0, nil
}

// handleVersion prints version information
func (c *cli) handleVersion() (int, error) {
	c.log.Debug().Msg("Displaying version information")
	fmt.Fprintln(c.out, RenderTitle())

	return 0, nil
}

// handleTail attaches to a running instance over its socket
func (c *cli) handleTail() (int, error) {
	c.log.Debug().Msgf("Attaching to instance '%s'", c.opts.Name)

	code := c.runner.Run(stream.Options{
		SocketDir: c.cfg.Stream.SocketDir,
		Name:      c.opts.Name,
		Filter:    c.opts.Filter,
		Replay:    c.opts.Last,
	})

	return code, nil
}

// handleSearch reads every file from the start, waits for ingestion to settle and prints the matches
func (c *cli) handleSearch() (int, error) {
	spec, err := c.engine.NewSpec(c.opts.Filter)
	if err != nil {
		return c.fail(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := c.engine.Start(ctx); err != nil {
		return c.fail(err)
	}
	defer c.stopEngine()

	if err := c.engine.WaitIdle(ctx, config.QuiescePeriod); err != nil {
		return c.fail(err)
	}

	order := store.OldestFirst
	if c.opts.Newest {
		order = store.NewestFirst
	}

	results := c.engine.Search(spec, registry.SearchOptions{Order: order, MaxResults: c.opts.Max})
	for _, e := range results {
		c.formatter.WriteFormatted(c.out, e)
	}

	c.log.Debug().Msgf("Search '%s' returned %d entries", spec, len(results))

	return 0, nil
}

// handleHeadless prints matching entries to stdout until interrupted
func (c *cli) handleHeadless() (int, error) {
	spec, err := c.engine.NewSpec(c.opts.Filter)
	if err != nil {
		return c.fail(err)
	}

	sub, err := c.engine.Subscribe(spec, func(e entry.Entry) {
		c.formatter.WriteFormatted(c.out, e)
	})
	if err != nil {
		return c.fail(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := c.startEngine(ctx); err != nil {
		_ = c.engine.Unsubscribe(sub)
		return c.fail(err)
	}
	defer c.stopEngine()

	c.log.Info().Msgf("Printing entries matching %s", spec)

	select {
	case <-ctx.Done():
	case <-c.engine.Done():
	}

	return 0, nil
}

// handleUI runs the live view until the user quits
func (c *cli) handleUI() (int, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := c.ui(ctx, c.opts.Filter)
	if err != nil {
		return c.fail(err)
	}

	if err := c.startEngine(ctx); err != nil {
		return c.fail(err)
	}
	defer c.stopEngine()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return c.fail(err)
	}

	return 0, nil
}

// startEngine starts ingestion and the stream server. A server that cannot listen only costs the tail command
func (c *cli) startEngine(ctx context.Context) error {
	if err := c.engine.Start(ctx); err != nil {
		return err
	}

	if err := c.server.Start(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Stream server not available")
	}

	return nil
}

func (c *cli) stopEngine() {
	if err := c.server.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to stop stream server")
	}

	if err := c.engine.Stop(context.Background()); err != nil {
		c.log.Warn().Err(err).Msg("Engine did not stop cleanly")
	}
}

// fail reports err on stderr and returns a failing exit code
func (c *cli) fail(err error) (int, error) {
	c.log.Error().Err(err).Msg("Command failed")
	fmt.Fprintln(c.errOut, RenderError(err))

	return 1, err
}
