//go:generate mockgen -source=runner.go -destination=runner_mock.go -package=stream
package stream

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"logscope/internal/app/filter"
	"logscope/internal/config/logger"
)

// Options selects the instance to attach to and the view to open on it
type Options struct {
	SocketDir string
	Name      string
	Filter    filter.Options
	Replay    int
}

// Runner handles the tail command against a running instance
type Runner interface {
	Run(opts Options) int
}

type runner struct {
	client    Client
	formatter *Formatter
	log       logger.Logger
}

// NewRunner creates a new tail runner
func NewRunner(client Client, formatter *Formatter, log logger.Logger) Runner {
	return &runner{
		client:    client,
		formatter: formatter,
		log:       log.WithComponent("STREAM"),
	}
}

// Run finds the instance socket and streams its entries until interrupted
func (r *runner) Run(opts Options) int {
	socketPath, err := FindSocket(opts.SocketDir, opts.Name)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to find running instance")
		return 1
	}

	return r.streamEntries(socketPath, NewSubscribeRequest(opts.Filter, opts.Replay), os.Stdout)
}

// streamEntries connects, subscribes and copies formatted entries to output
func (r *runner) streamEntries(socketPath string, req SubscribeRequest, output io.Writer) int {
	if err := r.client.Connect(socketPath); err != nil {
		r.log.Error().Err(err).Msgf("Failed to connect to %s", socketPath)
		return 1
	}

	defer r.client.Close()

	status, err := r.client.Subscribe(req)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to subscribe")
		return 1
	}

	if r.formatter != nil {
		r.formatter.RenderBanner(output, status)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := r.client.Stream(ctx, output); err != nil {
		r.log.Error().Err(err).Msg("Stream ended with error")
		return 1
	}

	return 0
}
