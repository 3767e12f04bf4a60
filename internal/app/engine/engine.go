//go:generate mockgen -source=engine.go -destination=engine_mock.go -package=engine
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"logscope/internal/app/bus"
	"logscope/internal/app/control"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/parser"
	"logscope/internal/app/queue"
	"logscope/internal/app/registry"
	"logscope/internal/app/stats"
	"logscope/internal/app/store"
	"logscope/internal/app/tailer"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

const (
	minIdlePoll   = 10 * time.Millisecond
	pendingClears = 8
)

// Engine runs the ingestion pipeline and exposes the view operations over it
type Engine interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan struct{}
	Subscribe(spec *filter.Spec, sink registry.Sink) (*registry.Subscription, error)
	Unsubscribe(sub *registry.Subscription) error
	UpdateFilter(sub *registry.Subscription, spec *filter.Spec) error
	Pause(sub *registry.Subscription) error
	Resume(sub *registry.Subscription) error
	Replay(sub *registry.Subscription, n int) int
	Search(spec *filter.Spec, opts registry.SearchOptions) []entry.Entry
	NewSpec(opts filter.Options) (*filter.Spec, error)
	Control(sub *registry.Subscription) (control.Controller, error)
	Events(ctx context.Context) <-chan bus.Message
	Sources() []string
	Stats() stats.Snapshot
	Clear()
	WaitIdle(ctx context.Context, quiet time.Duration) error
}

// Params contains the pipeline stages wired into the engine
type Params struct {
	fx.In

	Config   *config.Config
	Tailer   tailer.Tailer
	Parser   parser.Parser
	Store    store.Store
	Registry registry.Registry
	Stats    stats.Collector
	Sampler  stats.Sampler
	Bus      bus.Bus
	Modes    *filter.Modes
	Logger   logger.Logger
}

// work is one queued item for the consumer; wake items carry no line
type work struct {
	line tailer.Line
	wake bool
}

type engine struct {
	cfg      *config.Config
	tailer   tailer.Tailer
	queue    *queue.Queue[work]
	parser   parser.Parser
	store    store.Store
	registry registry.Registry
	stats    stats.Collector
	sampler  stats.Sampler
	bus      bus.Bus
	modes    *filter.Modes
	log      logger.Logger

	mu         sync.Mutex
	started    bool
	stopping   bool
	cancel     context.CancelFunc
	producers  chan struct{}
	workers    chan struct{}
	done       chan struct{}
	clears     chan chan struct{}
	lastIngest atomic.Int64
}

// NewEngine creates an engine from its pipeline stages
func NewEngine(p Params) Engine {
	modes := p.Modes
	if modes == nil {
		modes = filter.DefaultModes()
	}

	sampler := p.Sampler
	if sampler == nil {
		sampler = stats.NewSampler()
	}

	b := p.Bus
	if b == nil {
		b = bus.NoOp()
	}

	return &engine{
		cfg:       p.Config,
		tailer:    p.Tailer,
		queue:     queue.New[work](p.Config.Buffer.Queue),
		parser:    p.Parser,
		store:     p.Store,
		registry:  p.Registry,
		stats:     p.Stats,
		sampler:   sampler,
		bus:       b,
		modes:     modes,
		log:       p.Logger.WithComponent("ENGINE"),
		producers: make(chan struct{}),
		workers:   make(chan struct{}),
		done:      make(chan struct{}),
		clears:    make(chan chan struct{}, pendingClears),
	}
}

// Start launches the tailers, the consumer worker and the status watcher. An engine starts once
func (e *engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return errors.ErrEngineAlreadyStarted
	}

	e.started = true
	e.lastIngest.Store(time.Now().UnixNano())

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	events := e.bus.Subscribe(runCtx)

	producers, pctx := errgroup.WithContext(runCtx)
	producers.Go(func() error {
		return e.tailer.Run(pctx, e.enqueue)
	})

	go func() {
		if err := producers.Wait(); err != nil {
			e.log.Error().Err(err).Msg("Tailer stopped with error")
		}

		close(e.producers)
	}()

	var workers errgroup.Group

	workers.Go(e.consume)
	workers.Go(func() error {
		return e.watchStatus(events)
	})

	go func() {
		_ = workers.Wait()

		close(e.workers)
	}()

	e.bus.Publish(bus.Message{
		Type:     bus.EventEngineStarted,
		Data:     bus.EngineStarted{Sources: e.cfg.SourceNames()},
		Critical: true,
	})

	e.log.Info().Msgf("Engine started (dir: %s, capacity: %d, queue: %d)", e.cfg.Sources.Dir, e.store.Cap(), e.queue.Cap())

	return nil
}

// Stop cancels the tailers, drains what is already queued into the store and closes every
// subscription. It returns ErrShutdownTimeout when the grace period runs out first
func (e *engine) Stop(ctx context.Context) error {
	e.mu.Lock()

	if !e.started {
		e.mu.Unlock()
		return errors.ErrEngineNotStarted
	}

	if e.stopping {
		e.mu.Unlock()

		select {
		case <-e.done:
			return nil
		case <-ctx.Done():
			return errors.ErrShutdownTimeout
		}
	}

	e.stopping = true
	e.mu.Unlock()

	defer close(e.done)

	e.bus.Publish(bus.Message{Type: bus.EventEngineStopping, Critical: true})
	e.log.Info().Msg("Stopping engine")

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Engine.ShutdownTimeout)
	defer cancel()

	var errs []error

	e.cancel()

	if err := wait(ctx, e.producers); err != nil {
		errs = append(errs, fmt.Errorf("%w: tailers still running", errors.ErrShutdownTimeout))
	}

	e.queue.Close()

	if err := wait(ctx, e.workers); err != nil {
		errs = append(errs, fmt.Errorf("%w: %d queued lines not ingested", errors.ErrShutdownTimeout, e.queue.Len()))
	}

	if err := e.registry.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	e.bus.Publish(bus.Message{Type: bus.EventEngineStopped, Critical: true})

	if len(errs) > 0 {
		err := errors.Join(errs...)
		e.log.Warn().Err(err).Msg("Engine stopped before shutdown completed")

		return err
	}

	e.log.Info().Msg("Engine stopped")

	return nil
}

// Done is closed once Stop has finished
func (e *engine) Done() <-chan struct{} {
	return e.done
}

func (e *engine) Subscribe(spec *filter.Spec, sink registry.Sink) (*registry.Subscription, error) {
	if spec == nil {
		spec = filter.MatchAll(e.modes)
	}

	return e.registry.Subscribe(spec, sink)
}

func (e *engine) Unsubscribe(sub *registry.Subscription) error {
	return e.registry.Unsubscribe(sub)
}

func (e *engine) UpdateFilter(sub *registry.Subscription, spec *filter.Spec) error {
	return e.registry.UpdateFilter(sub, spec)
}

func (e *engine) Pause(sub *registry.Subscription) error {
	return e.registry.Pause(sub)
}

func (e *engine) Resume(sub *registry.Subscription) error {
	return e.registry.Resume(sub)
}

// Replay queues the last n stored entries matching the subscription's filter ahead of live ones
func (e *engine) Replay(sub *registry.Subscription, n int) int {
	return e.registry.Replay(sub, n)
}

func (e *engine) Search(spec *filter.Spec, opts registry.SearchOptions) []entry.Entry {
	return e.registry.Search(spec, opts)
}

// NewSpec validates filter options against the engine's modes and known sources
func (e *engine) NewSpec(opts filter.Options) (*filter.Spec, error) {
	return filter.New(e.modes, opts)
}

// Control creates a control surface bound to a subscription
func (e *engine) Control(sub *registry.Subscription) (control.Controller, error) {
	return control.New(control.Target{
		Registry:     e.registry,
		Subscription: sub,
		Modes:        e.modes,
		Sources:      e.Sources,
		Clear:        e.Clear,
	})
}

// Events subscribes to engine and source status events until ctx is done
func (e *engine) Events(ctx context.Context) <-chan bus.Message {
	return e.bus.Subscribe(ctx)
}

// Sources returns the names of all tailed sources
func (e *engine) Sources() []string {
	return e.tailer.Sources()
}

// Stats composes the collector readout with queue, backlog, store and process counters
func (e *engine) Stats() stats.Snapshot {
	snap := e.stats.Snapshot()

	snap.QueueDropped = e.queue.Dropped()
	snap.BacklogDrops = e.registry.Dropped()
	snap.Evicted = e.store.Evicted()
	snap.Buffered = e.store.Len()
	snap.Capacity = e.store.Cap()
	snap.Subscriptions = len(e.registry.Subscriptions())

	if proc, err := e.sampler.Sample(); err == nil {
		snap.Process = proc
	}

	return snap
}

// Clear empties the stored history and resets the counters. Once started, the consumer worker
// performs the clear so the store keeps a single writer. Live subscriptions are untouched
func (e *engine) Clear() {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()

	if !started {
		e.clear()
		return
	}

	done := make(chan struct{})

	select {
	case e.clears <- done:
	case <-e.workers:
		e.clear()
		return
	}

	if e.queue.Len() == 0 {
		e.queue.Push(work{wake: true})
	}

	select {
	case <-done:
	case <-e.workers:
		e.clear()
	}
}

func (e *engine) clear() {
	removed := e.store.Len()

	e.store.Clear()
	e.stats.Reset()

	e.bus.Publish(bus.Message{
		Type: bus.EventBufferCleared,
		Data: bus.BufferCleared{Removed: removed},
	})
}

// WaitIdle blocks until the queue is empty and no line has been ingested for quiet
func (e *engine) WaitIdle(ctx context.Context, quiet time.Duration) error {
	ticker := time.NewTicker(max(quiet/4, minIdlePoll))
	defer ticker.Stop()

	for {
		last := time.Unix(0, e.lastIngest.Load())
		if e.queue.Len() == 0 && time.Since(last) >= quiet {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// enqueue is called by every tailer goroutine and never blocks
func (e *engine) enqueue(line tailer.Line) {
	e.queue.Push(work{line: line})
}

// consume is the only writer to the store. It exits once the queue is closed and drained
func (e *engine) consume() error {
	for {
		item, ok := e.queue.Pop(context.Background())
		if !ok {
			return nil
		}

		e.serveClears()

		if !item.wake {
			e.ingest(item.line)
		}
	}
}

// serveClears runs pending clear requests between two ingested lines
func (e *engine) serveClears() {
	for {
		select {
		case done := <-e.clears:
			e.clear()
			close(done)
		default:
			return
		}
	}
}

func (e *engine) ingest(line tailer.Line) {
	parsed := e.parser.ParseFrom(line.Source, line.Text)
	parsed.File = line.File

	stored := e.store.Append(parsed)

	e.stats.Record(stored)
	e.registry.Publish(stored)
	e.lastIngest.Store(time.Now().UnixNano())
}

// watchStatus feeds source events into the statistics and the known sources until the subscription closes
func (e *engine) watchStatus(events <-chan bus.Message) error {
	for msg := range events {
		switch data := msg.Data.(type) {
		case bus.SourceStatus:
			e.stats.SetSourceStatus(data)
		case bus.SourceAdded:
			e.modes.Track(data.Source)
		}
	}

	return nil
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
