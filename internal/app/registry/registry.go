//go:generate mockgen -source=registry.go -destination=registry_mock.go -package=registry
package registry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/looplab/fsm"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/store"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// SearchOptions controls a one-shot query over the stored history
type SearchOptions struct {
	Order      store.Order
	MaxResults int
}

// Registry is the single source of truth for live views over incoming entries
type Registry interface {
	Subscribe(spec *filter.Spec, sink Sink) (*Subscription, error)
	Unsubscribe(sub *Subscription) error
	UpdateFilter(sub *Subscription, spec *filter.Spec) error
	Pause(sub *Subscription) error
	Resume(sub *Subscription) error
	Search(spec *filter.Spec, opts SearchOptions) []entry.Entry
	Replay(sub *Subscription, n int) int
	Publish(e entry.Entry)
	Subscriptions() []SubscriptionStats
	Dropped() uint64
	Close(ctx context.Context) error
}

// registry implements the Registry interface
type registry struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	order   []*Subscription
	nextID  uint64
	closed  bool
	backlog int
	dropped atomic.Uint64
	store   store.Store
	log     logger.Logger
}

// NewRegistry creates a registry with per-subscription backlogs sized from configuration
func NewRegistry(cfg *config.Config, st store.Store, log logger.Logger) Registry {
	return New(st, cfg.Buffer.Backlog, log)
}

// New creates a registry over a store with the given backlog size per subscription
func New(st store.Store, backlog int, log logger.Logger) Registry {
	if backlog <= 0 {
		backlog = st.Cap()
	}

	return &registry{
		subs:    make(map[uint64]*Subscription),
		backlog: backlog,
		store:   st,
		log:     log.WithComponent("REGISTRY"),
	}
}

// Subscribe registers a live view and starts its delivery goroutine. A nil spec matches everything
func (r *registry) Subscribe(spec *filter.Spec, sink Sink) (*Subscription, error) {
	if sink == nil {
		return nil, errors.ErrNilSink
	}

	if spec == nil {
		spec = filter.MatchAll(nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.ErrRegistryClosed
	}

	r.nextID++
	sub := newSubscription(r.nextID, spec, sink, r.backlog, r.log)

	r.subs[sub.id] = sub
	r.order = append(r.order, sub)

	go sub.deliver()

	r.log.Debug().Msgf("Subscription %d registered with filter: %s", sub.id, spec)

	return sub, nil
}

// Unsubscribe closes the subscription and discards its pending backlog. It does not wait for a sink
// call already in progress; Done is closed once that call returns
func (r *registry) Unsubscribe(sub *Subscription) error {
	if err := r.remove(sub); err != nil {
		return err
	}

	r.closeSubscription(sub)
	sub.cancel()

	return nil
}

// UpdateFilter atomically replaces the subscription's spec. Entries already in the backlog stay
func (r *registry) UpdateFilter(sub *Subscription, spec *filter.Spec) error {
	if spec == nil {
		return fmt.Errorf("%w: nil filter", errors.ErrInvalidConfig)
	}

	if err := r.lookup(sub); err != nil {
		return err
	}

	sub.spec.Store(spec)
	r.log.Debug().Msgf("Subscription %d filter updated: %s", sub.id, spec)

	return nil
}

// Pause suspends delivery; matching entries keep accumulating in the capped backlog
func (r *registry) Pause(sub *Subscription) error {
	if err := r.lookup(sub); err != nil {
		return err
	}

	return r.transition(sub, Pause, Paused)
}

// Resume restarts delivery, starting with the backlog accumulated while paused
func (r *registry) Resume(sub *Subscription) error {
	if err := r.lookup(sub); err != nil {
		return err
	}

	return r.transition(sub, Resume, Active)
}

// Search scans the stored history and returns copies of matching entries in the requested order.
// MaxResults <= 0 means no limit
func (r *registry) Search(spec *filter.Spec, opts SearchOptions) []entry.Entry {
	results := make([]entry.Entry, 0)

	r.store.Scan(opts.Order, func(e entry.Entry) bool {
		if spec.Matches(e) {
			results = append(results, e)
		}

		return opts.MaxResults <= 0 || len(results) < opts.MaxResults
	})

	return results
}

// Replay queues the newest n stored entries matching the subscription's spec, oldest first,
// ahead of any live entry. n <= 0 replays nothing. It returns the number of entries queued
func (r *registry) Replay(sub *Subscription, n int) int {
	if n <= 0 || r.lookup(sub) != nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	spec := sub.Spec()
	matched := make([]entry.Entry, 0, n)

	var newest uint64

	r.store.Scan(store.NewestFirst, func(e entry.Entry) bool {
		if newest == 0 {
			newest = e.ID
		}

		if spec.Matches(e) {
			matched = append(matched, e)
		}

		return len(matched) < n
	})

	sub.replayedThrough.Store(newest)

	queued := 0

	for i := len(matched) - 1; i >= 0; i-- {
		if sub.backlog.Push(matched[i]) {
			queued++
		}
	}

	return queued
}

// Publish offers an entry to every open subscription. It never blocks on a view
func (r *registry) Publish(e entry.Entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.order {
		sub.offer(e)
	}
}

// Subscriptions returns stats for every open subscription in registration order
func (r *registry) Subscriptions() []SubscriptionStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SubscriptionStats, len(r.order))
	for i, sub := range r.order {
		out[i] = sub.Stats()
	}

	return out
}

// Dropped returns the total backlog drops across current and past subscriptions
func (r *registry) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := r.dropped.Load()
	for _, sub := range r.order {
		total += sub.backlog.Dropped()
	}

	return total
}

// Close closes every subscription, letting active ones flush their backlog until ctx is done
func (r *registry) Close(ctx context.Context) error {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return nil
	}

	r.closed = true
	subs := r.order
	r.order = nil
	r.subs = make(map[uint64]*Subscription)

	for _, sub := range subs {
		r.dropped.Add(sub.backlog.Dropped())
	}

	r.mu.Unlock()

	for _, sub := range subs {
		wasPaused := sub.Paused()
		r.closeSubscription(sub)

		if wasPaused {
			sub.cancel()
		}
	}

	var timedOut bool

	for _, sub := range subs {
		select {
		case <-sub.done:
		case <-ctx.Done():
			timedOut = true
		}

		sub.cancel()
	}

	r.log.Debug().Msgf("Closed %d subscriptions", len(subs))

	if timedOut {
		return fmt.Errorf("%w: subscriptions did not flush", errors.ErrShutdownTimeout)
	}

	return nil
}

func (r *registry) lookup(sub *Subscription) error {
	if sub == nil {
		return errors.ErrSubscriptionNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if current, ok := r.subs[sub.id]; !ok || current != sub {
		if sub.machine.Is(Closed) {
			return errors.ErrSubscriptionClosed
		}

		return errors.ErrSubscriptionNotFound
	}

	return nil
}

func (r *registry) remove(sub *Subscription) error {
	if err := r.lookup(sub); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.id]; !ok {
		return errors.ErrSubscriptionClosed
	}

	delete(r.subs, sub.id)

	for i, s := range r.order {
		if s == sub {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}

	r.dropped.Add(sub.backlog.Dropped())

	return nil
}

func (r *registry) closeSubscription(sub *Subscription) {
	if sub.machine.Is(Closed) {
		return
	}

	if err := sub.machine.Event(context.Background(), Close); err != nil {
		r.log.Warn().Err(err).Msgf("Failed to close subscription %d", sub.id)
	}
}

// transition fires event. Reaching a subscription already in target, possibly through a
// concurrent call, is not an error
func (r *registry) transition(sub *Subscription, event, target string) error {
	err := sub.machine.Event(context.Background(), event)
	if err == nil {
		return nil
	}

	if sub.machine.Is(Closed) {
		return errors.ErrSubscriptionClosed
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) && sub.machine.Is(target) {
		return nil
	}

	return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
}
