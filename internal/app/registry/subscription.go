package registry

import (
	"context"
	"sync/atomic"

	"github.com/looplab/fsm"

	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
	"logscope/internal/app/queue"
	"logscope/internal/config/logger"
)

// Subscription states
const (
	Active = "active"
	Paused = "paused"
	Closed = "closed"
)

// Subscription events
const (
	Pause  = "pause"
	Resume = "resume"
	Close  = "close"
)

// Sink receives entries delivered to a subscription, one at a time from its delivery goroutine
type Sink func(e entry.Entry)

// SubscriptionStats is a point-in-time view of a subscription's delivery counters
type SubscriptionStats struct {
	ID        uint64
	State     string
	Backlog   int
	Delivered uint64
	Dropped   uint64
}

// Subscription is a live filtered view over incoming entries
type Subscription struct {
	id        uint64
	spec      atomic.Pointer[filter.Spec]
	sink      Sink
	backlog   *queue.Queue[entry.Entry]
	machine   *fsm.FSM
	paused    atomic.Bool
	resumed   chan struct{}
	delivered atomic.Uint64
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	log       logger.Logger

	// replayedThrough is the newest stored ID already covered by a replay
	replayedThrough atomic.Uint64
}

func newSubscription(id uint64, spec *filter.Spec, sink Sink, backlog int, log logger.Logger) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())

	sub := &Subscription{
		id:      id,
		sink:    sink,
		backlog: queue.New[entry.Entry](backlog),
		resumed: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
	}

	sub.spec.Store(spec)
	sub.machine = newSubscriptionFSM(sub)

	return sub
}

// newSubscriptionFSM creates the state machine for subscription lifecycle
func newSubscriptionFSM(sub *Subscription) *fsm.FSM {
	return fsm.NewFSM(
		Active,
		fsm.Events{
			{Name: Pause, Src: []string{Active}, Dst: Paused},
			{Name: Resume, Src: []string{Paused}, Dst: Active},
			{Name: Close, Src: []string{Active, Paused}, Dst: Closed},
		},
		fsm.Callbacks{
			"after_event": func(_ context.Context, e *fsm.Event) {
				sub.log.Debug().Msgf("Subscription %d: %s → %s (trigger: %s)", sub.id, e.Src, e.Dst, e.Event)
			},
			"enter_" + Paused: func(_ context.Context, _ *fsm.Event) {
				sub.paused.Store(true)
			},
			"enter_" + Active: func(_ context.Context, _ *fsm.Event) {
				sub.paused.Store(false)
				sub.wake()
			},
			"enter_" + Closed: func(_ context.Context, _ *fsm.Event) {
				sub.paused.Store(false)
				sub.backlog.Close()
				sub.wake()
			},
		},
	)
}

// ID returns the subscription identifier
func (s *Subscription) ID() uint64 {
	return s.id
}

// Spec returns the filter currently in effect
func (s *Subscription) Spec() *filter.Spec {
	return s.spec.Load()
}

// State returns the lifecycle state
func (s *Subscription) State() string {
	return s.machine.Current()
}

// Paused reports whether delivery is suspended
func (s *Subscription) Paused() bool {
	return s.paused.Load()
}

// Done is closed once the delivery goroutine has exited
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Stats returns the subscription counters
func (s *Subscription) Stats() SubscriptionStats {
	return SubscriptionStats{
		ID:        s.id,
		State:     s.State(),
		Backlog:   s.backlog.Len(),
		Delivered: s.delivered.Load(),
		Dropped:   s.backlog.Dropped(),
	}
}

// offer evaluates the entry against the current spec exactly once and queues it when it matches
func (s *Subscription) offer(e entry.Entry) bool {
	if e.ID != 0 && e.ID <= s.replayedThrough.Load() {
		return false
	}

	if !s.spec.Load().Matches(e) {
		return false
	}

	return s.backlog.Push(e)
}

// deliver drains the backlog into the sink until the subscription is closed
func (s *Subscription) deliver() {
	defer close(s.done)

	for {
		if !s.waitActive() {
			return
		}

		e, ok := s.backlog.Pop(s.ctx)
		if !ok {
			return
		}

		if !s.waitActive() {
			return
		}

		s.sink(e)
		s.delivered.Add(1)
	}
}

// waitActive blocks while paused; false means the subscription was cancelled
func (s *Subscription) waitActive() bool {
	for s.paused.Load() {
		select {
		case <-s.resumed:
		case <-s.ctx.Done():
			return false
		}
	}

	return s.ctx.Err() == nil
}

func (s *Subscription) wake() {
	select {
	case s.resumed <- struct{}{}:
	default:
	}
}
