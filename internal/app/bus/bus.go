package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// MessageType represents the type of message
type MessageType string

// Event types
const (
	EventEngineStarted  MessageType = "engine_started"
	EventEngineStopping MessageType = "engine_stopping"
	EventEngineStopped  MessageType = "engine_stopped"
	EventBufferCleared  MessageType = "buffer_cleared"
	EventSourceStatus   MessageType = "source_status"
	EventSourceAdded    MessageType = "source_added"
	EventSignal         MessageType = "signal"
)

// Status is the health of a tailed source
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusOpened    Status = "opened"
	StatusTruncated Status = "truncated"
	StatusRotated   Status = "rotated"
	StatusDegraded  Status = "degraded"
	StatusRecovered Status = "recovered"
	StatusStopped   Status = "stopped"
)

// Message represents a bus message
type Message struct {
	Type      MessageType
	Timestamp time.Time
	Data      interface{}
	Critical  bool
}

// SourceStatus reports a change in one tailed file
type SourceStatus struct {
	Source string
	File   string
	Status Status
	Error  error
}

// SourceAdded indicates a file matching the discovery pattern appeared
type SourceAdded struct {
	Source string
	File   string
}

// EngineStarted contains the sources the engine tails
type EngineStarted struct {
	Sources []string
}

// BufferCleared indicates the history was emptied
type BufferCleared struct {
	Removed int
}

// Signal contains information about a received OS signal
type Signal struct {
	Name string
}

// Bus handles pub/sub messaging
type Bus interface {
	Subscribe(ctx context.Context) <-chan Message
	Publish(msg Message)
	Close()
}

// bus implements the Bus interface with pub/sub messaging
type bus struct {
	buffer      int
	subscribers []chan Message
	mu          sync.RWMutex
	closed      bool
	log         logger.Logger
}

// New creates a new Bus
func New(log logger.Logger) Bus {
	return &bus{
		buffer:      config.BusBufferSize,
		subscribers: make([]chan Message, 0),
		log:         log,
	}
}

// Subscribe creates a new subscription channel
func (b *bus) Subscribe(ctx context.Context) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, b.buffer)

	if b.closed {
		close(ch)
		return ch
	}

	b.subscribers = append(b.subscribers, ch)

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch
}

// Publish sends a message to all subscribers. Non-critical messages are dropped for full subscribers
func (b *bus) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	msg.Timestamp = time.Now()

	if b.log != nil {
		b.log.Debug().Msgf("%s %s", msg.Type, formatData(msg.Data))
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			if msg.Critical {
				go func(c chan Message, m Message) {
					defer func() { _ = recover() }()

					c <- m
				}(ch, msg)
			}
		}
	}
}

// Close closes all subscriber channels
func (b *bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for _, ch := range b.subscribers {
		close(ch)
	}

	b.subscribers = nil
}

func (b *bus) unsubscribe(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)

			close(ch)

			break
		}
	}
}

func formatData(data interface{}) string {
	switch d := data.(type) {
	case SourceStatus:
		if d.Error != nil {
			return fmt.Sprintf("{source: %s, file: %s, status: %s, error: %v}", d.Source, d.File, d.Status, d.Error)
		}

		return fmt.Sprintf("{source: %s, file: %s, status: %s}", d.Source, d.File, d.Status)
	case SourceAdded:
		return fmt.Sprintf("{source: %s, file: %s}", d.Source, d.File)
	case EngineStarted:
		return fmt.Sprintf("{sources: %v}", d.Sources)
	case BufferCleared:
		return fmt.Sprintf("{removed: %d}", d.Removed)
	case Signal:
		return fmt.Sprintf("{signal: %s}", d.Name)
	case nil:
		return "{}"
	default:
		return fmt.Sprintf("%+v", data)
	}
}

// NoOp returns a no-op bus for when messaging is disabled
func NoOp() Bus {
	return &noOpBus{}
}

// noOpBus implements Bus interface with no-op methods for testing
type noOpBus struct{}

func (n *noOpBus) Subscribe(ctx context.Context) <-chan Message {
	ch := make(chan Message)

	go func() {
		<-ctx.Done()
		close(ch)
	}()

	return ch
}

func (n *noOpBus) Publish(msg Message) {}
func (n *noOpBus) Close()              {}
