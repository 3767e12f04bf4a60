package bus

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"logscope/internal/config"
	"logscope/internal/config/logger"
)

func Test_New(t *testing.T) {
	b := New(nil)

	assert.NotNil(t, b)
}

func Test_Bus_PublishSubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)

	b.Publish(Message{
		Type: EventSourceStatus,
		Data: SourceStatus{Source: "speech_synthesis", File: "speech_synthesis.log", Status: StatusOpened},
	})

	select {
	case msg := <-ch:
		assert.Equal(t, EventSourceStatus, msg.Type)
		assert.False(t, msg.Timestamp.IsZero())

		data, ok := msg.Data.(SourceStatus)
		assert.True(t, ok)
		assert.Equal(t, "speech_synthesis", data.Source)
		assert.Equal(t, StatusOpened, data.Status)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected message")
	}
}

func Test_Bus_MultipleSubscribers(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1 := b.Subscribe(ctx)
	ch2 := b.Subscribe(ctx)

	b.Publish(Message{Type: EventEngineStarted, Data: EngineStarted{Sources: []string{"core"}}})

	for _, ch := range []<-chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.Equal(t, EventEngineStarted, msg.Type)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("Expected message on subscriber")
		}
	}
}

func Test_Bus_Unsubscribe_OnContextCancel(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)

	cancel()
	time.Sleep(10 * time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok, "Channel should be closed after context cancel")
}

func Test_Bus_Close(t *testing.T) {
	b := New(nil)

	ch := b.Subscribe(context.Background())

	b.Close()

	_, ok := <-ch
	assert.False(t, ok, "Channel should be closed")

	b.Publish(Message{Type: EventEngineStopped})

	late := b.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok, "Subscribing after close returns a closed channel")

	b.Close()
}

func Test_Bus_DropsNonCriticalWhenFull(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)

	done := make(chan struct{})

	go func() {
		for i := 0; i < config.BusBufferSize*3; i++ {
			b.Publish(Message{Type: EventSourceStatus})
		}

		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	assert.Len(t, ch, config.BusBufferSize)
}

func Test_Bus_CriticalMessage_FullSubscriber(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)

	for i := 0; i < config.BusBufferSize; i++ {
		b.Publish(Message{Type: EventSourceStatus})
	}

	b.Publish(Message{Type: EventEngineStopping, Critical: true})

	received := 0
	sawCritical := false
	timeout := time.After(time.Second)

loop:
	for {
		select {
		case msg := <-ch:
			received++
			if msg.Type == EventEngineStopping {
				sawCritical = true
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	assert.True(t, sawCritical)
	assert.Equal(t, config.BusBufferSize+1, received)
}

func Test_Bus_Publish_WithLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"

	b := New(logger.NewLoggerWithOutput(cfg, io.Discard))
	defer b.Close()

	b.Publish(Message{Type: EventBufferCleared, Data: BufferCleared{Removed: 3}})
}

func Test_NoOp(t *testing.T) {
	b := NoOp()

	assert.NotNil(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)

	b.Publish(Message{Type: EventEngineStarted})

	select {
	case <-ch:
		t.Fatal("NoOp should not deliver messages")
	case <-time.After(10 * time.Millisecond):
	}

	cancel()
	time.Sleep(10 * time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok)

	b.Close()
}

func Test_FormatData(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		contains string
	}{
		{
			name:     "SourceStatus",
			data:     SourceStatus{Source: "core", File: "core.log", Status: StatusTruncated},
			contains: "truncated",
		},
		{
			name:     "SourceStatus with error",
			data:     SourceStatus{Source: "core", Status: StatusDegraded, Error: errors.New("permission denied")},
			contains: "permission denied",
		},
		{
			name:     "SourceAdded",
			data:     SourceAdded{Source: "vision", File: "vision.log"},
			contains: "vision.log",
		},
		{
			name:     "EngineStarted",
			data:     EngineStarted{Sources: []string{"core", "navigation"}},
			contains: "navigation",
		},
		{
			name:     "BufferCleared",
			data:     BufferCleared{Removed: 42},
			contains: "42",
		},
		{
			name:     "Signal",
			data:     Signal{Name: "SIGTERM"},
			contains: "SIGTERM",
		},
		{
			name:     "Nil",
			data:     nil,
			contains: "{}",
		},
		{
			name:     "Unknown",
			data:     struct{ Foo string }{Foo: "bar"},
			contains: "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatData(tt.data)
			assert.Contains(t, result, tt.contains)
		})
	}
}
