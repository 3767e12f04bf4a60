package logs

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/app/entry"
	"logscope/internal/app/registry"
)

// EntryMsg is a Bubble Tea message carrying one delivered entry
type EntryMsg entry.Entry

// Sender holds a function to send messages to Bubble Tea
type Sender struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewSender creates a new Sender
func NewSender() *Sender {
	return &Sender{}
}

// Set sets the send function
func (s *Sender) Set(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.send = send
}

// Send sends a message if the send function is set
func (s *Sender) Send(msg tea.Msg) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.send != nil {
		s.send(msg)
	}
}

// Sink returns a subscription sink forwarding every entry as an EntryMsg
func (s *Sender) Sink() registry.Sink {
	return func(e entry.Entry) {
		s.Send(EntryMsg(e))
	}
}
