package stream

import (
	"time"

	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
)

// MessageType represents the type of message in the wire protocol
type MessageType string

const (
	// MessageSubscribe is sent from client to server with the filter to apply
	MessageSubscribe MessageType = "subscribe"
	// MessageStatus is the server's reply to an accepted subscription
	MessageStatus MessageType = "status"
	// MessageError is the server's reply to a rejected subscription
	MessageError MessageType = "error"
	// MessageEntry carries one delivered log entry
	MessageEntry MessageType = "entry"
)

// SubscribeRequest is sent from client to server to open a filtered view
type SubscribeRequest struct {
	Type          MessageType `json:"type"`
	Levels        []string    `json:"levels,omitempty"`
	Sources       []string    `json:"sources,omitempty"`
	Text          string      `json:"text,omitempty"`
	Regex         bool        `json:"regex,omitempty"`
	CaseSensitive bool        `json:"case_sensitive,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Replay        int         `json:"replay,omitempty"`
}

// NewSubscribeRequest builds a request from filter options
func NewSubscribeRequest(opts filter.Options, replay int) SubscribeRequest {
	return SubscribeRequest{
		Type:          MessageSubscribe,
		Levels:        opts.Levels,
		Sources:       opts.Sources,
		Text:          opts.Text,
		Regex:         opts.Regex,
		CaseSensitive: opts.CaseSensitive,
		Mode:          opts.Mode,
		Replay:        replay,
	}
}

// Options returns the filter options carried by the request
func (r SubscribeRequest) Options() filter.Options {
	return filter.Options{
		Levels:        r.Levels,
		Sources:       r.Sources,
		Text:          r.Text,
		Regex:         r.Regex,
		CaseSensitive: r.CaseSensitive,
		Mode:          r.Mode,
	}
}

// StatusMessage is sent once a subscription is accepted
type StatusMessage struct {
	Type     MessageType `json:"type"`
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Sources  []string    `json:"sources"`
	Filter   string      `json:"filter"`
	Replayed int         `json:"replayed"`
}

// ErrorMessage is sent when a subscription is rejected; the server closes the connection after it
type ErrorMessage struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
}

// EntryMessage carries a log entry over the wire
type EntryMessage struct {
	Type      MessageType `json:"type"`
	ID        uint64      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Synthetic bool        `json:"synthetic_time,omitempty"`
	Level     string      `json:"level"`
	Source    string      `json:"source"`
	Component string      `json:"component,omitempty"`
	Message   string      `json:"message"`
	Raw       string      `json:"raw"`
	Unparsed  bool        `json:"unparsed,omitempty"`
	File      string      `json:"file,omitempty"`
}

// envelope reads just the type of an incoming message
type envelope struct {
	Type MessageType `json:"type"`
}

// NewEntryMessage converts an entry to its wire form
func NewEntryMessage(e entry.Entry) EntryMessage {
	return EntryMessage{
		Type:      MessageEntry,
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Synthetic: e.SyntheticTime,
		Level:     e.Level.String(),
		Source:    e.Source,
		Component: e.Component,
		Message:   e.Message,
		Raw:       e.RawLine,
		Unparsed:  e.Unparsed,
		File:      e.File,
	}
}

// Entry converts the wire form back to an entry
func (m EntryMessage) Entry() entry.Entry {
	level, _ := entry.ParseLevel(m.Level)

	return entry.Entry{
		ID:            m.ID,
		Timestamp:     m.Timestamp,
		SyntheticTime: m.Synthetic,
		Level:         level,
		Source:        m.Source,
		Component:     m.Component,
		Message:       m.Message,
		RawLine:       m.Raw,
		Unparsed:      m.Unparsed,
		File:          m.File,
	}
}
