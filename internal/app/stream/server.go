//go:generate mockgen -source=server.go -destination=server_mock.go -package=stream
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"logscope/internal/app/engine"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/registry"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// Views is the part of the engine a stream server subscribes through
type Views interface {
	NewSpec(opts filter.Options) (*filter.Spec, error)
	Subscribe(spec *filter.Spec, sink registry.Sink) (*registry.Subscription, error)
	Unsubscribe(sub *registry.Subscription) error
	Replay(sub *registry.Subscription, n int) int
	Sources() []string
}

// Server manages the Unix socket server for entry streaming
type Server interface {
	Start(ctx context.Context) error
	Stop() error
	SocketPath() string
	Clients() int
}

// server implements the Server interface
type server struct {
	socketPath string
	name       string
	views      Views
	listener   net.Listener
	running    atomic.Bool
	wg         sync.WaitGroup
	connID     atomic.Int64
	clients    atomic.Int64
	cancel     context.CancelFunc
	log        logger.Logger
}

// NewServer creates a stream server over the engine using the configured socket location
func NewServer(cfg *config.Config, eng engine.Engine, log logger.Logger) Server {
	return New(cfg.Stream.SocketDir, cfg.Stream.Name, eng, log)
}

// New creates a stream server listening on <socketDir>/logscope-<name>.sock
func New(socketDir, name string, views Views, log logger.Logger) Server {
	return &server{
		socketPath: SocketPathForName(socketDir, name),
		name:       name,
		views:      views,
		log:        log.WithComponent("STREAM"),
	}
}

// SocketPathForName constructs the socket path for an instance name
func SocketPathForName(socketDir, name string) string {
	return filepath.Join(socketDir, config.SocketPrefix+name+config.SocketSuffix)
}

// SocketPath returns the socket path for this server
func (s *server) SocketPath() string {
	return s.socketPath
}

// Clients returns the number of connected clients
func (s *server) Clients() int {
	return int(s.clients.Load())
}

// Start starts the Unix socket server
func (s *server) Start(ctx context.Context) error {
	if err := s.cleanupStaleSocket(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToCleanupSocket, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("%w %s: %w", errors.ErrFailedToListenSocket, s.socketPath, err)
	}

	s.listener = listener
	s.running.Store(true)
	s.log.Info().Msgf("Stream server listening on %s", s.socketPath)

	serverCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.acceptConnections(serverCtx)
	}()

	return nil
}

// Stop stops the server, disconnects clients and removes the socket file
func (s *server) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)

	if s.cancel != nil {
		s.cancel()
	}

	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.wg.Wait()

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Msgf("Failed to remove socket file: %s", s.socketPath)
	}

	s.log.Info().Msg("Stream server stopped")

	return nil
}

// cleanupStaleSocket removes a stale socket file if no instance answers on it
func (s *server) cleanupStaleSocket() error {
	if _, err := os.Stat(s.socketPath); os.IsNotExist(err) {
		return nil
	}

	conn, err := net.DialTimeout("unix", s.socketPath, config.SocketDialTimeout)
	if err == nil {
		_ = conn.Close()

		return fmt.Errorf("%w: %s", errors.ErrSocketAlreadyInUse, s.socketPath)
	}

	s.log.Info().Msgf("Removing stale socket: %s", s.socketPath)

	return os.Remove(s.socketPath)
}

// acceptConnections handles incoming client connections
func (s *server) acceptConnections(ctx context.Context) {
	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.log.Error().Err(err).Msg("Failed to accept connection")
			}

			continue
		}

		s.wg.Add(1)

		go func(c net.Conn) {
			defer s.wg.Done()

			s.handleConnection(ctx, c)
		}(conn)
	}
}

// handleConnection validates the subscribe request, then streams entries until either side goes away
func (s *server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	clientID := fmt.Sprintf("client-%d", s.connID.Add(1))
	w := &lineWriter{w: conn}

	s.log.Debug().Msgf("Client connected: %s", clientID)

	reader := bufio.NewReader(conn)

	line, err := reader.ReadBytes('\n')
	if err != nil {
		s.log.Error().Err(err).Msgf("Failed to read from client %s", clientID)
		return
	}

	var req SubscribeRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Error().Err(err).Msgf("Failed to parse subscribe request from %s", clientID)
		_ = w.write(ErrorMessage{Type: MessageError, Error: errors.ErrFailedToParseMessage.Error()})

		return
	}

	if req.Type != MessageSubscribe {
		s.log.Error().Msgf("Expected subscribe message from %s, got %s", clientID, req.Type)
		_ = w.write(ErrorMessage{Type: MessageError, Error: fmt.Sprintf("%s: '%s'", errors.ErrUnknownCommand, req.Type)})

		return
	}

	spec, err := s.views.NewSpec(req.Options())
	if err != nil {
		s.log.Debug().Err(err).Msgf("Rejected subscription from %s", clientID)
		_ = w.write(ErrorMessage{Type: MessageError, Error: err.Error()})

		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan struct{})

	sub, err := s.views.Subscribe(spec, func(e entry.Entry) {
		select {
		case <-ready:
		case <-connCtx.Done():
			return
		}

		if err := w.write(NewEntryMessage(e)); err != nil {
			cancel()
		}
	})
	if err != nil {
		_ = w.write(ErrorMessage{Type: MessageError, Error: err.Error()})
		return
	}

	replayed := 0
	if req.Replay > 0 {
		replayed = s.views.Replay(sub, req.Replay)
	}

	status := StatusMessage{
		Type:     MessageStatus,
		Name:     s.name,
		Version:  config.Version,
		Sources:  s.views.Sources(),
		Filter:   spec.String(),
		Replayed: replayed,
	}

	if err := w.write(status); err != nil {
		cancel()
	}

	close(ready)

	s.clients.Add(1)
	s.log.Debug().Msgf("Client %s subscribed with filter %s (replayed %d)", clientID, spec, replayed)

	go func() {
		_, _ = io.Copy(io.Discard, reader)

		cancel()
	}()

	<-connCtx.Done()

	_ = conn.Close()

	if err := s.views.Unsubscribe(sub); err != nil {
		s.log.Debug().Err(err).Msgf("Failed to unsubscribe %s", clientID)
	}

	s.clients.Add(-1)
	s.log.Debug().Msgf("Client disconnected: %s", clientID)
}

// lineWriter writes newline-delimited JSON messages, one writer at a time
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToMarshalMessage, err)
	}

	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteSocket, err)
	}

	return nil
}
