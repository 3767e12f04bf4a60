//go:generate mockgen -source=client.go -destination=client_mock.go -package=stream
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
	"strings"

	"logscope/internal/app/errors"
	"logscope/internal/config"
)

// Client connects to a running logscope instance and streams entries
type Client interface {
	Connect(socketPath string) error
	Subscribe(req SubscribeRequest) (StatusMessage, error)
	Stream(ctx context.Context, output io.Writer) error
	Close() error
}

type client struct {
	conn      net.Conn
	reader    *bufio.Reader
	formatter *Formatter
}

// NewClient creates a new stream client with the given formatter
func NewClient(formatter *Formatter) Client {
	return &client{
		formatter: formatter,
	}
}

// Connect connects to the logscope socket
func (c *client) Connect(socketPath string) error {
	conn, err := net.DialTimeout("unix", socketPath, config.SocketDialTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToConnectSocket, err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)

	return nil
}

// Subscribe sends the subscription request and waits for the server's verdict
func (c *client) Subscribe(req SubscribeRequest) (StatusMessage, error) {
	req.Type = MessageSubscribe

	data, err := json.Marshal(req)
	if err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %w", errors.ErrFailedToMarshalMessage, err)
	}

	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %w", errors.ErrFailedToWriteSocket, err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %w", errors.ErrFailedToReadSocket, err)
	}

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %w", errors.ErrFailedToParseMessage, err)
	}

	switch env.Type {
	case MessageStatus:
		var status StatusMessage
		if err := json.Unmarshal(line, &status); err != nil {
			return StatusMessage{}, fmt.Errorf("%w: %w", errors.ErrFailedToParseMessage, err)
		}

		return status, nil
	case MessageError:
		var msg ErrorMessage
		_ = json.Unmarshal(line, &msg)

		return StatusMessage{}, fmt.Errorf("%w: %s", errors.ErrSubscriptionRejected, msg.Error)
	default:
		return StatusMessage{}, fmt.Errorf("%w: unexpected '%s'", errors.ErrFailedToParseMessage, env.Type)
	}
}

// Stream reads entry messages and writes them formatted to output until ctx is done or the server hangs up
func (c *client) Stream(ctx context.Context, output io.Writer) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.Close()
	})
	defer stop()

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("%w: %w", errors.ErrFailedToReadSocket, err)
		}

		var msg EntryMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}

		if msg.Type == MessageEntry {
			c.formatter.WriteFormatted(output, msg.Entry())
		}
	}
}

// Close closes the connection
func (c *client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}

// FindSocket finds the socket of a running logscope instance in the given directory
func FindSocket(socketDir, name string) (string, error) {
	if name != "" {
		socketPath := SocketPathForName(socketDir, name)
		if _, err := os.Stat(socketPath); err == nil {
			return socketPath, nil
		}

		return "", fmt.Errorf("%w: '%s'", errors.ErrInstanceNotFound, name)
	}

	pattern := filepath.Join(socketDir, config.SocketPrefix+"*"+config.SocketSuffix)

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrSocketSearchFailed, err)
	}

	if len(matches) == 0 {
		return "", errors.ErrNoInstanceRunning
	}

	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			base := filepath.Base(m)
			names[i] = strings.TrimSuffix(strings.TrimPrefix(base, config.SocketPrefix), config.SocketSuffix)
		}

		return "", fmt.Errorf("%w, specify with --name: %v", errors.ErrMultipleInstancesRunning, names)
	}

	return matches[0], nil
}
