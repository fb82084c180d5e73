package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout    = 10 * time.Second
	writeTimeout        = 10 * time.Second
	healthCheckInterval = time.Second
	maxReconnectDelay   = 30 * time.Second
)

// ErrHeartbeatTimeout reports that the server did not answer a ping within
// the configured pong timeout.
var ErrHeartbeatTimeout = errors.New("heartbeat response timeout")

// MessageHandler consumes one inbound feed message. It must absorb its own
// failures; the supervisor keeps reading regardless.
type MessageHandler interface {
	HandleMessage(ctx context.Context, raw []byte)
}

// SupervisorConfig holds connection lifecycle settings.
type SupervisorConfig struct {
	// URL is the feed WebSocket endpoint.
	URL string

	// PingInterval is the heartbeat send interval.
	PingInterval time.Duration

	// PongTimeout faults the connection when a ping goes unanswered this long.
	PongTimeout time.Duration

	// ExponentialBackoff switches the reconnect delay from fixed to
	// doubling, capped at 30s.
	ExponentialBackoff bool

	// ReconnectDelay is the fixed delay, or the exponential floor, between
	// reconnect attempts.
	ReconnectDelay time.Duration
}

// Supervisor owns the feed connection lifecycle: connect, heartbeat,
// reconnect with backoff, and exactly-once dispatch of each inbound message
// to the handler. Run loops until the context is cancelled; the process is
// designed for indefinite unattended operation, and no connection failure
// is fatal.
type Supervisor struct {
	cfg     SupervisorConfig
	handler MessageHandler
	logger  *slog.Logger
}

// NewSupervisor creates a connection supervisor.
func NewSupervisor(cfg SupervisorConfig, handler MessageHandler, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Run blocks, maintaining a live feed connection until ctx is cancelled.
// Every disconnect (dial failure, read error, heartbeat timeout, server
// close) waits out the backoff delay and reconnects. Retries are unbounded.
func (s *Supervisor) Run(ctx context.Context) error {
	delay := s.cfg.ReconnectDelay

	for {
		err := s.connect(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			// Clean close from our side without cancellation; reconnect
			// at the floor delay.
			delay = s.cfg.ReconnectDelay
		}

		s.logger.Warn("Feed disconnected, reconnecting", "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay = s.nextDelay(delay)
	}
}

// nextDelay advances the reconnect delay per the configured strategy.
func (s *Supervisor) nextDelay(current time.Duration) time.Duration {
	if !s.cfg.ExponentialBackoff {
		return s.cfg.ReconnectDelay
	}
	next := current * 2
	if next > maxReconnectDelay {
		next = maxReconnectDelay
	}
	return next
}

// connect runs a single connection lifecycle: dial, read loop, heartbeat.
// Returns the terminal error of the connection, or nil on cancellation.
func (s *Supervisor) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	s.logger.Info("Feed connected", "url", s.cfg.URL)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The read deadline covers a full heartbeat cycle; a healthy feed
	// always delivers something within it, because each pong extends it.
	readTimeout := s.cfg.PingInterval + s.cfg.PongTimeout

	// pingSent holds the send time of the oldest unanswered ping, or the
	// zero time when every ping has been answered.
	var pingMu sync.Mutex
	var pingSent time.Time
	conn.SetPongHandler(func(string) error {
		pingMu.Lock()
		pingSent = time.Time{}
		pingMu.Unlock()
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	messages := make(chan []byte, 100)
	readErr := make(chan error, 1)

	go func() {
		defer close(messages)
		for {
			conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case messages <- msg:
			case <-connCtx.Done():
				return
			}
		}
	}()

	pingTicker := time.NewTicker(s.cfg.PingInterval)
	defer pingTicker.Stop()
	healthTicker := time.NewTicker(healthCheckInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-messages:
			if !ok {
				// The channel closes only after its buffered messages were
				// drained above, so every message received off the wire has
				// been dispatched. The reader sends on readErr before
				// closing, except when it exits on cancellation.
				select {
				case err := <-readErr:
					if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
						return fmt.Errorf("server closed connection: %w", err)
					}
					return fmt.Errorf("read error: %w", err)
				case <-ctx.Done():
					return nil
				}
			}
			s.handler.HandleMessage(ctx, msg)

		case <-pingTicker.C:
			// Record before writing so the answering pong cannot race
			// ahead of the bookkeeping.
			pingMu.Lock()
			if pingSent.IsZero() {
				pingSent = time.Now()
			}
			pingMu.Unlock()
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}

		case <-healthTicker.C:
			pingMu.Lock()
			sent := pingSent
			pingMu.Unlock()
			if !sent.IsZero() && time.Since(sent) > s.cfg.PongTimeout {
				return ErrHeartbeatTimeout
			}
		}
	}
}
