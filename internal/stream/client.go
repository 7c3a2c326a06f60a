package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/metrics"
)

const (
	DefaultBackoff     = 10 * time.Second
	DefaultIdleTimeout = 20 * time.Second

	closeWriteTimeout = time.Second
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type Options struct {
	URL           string
	Subscriptions []Subscription
	Backoff       time.Duration
	IdleTimeout   time.Duration
	// OnStateChange is called from the connection goroutine on every transition.
	OnStateChange func(State)
}

// Client keeps one feed connection alive and fans every text frame out to
// all handlers. A close frame from the server stops it for good; any other
// failure reconnects after the backoff.
type Client struct {
	logger   *zap.Logger
	metrics  *metrics.Metrics
	opts     Options
	handlers []domain.Handler
	dialer   *websocket.Dialer

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	state     atomic.Int32
	startedAt time.Time

	cancel   context.CancelFunc
	done     chan struct{}
	wg       sync.WaitGroup
	inflight sync.WaitGroup
}

func NewClient(logger *zap.Logger, m *metrics.Metrics, opts Options, handlers []domain.Handler) *Client {
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}

	return &Client{
		logger:   logger.Named("stream"),
		metrics:  m,
		opts:     opts,
		handlers: handlers,
		dialer:   websocket.DefaultDialer,
		done:     make(chan struct{}),
	}
}

func (c *Client) State() State {
	return State(c.state.Load())
}

// Done is closed once the client has stopped, either through Stop or a close
// frame from the server.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.startedAt = time.Now()

	c.logger.Info("Starting stream client",
		zap.Int("handlers", len(c.handlers)),
		zap.Int("subscriptions", len(c.opts.Subscriptions)))

	c.wg.Add(1)
	go c.run(ctx)

	return nil
}

// Stop closes the connection and waits for the loop and in-flight handlers.
func (c *Client) Stop() error {
	c.logger.Info("Stopping stream client")

	if c.cancel != nil {
		c.cancel()
	}
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil {
		c.sendClose(conn)
	}

	c.wg.Wait()
	c.inflight.Wait()
	return nil
}

func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.done)
	defer c.setState(StateDisconnected)

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.metrics.IncReconnects()
		}

		terminated, err := c.session(ctx)
		if terminated || ctx.Err() != nil {
			return
		}
		c.setState(StateDisconnected)
		c.logger.Warn("Reconnecting after error",
			zap.Error(err),
			zap.Duration("backoff", c.opts.Backoff))

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.opts.Backoff):
		}
	}
}

// session runs one connection from dial to failure. terminated reports a
// close frame from the server.
func (c *Client) session(ctx context.Context) (terminated bool, err error) {
	c.setState(StateConnecting)

	conn, _, err := c.dialer.DialContext(ctx, c.opts.URL, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to connect: %v", domain.ErrTransport, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()
	c.logger.Info("Connected to feed")

	for _, sub := range c.opts.Subscriptions {
		if err = c.writeJSON(conn, sub.request(c.startedAt)); err != nil {
			c.sendClose(conn)
			return false, fmt.Errorf("%w: failed to subscribe: %v", domain.ErrTransport, err)
		}
	}
	c.setState(StateSubscribed)

	return c.readLoop(ctx, conn)
}

type frame struct {
	messageType int
	payload     []byte
	err         error
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) (bool, error) {
	frames := make(chan frame)
	stop := make(chan struct{})
	defer close(stop)

	// A timed out gorilla read corrupts the connection, so the idle timeout
	// lives here rather than in a read deadline.
	go func() {
		for {
			messageType, payload, err := conn.ReadMessage()
			select {
			case frames <- frame{messageType: messageType, payload: payload, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	idle := time.NewTimer(c.opts.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case <-idle.C:
			c.logger.Debug("No frame within idle timeout", zap.Duration("timeout", c.opts.IdleTimeout))
			idle.Reset(c.opts.IdleTimeout)
		case f := <-frames:
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(c.opts.IdleTimeout)

			if f.err != nil {
				// gorilla reports a dropped TCP connection as an abnormal
				// closure; only a real close frame ends the client.
				var closeErr *websocket.CloseError
				if errors.As(f.err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
					c.logger.Info("Feed closed the connection",
						zap.Int("code", closeErr.Code),
						zap.String("reason", closeErr.Text))
					return true, nil
				}
				c.sendClose(conn)
				return false, fmt.Errorf("%w: failed to read frame: %v", domain.ErrTransport, f.err)
			}
			if f.messageType != websocket.TextMessage {
				continue
			}
			if !utf8.Valid(f.payload) {
				c.sendClose(conn)
				return false, fmt.Errorf("%w: frame is not valid utf-8", domain.ErrTransport)
			}

			c.setState(StateStreaming)
			c.metrics.IncFrames()
			c.dispatch(ctx, f.payload)
		}
	}
}

// dispatch hands the frame to every handler on its own goroutine. Handler
// errors are logged and never reach the read loop.
func (c *Client) dispatch(ctx context.Context, payload []byte) {
	for _, handler := range c.handlers {
		c.inflight.Add(1)
		go func(h domain.Handler) {
			defer c.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("Panic in handler", zap.String("handler", h.Name()), zap.Any("error", r))
				}
			}()

			// Handlers are not cancelled by Stop, which waits for them instead.
			signature, err := h.Handle(context.WithoutCancel(ctx), payload)
			if err != nil {
				if errors.Is(err, domain.ErrNothingToCopy) {
					c.logger.Debug("Nothing to copy", zap.String("handler", h.Name()), zap.Error(err))
					return
				}
				c.logger.Error("Handler failed", zap.String("handler", h.Name()), zap.Error(err))
				return
			}
			c.logger.Info("Copied transaction",
				zap.String("handler", h.Name()),
				zap.String("tx", domain.SolscanTxURL(signature)))
		}(handler)
	}
}

func (c *Client) writeJSON(conn *websocket.Conn, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *Client) sendClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout)); err != nil {
		c.logger.Debug("Failed to send close frame", zap.Error(err))
	}
}

func (c *Client) setState(state State) {
	prev := State(c.state.Swap(int32(state)))
	if prev == state {
		return
	}
	c.logger.Debug("State changed", zap.Stringer("from", prev), zap.Stringer("to", state))
	if c.opts.OnStateChange != nil {
		c.opts.OnStateChange(state)
	}
}
