package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/events"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/loop"
)

const commandTimeout = 5 * time.Second

// Options configures the NATS client.
type Options struct {
	URL string

	// MaxReconnects bounds the reconnect attempts after a lost connection.
	// When the budget is exhausted the terminal error lands on Fatal and
	// the process is expected to exit so the supervisor restarts it.
	MaxReconnects int

	// ReconnectWait is the pause between attempts. Defaults to 2s.
	ReconnectWait time.Duration
}

// Client is the pub/sub command surface. It serves commands sent to
// lednode.cmd.<kind>, replying with the shared envelope, and mirrors bus
// events onto the broadcast subjects.
type Client struct {
	opts   Options
	loop   *loop.Loop
	bus    *events.Bus
	logger *slog.Logger

	mu      sync.Mutex
	conn    *nats.Conn
	sub     *nats.Subscription
	unsubs  []func()
	closing bool
	fatal   chan error
}

// NewClient creates the pub/sub surface over the core loop.
func NewClient(opts Options, l *loop.Loop, bus *events.Bus) *Client {
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = 30
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	return &Client{
		opts:   opts,
		loop:   l,
		bus:    bus,
		logger: logging.GetLogger("nats"),
		fatal:  make(chan error, 1),
	}
}

// Fatal delivers the terminal connection error once the reconnect budget is
// exhausted.
func (c *Client) Fatal() <-chan error {
	return c.fatal
}

// Connect dials the server and subscribes to the command subjects. A server
// that is down at startup is retried on the same bounded budget as a lost
// connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := nats.Connect(c.opts.URL,
		nats.Name("lednode"),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(c.opts.ReconnectWait),
		nats.MaxReconnects(c.opts.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				c.logger.Warn("NATS disconnected", "error", err)
			} else {
				c.logger.Debug("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.logger.Info("NATS reconnected")
		}),
		nats.ConnectHandler(func(_ *nats.Conn) {
			c.logger.Info("NATS connected", "url", c.opts.URL)
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			c.mu.Lock()
			closing := c.closing
			c.mu.Unlock()
			if closing {
				return
			}
			err := conn.LastError()
			if err == nil {
				err = fmt.Errorf("connection closed by server")
			}
			select {
			case c.fatal <- fmt.Errorf("nats reconnect budget exhausted: %w", err):
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("dialing nats %s: %w", c.opts.URL, err)
	}
	c.conn = conn

	sub, err := conn.Subscribe(SubjectCommandPrefix+".>", c.handleCommand)
	if err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("subscribing to commands: %w", err)
	}
	c.sub = sub

	c.unsubs = append(c.unsubs,
		c.bus.Subscribe(func(e events.StateChangedEvent) { c.publish(SubjectState, e) }),
		c.bus.Subscribe(func(e events.PaletteChangedEvent) { c.publish(SubjectPalette, e) }),
		c.bus.Subscribe(func(e events.GestureEvent) { c.publish(SubjectGesture, e) }),
	)

	return nil
}

// handleCommand answers one inbound command. The kind comes from the
// subject; the optional JSON body carries the arguments.
func (c *Client) handleCommand(msg *nats.Msg) {
	kind := CommandKind(msg.Subject)

	var req command.Request
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.logger.Warn("Malformed command payload", "subject", msg.Subject, "error", err)
			c.reply(msg, command.Response{Kind: kind, Error: "malformed request body"})
			return
		}
	}
	req.Kind = kind

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	resp, err := loop.Do(ctx, c.loop, "nats", func(p *command.Processor) (command.Response, error) {
		return p.Do(req), nil
	})
	if err != nil {
		resp = command.Response{Kind: kind, Error: err.Error()}
	}
	c.reply(msg, resp)
}

func (c *Client) reply(msg *nats.Msg, resp command.Response) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("Marshaling response failed", "kind", resp.Kind, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		c.logger.Warn("Reply failed", "kind", resp.Kind, "error", err)
	}
}

// publish mirrors one bus event onto a broadcast subject. Drops silently
// while disconnected; broadcasts are best effort.
func (c *Client) publish(subject string, v any) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Marshaling broadcast failed", "subject", subject, "error", err)
		return
	}
	if err := conn.Publish(subject, data); err != nil {
		c.logger.Debug("Broadcast dropped", "subject", subject, "error", err)
	}
}

// IsConnected reports whether the client currently has a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Close detaches from the bus and closes the connection without touching
// the fatal channel.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closing = true

	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil

	if c.sub != nil {
		_ = c.sub.Unsubscribe()
		c.sub = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.logger.Debug("NATS client closed")
}
