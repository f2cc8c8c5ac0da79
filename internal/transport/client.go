// Package transport holds the per-connection plumbing shared by the TCP
// listener and the WebSocket handler: one outbox channel per client (single
// writer per socket keeps delivery FIFO) and the line dispatcher that turns
// parsed commands into session messages.
package transport

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"skipbo/internal/protocol"
	"skipbo/internal/session"
)

// OutboxSize buffers server lines per connection; the session drops lines
// rather than block the actor when a client stops draining.
const OutboxSize = 64

const registerTimeout = 5 * time.Second

// Client is one connected player, before or after registration.
type Client struct {
	ID     string
	sess   *session.Session
	log    *zap.Logger
	outbox chan string
	name   string // empty until HELLO is accepted
}

func NewClient(id string, sess *session.Session, log *zap.Logger) *Client {
	return &Client{
		ID:     id,
		sess:   sess,
		log:    log.With(zap.String("conn", id)),
		outbox: make(chan string, OutboxSize),
	}
}

// Outbox is the stream of server lines for this connection. The transport's
// writer goroutine is its only consumer.
func (c *Client) Outbox() <-chan string { return c.outbox }

func (c *Client) Name() string { return c.name }

// HandleLine parses and dispatches one client line. Blank lines are
// ignored. Responses — including errors — arrive through the outbox, never
// inline, so ordering with broadcasts is preserved.
func (c *Client) HandleLine(line string) {
	if line == "" {
		return
	}

	cmd, err := protocol.ParseCommand(line)
	if err != nil {
		c.reject(err)
		return
	}

	if hello, ok := cmd.(protocol.Hello); ok {
		c.register(hello)
		return
	}

	// Everything else requires a registered name.
	if c.name == "" {
		c.outbox <- protocol.Error(protocol.CodeNotAllowed)
		return
	}

	switch m := cmd.(type) {
	case protocol.GameRequest:
		c.sess.Inbox() <- session.RequestGame{Name: c.name, Count: m.Count}
	case protocol.HandRequest:
		c.sess.Inbox() <- session.QueryHand{Name: c.name}
	case protocol.TableRequest:
		c.sess.Inbox() <- session.QueryTable{Name: c.name}
	case protocol.Play:
		c.sess.Inbox() <- session.PlayCard{Name: c.name, From: m.From, To: m.To}
	case protocol.EndTurn:
		c.sess.Inbox() <- session.EndTurn{
			Name:         c.name,
			Explicit:     m.Explicit,
			HandIndex:    m.HandIndex,
			DiscardIndex: m.DiscardIndex,
		}
	case protocol.AddBot:
		c.sess.Inbox() <- session.AddBot{Name: c.name}
	}
}

func (c *Client) register(hello protocol.Hello) {
	if c.name != "" {
		// Re-registering an already-named connection is not allowed.
		c.outbox <- protocol.Error(protocol.CodeNotAllowed)
		return
	}

	reply := make(chan bool, 1)
	c.sess.Inbox() <- session.Register{
		Name:     hello.Name,
		Features: hello.Features,
		Outbox:   c.outbox,
		Reply:    reply,
	}
	select {
	case accepted := <-reply:
		if accepted {
			c.name = hello.Name
			c.log.Info("registered", zap.String("player", c.name))
		}
	case <-time.After(registerTimeout):
		c.log.Warn("registration reply timed out", zap.String("player", hello.Name))
	}
}

func (c *Client) reject(err error) {
	switch {
	case errors.Is(err, protocol.ErrInvalidName):
		c.outbox <- protocol.Error(protocol.CodeInvalidName)
	case errors.Is(err, protocol.ErrBadPosition):
		c.outbox <- protocol.Error(protocol.CodeInvalidMove)
	default:
		c.outbox <- protocol.Error(protocol.CodeInvalidCommand)
	}
}

// Close tells the session the connection is gone.
func (c *Client) Close() {
	if c.name != "" {
		c.sess.Inbox() <- session.Leave{Name: c.name}
	}
}
