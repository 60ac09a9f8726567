// Package client implements the Musikbar connection core: a websocket
// RPC client for the Music Assistant hub that multiplexes command
// responses with push events, reconnects transparently on failure and
// keeps the local state store seeded and current.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ulilicht/Musikbar/internal/state"
	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// Contract constants. Every outstanding request fails after
// RequestTimeout; a dropped connection is redialled after
// ReconnectDelay, indefinitely. A session that misses pings for two
// KeepAliveInterval periods is considered dead.
const (
	RequestTimeout    = 5 * time.Second
	ReconnectDelay    = 5 * time.Second
	KeepAliveInterval = 20 * time.Second

	authClientID = "musikbar"
)

// Sink receives bootstrap snapshots and push events. All entity
// mutation funnels through it, so the store keeps a single writer.
type Sink interface {
	SeedPlayers(docs []state.Doc)
	SeedQueues(docs []state.Doc)
	Apply(ev state.Event)
}

// Options configures a Client.
type Options struct {
	ServerURL string
	Token     string
	Logger    *zap.Logger
	Sink      Sink

	// OnReady is called with true after a successful auth and
	// bootstrap, and with false whenever the connection drops.
	OnReady func(bool)

	// Zero values take the contract defaults. Tests shorten these.
	RequestTimeout    time.Duration
	ReconnectDelay    time.Duration
	KeepAliveInterval time.Duration
}

// Client drives the connection lifecycle:
// disconnected -> connecting -> authenticating -> bootstrapping -> ready.
type Client struct {
	log            *zap.Logger
	url            string
	token          string
	sink           Sink
	onReady        func(bool)
	requestTimeout time.Duration
	reconnectDelay time.Duration
	keepAlive      time.Duration

	mu    sync.Mutex
	sess  *session
	ready bool
}

// New creates a client. Run must be called to connect.
func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = RequestTimeout
	}
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = ReconnectDelay
	}
	if opts.KeepAliveInterval == 0 {
		opts.KeepAliveInterval = KeepAliveInterval
	}
	return &Client{
		log:            opts.Logger,
		url:            WebsocketURL(opts.ServerURL),
		token:          opts.Token,
		sink:           opts.Sink,
		onReady:        opts.OnReady,
		requestTimeout: opts.RequestTimeout,
		reconnectDelay: opts.ReconnectDelay,
		keepAlive:      opts.KeepAliveInterval,
	}
}

// WebsocketURL converts the configured hub base URL into its
// websocket endpoint. http becomes ws, https becomes wss.
func WebsocketURL(serverURL string) string {
	u := strings.TrimRight(strings.TrimSpace(serverURL), "/")
	u = strings.Replace(u, "http", "ws", 1)
	return u + "/ws"
}

// Run drives the reconnect loop until ctx is cancelled. Each cycle
// waits the reconnect delay, dials a fresh session, authenticates,
// bootstraps the entity lists and then serves push events until the
// connection drops. There is no bounded retry count.
func (c *Client) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectDelay):
		}
		c.runOnce(ctx)
		c.setReady(false)
	}
}

func (c *Client) runOnce(ctx context.Context) {
	sess, err := dialSession(ctx, c.log, c.url, c.keepAlive)
	if err != nil {
		c.log.Warn("connect failed", zap.String("url", c.url), zap.Error(err))
		return
	}
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.sess == sess {
			c.sess = nil
		}
		c.mu.Unlock()
	}()

	go sess.run(func(msg maapi.ServerMessage, raw []byte) {
		c.route(sess, msg, raw)
	})

	if err := c.authenticate(ctx); err != nil {
		c.log.Error("authentication failed", zap.Error(err))
		sess.close()
		return
	}
	if err := c.bootstrap(ctx); err != nil {
		c.log.Error("bootstrap failed", zap.Error(err))
		sess.close()
		return
	}
	c.setReady(true)
	c.log.Info("connected", zap.String("url", c.url))

	select {
	case <-ctx.Done():
		sess.close()
	case <-sess.closed:
		c.log.Info("connection lost")
	}
}

func (c *Client) authenticate(ctx context.Context) error {
	_, err := c.Send(ctx, maapi.CmdAuth, map[string]any{
		"token":     c.token,
		"client_id": authClientID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return nil
}

// bootstrap seeds the sink with the full player and queue listings.
// Ready is signalled only after both succeed.
func (c *Client) bootstrap(ctx context.Context) error {
	players, err := c.fetchDocs(ctx, maapi.CmdPlayersAll)
	if err != nil {
		return err
	}
	c.sink.SeedPlayers(players)
	return c.RefreshQueues(ctx)
}

// RefreshQueues re-fetches the full queue list and reseeds the sink.
// Queues dropped by the hub expire here.
func (c *Client) RefreshQueues(ctx context.Context) error {
	queues, err := c.fetchDocs(ctx, maapi.CmdQueuesAll)
	if err != nil {
		return err
	}
	c.sink.SeedQueues(queues)
	return nil
}

func (c *Client) fetchDocs(ctx context.Context, command string) ([]state.Doc, error) {
	result, err := c.Send(ctx, command, nil)
	if err != nil {
		return nil, err
	}
	var docs []state.Doc
	if err := json.Unmarshal(result, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", command, err)
	}
	return docs, nil
}

// route classifies one inbound message: push events go to the sink,
// everything else resolves a pending request on the session that
// received it.
func (c *Client) route(sess *session, msg maapi.ServerMessage, raw []byte) {
	if !msg.IsEvent() {
		sess.resolve(msg, raw)
		return
	}

	switch msg.Event {
	case maapi.EventPlayerAdded:
		doc, ok := c.decodeEventDoc(msg)
		if !ok {
			return
		}
		c.sink.Apply(state.PlayerAdded{Player: doc})
		// The hub sends no queue_added event; a new player usually
		// brings a new queue, so re-fetch the full list.
		go func() {
			if err := c.RefreshQueues(context.Background()); err != nil {
				c.log.Warn("queue refresh failed", zap.Error(err))
			}
		}()
	case maapi.EventPlayerUpdated:
		doc, ok := c.decodeEventDoc(msg)
		if !ok {
			return
		}
		c.sink.Apply(state.PlayerUpdated{Player: doc})
	case maapi.EventPlayerRemoved:
		doc, ok := c.decodeEventDoc(msg)
		if !ok {
			return
		}
		id, _ := doc["player_id"].(string)
		if id == "" {
			return
		}
		c.sink.Apply(state.PlayerRemoved{PlayerID: id})
	case maapi.EventQueueUpdated:
		doc, ok := c.decodeEventDoc(msg)
		if !ok {
			return
		}
		c.sink.Apply(state.QueueUpdated{Queue: doc})
	default:
		c.log.Debug("ignoring event", zap.String("event", msg.Event))
	}
}

func (c *Client) decodeEventDoc(msg maapi.ServerMessage) (state.Doc, bool) {
	var doc state.Doc
	if err := json.Unmarshal(msg.Data, &doc); err != nil {
		c.log.Warn("dropping malformed event payload",
			zap.String("event", msg.Event), zap.Error(err))
		return nil, false
	}
	return doc, true
}

// Send issues a raw hub command on the current session. Most callers
// use the typed helpers in api.go.
func (c *Client) Send(ctx context.Context, command string, args map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return nil, fmt.Errorf("%s: %w", command, ErrNotConnected)
	}
	return sess.send(ctx, command, args, c.requestTimeout)
}

// Ready reports whether auth and bootstrap completed on the current
// connection.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Client) setReady(ready bool) {
	c.mu.Lock()
	changed := c.ready != ready
	c.ready = ready
	c.mu.Unlock()
	if changed && c.onReady != nil {
		c.onReady(ready)
	}
}
