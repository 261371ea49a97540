// Package realtime subscribes to table changes over the Supabase realtime
// (Phoenix channels) websocket.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/studiowebux/catalog/internal/config"
)

const (
	// DefaultHeartbeat is the Phoenix heartbeat interval
	DefaultHeartbeat = 30 * time.Second

	websocketPath = "/realtime/v1/websocket"
	joinTimeout   = 10 * time.Second
	writeTimeout  = 5 * time.Second
)

// Change is one row change on a table
type Change struct {
	Table           string         `json:"table"`
	Type            string         `json:"type"` // INSERT, UPDATE or DELETE
	Record          map[string]any `json:"record,omitempty"`
	OldRecord       map[string]any `json:"old_record,omitempty"`
	CommitTimestamp string         `json:"commit_timestamp,omitempty"`
}

// ID returns the id of the changed row
func (c Change) ID() int64 {
	row := c.Record
	if row == nil {
		row = c.OldRecord
	}
	if f, ok := row["id"].(float64); ok {
		return int64(f)
	}
	return 0
}

// message is a Phoenix channel frame
type message struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

type reply struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// Topic returns the channel topic of a public table
func Topic(table string) string {
	return "realtime:public:" + table
}

// Client connects to the realtime endpoint of a backend
type Client struct {
	endpoint  string
	tokens    oauth2.TokenSource
	heartbeat time.Duration
	dialer    *websocket.Dialer
	logger    *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTokenSource sends the user token when joining so row level security
// applies to the change feed
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHeartbeat overrides the heartbeat interval
func WithHeartbeat(d time.Duration) Option {
	return func(c *Client) { c.heartbeat = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a realtime client for the backend
func New(b config.Backend, opts ...Option) (*Client, error) {
	endpoint, err := Endpoint(b)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  endpoint,
		heartbeat: DefaultHeartbeat,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the websocket URL of the backend
func Endpoint(b config.Backend) (string, error) {
	u, err := url.Parse(b.URL)
	if err != nil {
		return "", fmt.Errorf("invalid backend url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid backend url %q: scheme must be http or https", b.URL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + websocketPath
	q := url.Values{}
	if b.APIKey != "" {
		q.Set("apikey", b.APIKey)
	}
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscription delivers the changes of the joined tables
type Subscription struct {
	// Changes is closed when the subscription ends
	Changes <-chan Change

	mu  sync.Mutex
	err error
}

// Err returns the error that ended the subscription, or nil when it ended
// through context cancellation
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Subscribe joins the topics of the tables and returns once every join was
// acknowledged. Cancelling ctx closes the connection and the Changes channel.
func (c *Client) Subscribe(ctx context.Context, tables ...string) (*Subscription, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables to subscribe to")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to realtime: %w", err)
	}

	ch := &channel{conn: conn}
	if err := c.join(ch, tables); err != nil {
		conn.Close()
		return nil, err
	}

	out := make(chan Change, 16)
	sub := &Subscription{Changes: out}
	go c.run(ctx, ch, sub, out)

	c.logger.Debug("realtime subscribed", zap.Strings("tables", tables))
	return sub, nil
}

// channel wraps the connection with the ref counter
type channel struct {
	conn *websocket.Conn
	ref  int
}

func (ch *channel) send(topic, event string, payload any) (string, error) {
	ch.ref++
	ref := strconv.Itoa(ch.ref)
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	_ = ch.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ref, ch.conn.WriteJSON(message{Topic: topic, Event: event, Payload: data, Ref: &ref})
}

func (c *Client) join(ch *channel, tables []string) error {
	payload := map[string]any{}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil {
			payload["user_token"] = tok.AccessToken
		}
	}

	pending := make(map[string]string)
	for _, table := range tables {
		ref, err := ch.send(Topic(table), "phx_join", payload)
		if err != nil {
			return fmt.Errorf("failed to join %s: %w", table, err)
		}
		pending[ref] = table
	}

	_ = ch.conn.SetReadDeadline(time.Now().Add(joinTimeout))
	defer ch.conn.SetReadDeadline(time.Time{})

	for len(pending) > 0 {
		var msg message
		if err := ch.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read join reply: %w", err)
		}
		if msg.Event != "phx_reply" || msg.Ref == nil {
			continue
		}
		table, ok := pending[*msg.Ref]
		if !ok {
			continue
		}
		var r reply
		if err := json.Unmarshal(msg.Payload, &r); err != nil || r.Status != "ok" {
			return fmt.Errorf("join of %s was rejected: %s", table, string(msg.Payload))
		}
		delete(pending, *msg.Ref)
	}
	return nil
}

// run sends heartbeats until ctx is cancelled or the read loop stops
func (c *Client) run(ctx context.Context, ch *channel, sub *Subscription, out chan<- Change) {
	readDone := make(chan error, 1)
	go func() {
		readDone <- c.read(ctx, ch.conn, out)
	}()

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			_ = ch.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			break loop
		case err = <-readDone:
			readDone = nil
			break loop
		case <-ticker.C:
			if _, werr := ch.send("phoenix", "heartbeat", map[string]any{}); werr != nil {
				err = fmt.Errorf("heartbeat failed: %w", werr)
				break loop
			}
		}
	}

	ch.conn.Close()
	if readDone != nil {
		<-readDone
	}
	if ctx.Err() == nil && err != nil {
		sub.setErr(err)
		c.logger.Warn("realtime subscription ended", zap.Error(err))
	}
	close(out)
}

// read decodes change events until the connection fails
func (c *Client) read(ctx context.Context, conn *websocket.Conn, out chan<- Change) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("realtime connection lost: %w", err)
		}

		switch msg.Event {
		case "INSERT", "UPDATE", "DELETE":
		default:
			continue
		}

		var change Change
		if err := json.Unmarshal(msg.Payload, &change); err != nil {
			c.logger.Debug("ignoring malformed change", zap.Error(err))
			continue
		}
		if change.Type == "" {
			change.Type = msg.Event
		}

		select {
		case out <- change:
		case <-ctx.Done():
			return nil
		}
	}
}
