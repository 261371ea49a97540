package mock

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// phxMessage is a Phoenix channel frame
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

type wsClient struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	topics map[string]bool
}

func (c *wsClient) send(msg phxMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topics[topic] || c.topics["realtime:*"]
}

// hub fans table changes out to realtime subscribers
type hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]bool
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func newHub(logger *zap.Logger) *hub {
	return &hub{
		clients: make(map[*wsClient]bool),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("realtime upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn, topics: make(map[string]bool)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		var msg phxMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case "phx_join":
			c.mu.Lock()
			c.topics[msg.Topic] = true
			c.mu.Unlock()
			h.logger.Debug("realtime join", zap.String("topic", msg.Topic))
		case "phx_leave":
			c.mu.Lock()
			delete(c.topics, msg.Topic)
			c.mu.Unlock()
		case "heartbeat":
		default:
			continue
		}

		reply := phxMessage{
			Topic:   msg.Topic,
			Event:   "phx_reply",
			Payload: json.RawMessage(`{"status":"ok","response":{}}`),
			Ref:     msg.Ref,
		}
		if err := c.send(reply); err != nil {
			return
		}
	}
}

// broadcast sends a change event to the subscribers of the table
func (h *hub) broadcast(table, changeType string, record, old Row) {
	payload, err := json.Marshal(map[string]any{
		"schema":           "public",
		"table":            table,
		"type":             changeType,
		"commit_timestamp": time.Now().UTC().Format(time.RFC3339),
		"record":           record,
		"old_record":       old,
	})
	if err != nil {
		h.logger.Warn("failed to encode change", zap.Error(err))
		return
	}

	topic := "realtime:public:" + table
	msg := phxMessage{Topic: topic, Event: strings.ToUpper(changeType), Payload: payload}

	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.subscribed(topic) {
			if err := c.send(msg); err != nil {
				h.logger.Debug("realtime send failed", zap.Error(err))
			}
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
}
