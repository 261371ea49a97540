package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	restPrefix   = "/rest/v1/"
	mediaObject  = "application/vnd.pgrst.object+json"
	maxLogs      = 1000
	defaultPort  = 54321
	realtimePath = "/realtime/v1/websocket"
)

// Server is a local stand-in for a Supabase project: PostgREST tables,
// password auth and realtime change events
type Server struct {
	config     *Config
	httpServer *http.Server
	store      *Store
	auth       *authService
	hub        *hub
	metrics    *metrics
	logger     *zap.Logger
	logs       []RequestLog
	logsMutex  sync.RWMutex
	notifyCh   chan struct{} // Channel to notify when new log arrives
	addr       string
}

// NewServer creates a new mock server
func NewServer(config *Config, logger *zap.Logger) *Server {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:   config,
		store:    NewStore(config.Tables),
		auth:     newAuthService(config.Users),
		hub:      newHub(logger),
		metrics:  newMetrics(),
		logger:   logger,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100), // Buffered channel for notifications
	}
	for _, name := range Tables {
		s.metrics.rows.WithLabelValues(name).Set(float64(s.store.Count(name)))
	}
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(restPrefix, s.handleRest)
	mux.HandleFunc("/auth/v1/", s.handleAuth)
	mux.HandleFunc(realtimePath, s.hub.serve)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// Start starts the mock server. Bind errors are returned directly.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("mock server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.closeAll()
	return s.httpServer.Shutdown(ctx)
}

// Store returns the tables of the server
func (s *Server) Store() *Store {
	return s.store
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	if s.addr != "" {
		return "http://" + s.addr
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// pgError is the PostgREST error body
type pgError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// handleRest serves the PostgREST subset used by the client
func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body.Close()

	tableName := strings.TrimPrefix(r.URL.Path, restPrefix)
	status, payload := s.serveTable(r, tableName, bodyBytes)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}

	duration := time.Since(start)
	s.metrics.observe(r.Method, tableName, status, duration)
	if knownTable(tableName) {
		s.metrics.rows.WithLabelValues(tableName).Set(float64(s.store.Count(tableName)))
	}

	if s.config.Logging {
		s.logRequest(RequestLog{
			Timestamp: start,
			RequestID: r.Header.Get("X-Request-Id"),
			Method:    r.Method,
			Path:      r.URL.RequestURI(),
			Table:     tableName,
			Body:      string(bodyBytes),
			Status:    status,
			Duration:  duration,
		})
	}
}

func (s *Server) serveTable(r *http.Request, tableName string, body []byte) (int, any) {
	if !knownTable(tableName) {
		return http.StatusNotFound, pgError{
			Code:    "42P01",
			Message: fmt.Sprintf("relation \"public.%s\" does not exist", tableName),
		}
	}

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		return http.StatusBadRequest, pgError{Code: "PGRST100", Message: err.Error()}
	}

	single := r.Header.Get("Accept") == mediaObject
	representation := strings.Contains(r.Header.Get("Prefer"), "return=representation")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		rows, err := s.store.Select(tableName, q)
		if err != nil {
			return http.StatusNotFound, pgError{Code: "42P01", Message: err.Error()}
		}
		return shape(http.StatusOK, rows, single)

	case http.MethodPost:
		in, err := decodeRows(body)
		if err != nil {
			return http.StatusBadRequest, pgError{Code: "PGRST102", Message: err.Error()}
		}
		rows, err := s.store.Insert(tableName, in)
		if err != nil {
			return http.StatusNotFound, pgError{Code: "42P01", Message: err.Error()}
		}
		for _, row := range rows {
			s.hub.broadcast(tableName, "INSERT", row, nil)
		}
		if !representation {
			return http.StatusCreated, nil
		}
		return shape(http.StatusCreated, rows, single)

	case http.MethodPatch:
		var patch Row
		if err := json.Unmarshal(body, &patch); err != nil {
			return http.StatusBadRequest, pgError{Code: "PGRST102", Message: "Empty or invalid json"}
		}
		rows, err := s.store.Update(tableName, q, patch)
		if err != nil {
			return http.StatusNotFound, pgError{Code: "42P01", Message: err.Error()}
		}
		for _, row := range rows {
			s.hub.broadcast(tableName, "UPDATE", row, nil)
		}
		if !representation {
			return http.StatusNoContent, nil
		}
		return shape(http.StatusOK, rows, single)

	case http.MethodDelete:
		rows, err := s.store.Delete(tableName, q)
		if err != nil {
			return http.StatusNotFound, pgError{Code: "42P01", Message: err.Error()}
		}
		for _, row := range rows {
			s.hub.broadcast(tableName, "DELETE", nil, row)
		}
		if !representation {
			return http.StatusNoContent, nil
		}
		return shape(http.StatusOK, rows, single)
	}

	return http.StatusMethodNotAllowed, pgError{Code: "PGRST117", Message: "Unsupported HTTP method: " + r.Method}
}

// shape returns rows as an array, or as one object when single is set
func shape(status int, rows []Row, single bool) (int, any) {
	if !single {
		if rows == nil {
			rows = []Row{}
		}
		return status, rows
	}
	if len(rows) != 1 {
		return http.StatusNotAcceptable, pgError{
			Code:    "PGRST116",
			Message: "JSON object requested, multiple (or no) rows returned",
			Details: fmt.Sprintf("The result contains %d rows", len(rows)),
		}
	}
	return status, rows[0]
}

// decodeRows accepts a single object or an array of objects
func decodeRows(body []byte) ([]Row, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var rows []Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("invalid json array: %w", err)
		}
		return rows, nil
	}
	var row Row
	if err := json.Unmarshal(body, &row); err != nil || row == nil {
		return nil, fmt.Errorf("empty or invalid json")
	}
	return []Row{row}, nil
}

// logRequest adds a request to the log
func (s *Server) logRequest(entry RequestLog) {
	s.logger.Info("mock request",
		zap.String("request_id", entry.RequestID),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.Status),
		zap.Duration("duration", entry.Duration),
	)

	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, entry)

	// Keep only last 1000 logs
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	// Notify listeners (non-blocking)
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel full, skip notification
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	// Return a copy
	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}
