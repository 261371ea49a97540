package mock

import "time"

// Row is one table row as decoded from JSON or YAML
type Row = map[string]any

// Config represents the mock server configuration
type Config struct {
	Port    int              `json:"port" yaml:"port"`       // Server port (default: 54321)
	Host    string           `json:"host" yaml:"host"`       // Server host (default: localhost)
	Logging bool             `json:"logging" yaml:"logging"` // Enable request logging
	Tables  map[string][]Row `json:"tables" yaml:"tables"`   // Seed rows per table
	Users   []User           `json:"users" yaml:"users"`     // Accounts accepted by the password grant
}

// User is an account of the mock auth service
type User struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"requestId,omitempty"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Table     string        `json:"table"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
