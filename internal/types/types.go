package types

import (
	"fmt"
	"time"
)

// Project is a row of the projects table
type Project struct {
	ID        int64   `json:"id" yaml:"id"`
	Title     string  `json:"title" yaml:"title"`
	Desc      *string `json:"desc" yaml:"desc,omitempty"`
	CreatedAt *string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Order     *int    `json:"order" yaml:"order,omitempty"`
}

// ToDto returns the writable subset of the project
func (p Project) ToDto() ProjectDto {
	return ProjectDto{
		Title: p.Title,
		Desc:  p.Desc,
		Order: p.Order,
	}
}

// ProjectDto is the payload used to create or update a project
type ProjectDto struct {
	Title string  `json:"title" yaml:"title"`
	Desc  *string `json:"desc" yaml:"desc,omitempty"`
	Order *int    `json:"order" yaml:"order,omitempty"`
}

// FormatType controls how an area title is displayed
type FormatType string

const (
	FormatExponential FormatType = "Exponential"
	FormatDecimal     FormatType = "Decimal"
	FormatPercentage  FormatType = "Percentage"
	FormatTime        FormatType = "Time"
	FormatCurrency    FormatType = "Currency"
	FormatDate        FormatType = "Date"
)

// FormatTypes lists every known format in display order
var FormatTypes = []FormatType{
	FormatExponential,
	FormatDecimal,
	FormatPercentage,
	FormatTime,
	FormatCurrency,
	FormatDate,
}

// ParseFormatType converts a form value into a FormatType.
// An empty string means "no format" and returns nil.
func ParseFormatType(s string) (*FormatType, error) {
	if s == "" {
		return nil, nil
	}
	for _, f := range FormatTypes {
		if string(f) == s {
			ft := f
			return &ft, nil
		}
	}
	return nil, fmt.Errorf("unknown format type %q", s)
}

// Area is a row of the areas table
type Area struct {
	ID        int64       `json:"id" yaml:"id"`
	CreatedAt *string     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Title     string      `json:"title" yaml:"title"`
	Category  string      `json:"category" yaml:"category"`
	Desc      *string     `json:"desc" yaml:"desc,omitempty"`
	Order     *int        `json:"order" yaml:"order,omitempty"`
	Format    *FormatType `json:"format" yaml:"format,omitempty"`
}

// ToDto returns the writable subset of the area
func (a Area) ToDto() AreaDto {
	return AreaDto{
		Title:    a.Title,
		Category: a.Category,
		Desc:     a.Desc,
		Order:    a.Order,
		Format:   a.Format,
	}
}

// AreaDto is the payload used to create or update an area
type AreaDto struct {
	Title    string      `json:"title" yaml:"title"`
	Category string      `json:"category" yaml:"category"`
	Desc     *string     `json:"desc" yaml:"desc,omitempty"`
	Order    *int        `json:"order" yaml:"order,omitempty"`
	Format   *FormatType `json:"format" yaml:"format,omitempty"`
}

// NewAreaDtoForCategory returns an empty area payload in the given category
func NewAreaDtoForCategory(category string) AreaDto {
	return AreaDto{Category: category}
}

// Content is the markdown body attached to a project
type Content struct {
	ID        int64   `json:"id" yaml:"id"`
	CreatedAt *string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Text      *string `json:"text" yaml:"text,omitempty"`
	ProjectID int64   `json:"project_id" yaml:"project_id"`
}

// ToDto returns the writable subset of the content
func (c Content) ToDto() ContentDto {
	return ContentDto{
		Text:      c.Text,
		ProjectID: c.ProjectID,
	}
}

// ContentDto is the payload used to create content
type ContentDto struct {
	Text      *string `json:"text" yaml:"text,omitempty"`
	ProjectID int64   `json:"project_id" yaml:"project_id"`
}

// AreaLink relates a project to an area (catalog table)
type AreaLink struct {
	ID        int64   `json:"id" yaml:"id"`
	CreatedAt *string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ProjectID int64   `json:"project_id" yaml:"project_id"`
	AreaID    int64   `json:"area_id" yaml:"area_id"`
}

// AreaLinkDto is the payload used to link an area to a project
type AreaLinkDto struct {
	ProjectID int64 `json:"project_id" yaml:"project_id"`
	AreaID    int64 `json:"area_id" yaml:"area_id"`
}

// HttpRequest is a single REST call issued against the backend
type HttpRequest struct {
	ID      string            `json:"id,omitempty"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// RequestResult contains the HTTP response data
type RequestResult struct {
	Status       int               `json:"status"`
	StatusText   string            `json:"statusText"`
	Headers      map[string]string `json:"headers"`
	Body         string            `json:"body"`
	Duration     int64             `json:"duration"`     // milliseconds
	RequestSize  int               `json:"requestSize"`  // bytes
	ResponseSize int               `json:"responseSize"` // bytes
	Error        string            `json:"error,omitempty"`
}

// HistoryEntry is a recorded write request and its outcome
type HistoryEntry struct {
	ID          int64     `json:"id" yaml:"id"`
	RequestID   string    `json:"requestId" yaml:"requestId"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	ProfileName string    `json:"profile,omitempty" yaml:"profile,omitempty"`
	Method      string    `json:"method" yaml:"method"`
	Path        string    `json:"path" yaml:"path"`
	Body        string    `json:"body,omitempty" yaml:"body,omitempty"`
	Status      int       `json:"status" yaml:"status"`
	Duration    int64     `json:"duration" yaml:"duration"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Session represents ephemeral session state persisted between runs
type Session struct {
	ActiveProfile  string        `json:"activeProfile,omitempty"`
	Auth           *AuthSession  `json:"auth,omitempty"`
	Local          *LocalSession `json:"local,omitempty"`
	HistoryEnabled *bool         `json:"historyEnabled,omitempty"`
}

// Profile is a named backend the editor can talk to
type Profile struct {
	Name     string            `json:"name" yaml:"name"`
	URL      string            `json:"url,omitempty" yaml:"url,omitempty"`
	APIKey   string            `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Output   string            `json:"output,omitempty" yaml:"output,omitempty"` // json, yaml, text
	Realtime *bool             `json:"realtime,omitempty" yaml:"realtime,omitempty"`
}
