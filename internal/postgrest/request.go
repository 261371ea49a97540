package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decode[T any](method, path string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return out, nil
}

// Get fetches path and decodes the JSON array or value into T
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	body, err := c.send(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](http.MethodGet, path, body)
}

// GetOne fetches exactly one row. No match yields an error matching
// ErrNotFound.
func GetOne[T any](ctx context.Context, c *Client, path string) (T, error) {
	body, err := c.send(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](http.MethodGet, path, body)
}

// Post inserts payload and returns the created row
func Post[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	body, err := c.send(ctx, http.MethodPost, path, payload, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](http.MethodPost, path, body)
}

// Patch updates the rows matching path and returns the updated row
func Patch[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	body, err := c.send(ctx, http.MethodPatch, path, payload, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](http.MethodPatch, path, body)
}

// Delete removes the rows matching path
func Delete(ctx context.Context, c *Client, path string) error {
	_, err := c.send(ctx, http.MethodDelete, path, nil, false)
	return err
}
