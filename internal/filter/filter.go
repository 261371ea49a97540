// Package filter narrows command output with JMESPath expressions.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Query evaluates a JMESPath expression against any JSON-encodable value.
// The value is normalized through JSON first so struct tags decide the field
// names the expression sees. An empty expression returns the normalized value.
func Query(value any, expression string) (any, error) {
	data, err := normalize(value)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return data, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// Apply applies filter then query to a JSON document and returns indented JSON.
// Filter narrows results (e.g., [?category=='Scale'])
// Query transforms/selects fields (e.g., [].title)
func Apply(body string, filter string, query string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	for _, step := range []struct{ kind, expr string }{{"filter", filter}, {"query", query}} {
		if step.expr == "" {
			continue
		}
		out, err := Query(data, step.expr)
		if err != nil {
			return "", fmt.Errorf("failed to apply %s: %w", step.kind, err)
		}
		data = out
	}

	if data == nil {
		return "null", nil
	}
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return data, nil
}
