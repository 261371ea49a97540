// Package forms maps the catalog records onto editable form fields.
package forms

import (
	"strconv"
	"strings"

	"github.com/studiowebux/catalog/internal/record"
)

// Form field names shared by the schemas.
const (
	FieldTitle    record.Field = "title"
	FieldOrder    record.Field = "order"
	FieldDesc     record.Field = "desc"
	FieldCategory record.Field = "category"
	FieldFormat   record.Field = "format"
	FieldText     record.Field = "text"
)

// Labels holds the display label of every field.
var Labels = map[record.Field]string{
	FieldTitle:    "Title",
	FieldOrder:    "Order",
	FieldDesc:     "Description",
	FieldCategory: "Category",
	FieldFormat:   "Format",
	FieldText:     "Content",
}

// Missing returns the given fields whose value is blank.
func Missing(v record.Values, required ...record.Field) []record.Field {
	var out []record.Field
	for _, f := range required {
		if strings.TrimSpace(v[f]) == "" {
			out = append(out, f)
		}
	}
	return out
}

// changed reports whether f must be rebuilt from the form. Fields still
// equal to the rendering of base keep the base attribute as is.
func changed[T any](s record.Schema[T], base *T, v record.Values, f record.Field) bool {
	return base == nil || v[f] != s.Value(base, f)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

// parseInt is total: text that is not an integer yields nil.
func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional returns nil for blank text and the trimmed text otherwise.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
