package forms

import (
	"strings"

	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

// AreaSchema edits every writable attribute of an area.
type AreaSchema struct {
	// Category prefills the category in create mode.
	Category string
}

var areaFields = []record.Field{FieldTitle, FieldCategory, FieldDesc, FieldOrder, FieldFormat}

func (AreaSchema) Fields() []record.Field { return areaFields }

// Required lists the fields an area cannot be saved without.
func (AreaSchema) Required() []record.Field {
	return []record.Field{FieldTitle, FieldCategory}
}

func (s AreaSchema) Value(a *types.Area, f record.Field) string {
	if a == nil {
		if f == FieldCategory {
			return s.Category
		}
		return ""
	}
	switch f {
	case FieldTitle:
		return a.Title
	case FieldCategory:
		return a.Category
	case FieldDesc:
		return deref(a.Desc)
	case FieldOrder:
		return formatInt(a.Order)
	case FieldFormat:
		if a.Format == nil {
			return ""
		}
		return string(*a.Format)
	}
	return ""
}

// Build converts the edited fields only. An edited blank description and an
// unknown format are dropped.
func (s AreaSchema) Build(base *types.Area, v record.Values) types.Area {
	var a types.Area
	if base != nil {
		a = *base
	}
	if changed[types.Area](s, base, v, FieldTitle) {
		a.Title = strings.TrimSpace(v[FieldTitle])
	}
	if changed[types.Area](s, base, v, FieldCategory) {
		a.Category = strings.TrimSpace(v[FieldCategory])
	}
	if changed[types.Area](s, base, v, FieldDesc) {
		a.Desc = optional(v[FieldDesc])
	}
	if changed[types.Area](s, base, v, FieldOrder) {
		a.Order = parseInt(v[FieldOrder])
	}
	if changed[types.Area](s, base, v, FieldFormat) {
		a.Format, _ = types.ParseFormatType(strings.TrimSpace(v[FieldFormat]))
	}
	return a
}

// NewAreaForm returns an editable area. A nil area opens the form in create
// mode with category prefilled.
func NewAreaForm(a *types.Area, category string) *record.Record[types.Area] {
	return record.New[types.Area](AreaSchema{Category: category}, a)
}
