package forms

import (
	"strings"

	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

// ProjectSchema edits the title, order and description of a project.
type ProjectSchema struct{}

var projectFields = []record.Field{FieldTitle, FieldOrder, FieldDesc}

func (ProjectSchema) Fields() []record.Field { return projectFields }

// Required lists the fields a project cannot be saved without.
func (ProjectSchema) Required() []record.Field { return []record.Field{FieldTitle} }

func (ProjectSchema) Value(p *types.Project, f record.Field) string {
	if p == nil {
		return ""
	}
	switch f {
	case FieldTitle:
		return p.Title
	case FieldOrder:
		return formatInt(p.Order)
	case FieldDesc:
		return deref(p.Desc)
	}
	return ""
}

// Build converts the edited fields only. An edited description is kept even
// when empty, so clearing it on the form clears it on the server.
func (s ProjectSchema) Build(base *types.Project, v record.Values) types.Project {
	var p types.Project
	if base != nil {
		p = *base
	}
	if changed[types.Project](s, base, v, FieldTitle) {
		p.Title = strings.TrimSpace(v[FieldTitle])
	}
	if changed[types.Project](s, base, v, FieldOrder) {
		p.Order = parseInt(v[FieldOrder])
	}
	if changed[types.Project](s, base, v, FieldDesc) {
		desc := v[FieldDesc]
		p.Desc = &desc
	}
	return p
}

// NewProjectForm returns an editable project. A nil project opens the form
// in create mode.
func NewProjectForm(p *types.Project) *record.Record[types.Project] {
	return record.New[types.Project](ProjectSchema{}, p)
}
