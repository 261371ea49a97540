package forms

import (
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

// ContentSchema edits the markdown body of a project.
type ContentSchema struct {
	ProjectID int64
}

var contentFields = []record.Field{FieldText}

func (ContentSchema) Fields() []record.Field { return contentFields }

func (ContentSchema) Value(c *types.Content, f record.Field) string {
	if c == nil || f != FieldText {
		return ""
	}
	return deref(c.Text)
}

// Build keeps edited text verbatim; markdown whitespace is significant.
func (s ContentSchema) Build(base *types.Content, v record.Values) types.Content {
	c := types.Content{ProjectID: s.ProjectID}
	if base != nil {
		c = *base
	}
	if changed[types.Content](s, base, v, FieldText) {
		text := v[FieldText]
		c.Text = &text
	}
	return c
}

// NewContentForm returns the editable content of a project. A nil content
// means the project has no content row yet.
func NewContentForm(projectID int64, c *types.Content) *record.Record[types.Content] {
	return record.New[types.Content](ContentSchema{ProjectID: projectID}, c)
}
