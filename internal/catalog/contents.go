package catalog

import (
	"context"
	"fmt"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

// Contents is the project content repository. A project has at most one
// content row.
type Contents struct {
	c *postgrest.Client
}

// ForProject returns the content of a project, or nil when it has none
func (r *Contents) ForProject(ctx context.Context, projectID int64) (*types.Content, error) {
	rows, err := postgrest.Get[[]types.Content](ctx, r.c, postgrest.Path(TableContent, postgrest.Eq("project_id", projectID), postgrest.Select()))
	if err != nil {
		return nil, fmt.Errorf("failed to get content of project %d: %w", projectID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Save updates the content row of the project, creating it when the project
// has none yet
func (r *Contents) Save(ctx context.Context, c types.Content) (types.Content, error) {
	id := c.ID
	if id == 0 {
		existing, err := r.ForProject(ctx, c.ProjectID)
		if err != nil {
			return c, err
		}
		if existing != nil {
			id = existing.ID
		}
	}

	if id == 0 {
		saved, err := postgrest.Post[types.Content](ctx, r.c, postgrest.Path(TableContent), c.ToDto())
		if err != nil {
			return saved, fmt.Errorf("failed to create content of project %d: %w", c.ProjectID, err)
		}
		return saved, nil
	}

	saved, err := postgrest.Patch[types.Content](ctx, r.c, postgrest.Path(TableContent, postgrest.Eq("id", id)), c.ToDto())
	if err != nil {
		return saved, fmt.Errorf("failed to update content %d: %w", id, err)
	}
	return saved, nil
}

// Delete removes a content row
func (r *Contents) Delete(ctx context.Context, id int64) error {
	if err := postgrest.Delete(ctx, r.c, postgrest.Path(TableContent, postgrest.Eq("id", id))); err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	return nil
}
