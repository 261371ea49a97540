package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

// Projects is the projects repository
type Projects struct {
	c *postgrest.Client
}

// List returns every project sorted by order then id
func (r *Projects) List(ctx context.Context) ([]types.Project, error) {
	projects, err := postgrest.Get[[]types.Project](ctx, r.c, postgrest.Path(TableProjects, postgrest.Select()))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	SortProjects(projects)
	return projects, nil
}

// Get returns one project
func (r *Projects) Get(ctx context.Context, id int64) (types.Project, error) {
	p, err := postgrest.GetOne[types.Project](ctx, r.c, postgrest.Path(TableProjects, postgrest.Eq("id", id), postgrest.Select()))
	if err != nil {
		return p, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return p, nil
}

// Create inserts a project
func (r *Projects) Create(ctx context.Context, dto types.ProjectDto) (types.Project, error) {
	p, err := postgrest.Post[types.Project](ctx, r.c, postgrest.Path(TableProjects), dto)
	if err != nil {
		return p, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// Update writes the editable attributes of p
func (r *Projects) Update(ctx context.Context, p types.Project) (types.Project, error) {
	saved, err := postgrest.Patch[types.Project](ctx, r.c, postgrest.Path(TableProjects, postgrest.Eq("id", p.ID)), p.ToDto())
	if err != nil {
		return saved, fmt.Errorf("failed to update project %d: %w", p.ID, err)
	}
	return saved, nil
}

// Save creates p when it has no id yet and updates it otherwise
func (r *Projects) Save(ctx context.Context, p types.Project) (types.Project, error) {
	if p.ID == 0 {
		return r.Create(ctx, p.ToDto())
	}
	return r.Update(ctx, p)
}

// Delete removes a project
func (r *Projects) Delete(ctx context.Context, id int64) error {
	if err := postgrest.Delete(ctx, r.c, postgrest.Path(TableProjects, postgrest.Eq("id", id))); err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	return nil
}

// SortProjects sorts by order, unordered projects last, then by id
func SortProjects(projects []types.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return lessOrder(projects[i].Order, projects[j].Order, projects[i].ID, projects[j].ID)
	})
}
