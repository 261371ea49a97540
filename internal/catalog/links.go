package catalog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

// maxConcurrentWrites bounds the link inserts issued by Sync
const maxConcurrentWrites = 4

// Links is the project/area link repository
type Links struct {
	c *postgrest.Client
}

// List returns every link
func (r *Links) List(ctx context.Context) ([]types.AreaLink, error) {
	links, err := postgrest.Get[[]types.AreaLink](ctx, r.c, postgrest.Path(TableLinks, postgrest.Select()))
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// ForProject returns the links of one project
func (r *Links) ForProject(ctx context.Context, projectID int64) ([]types.AreaLink, error) {
	links, err := postgrest.Get[[]types.AreaLink](ctx, r.c, postgrest.Path(TableLinks, postgrest.Eq("project_id", projectID), postgrest.Select()))
	if err != nil {
		return nil, fmt.Errorf("failed to list links of project %d: %w", projectID, err)
	}
	return links, nil
}

// Add links an area to a project
func (r *Links) Add(ctx context.Context, projectID, areaID int64) (types.AreaLink, error) {
	link, err := postgrest.Post[types.AreaLink](ctx, r.c, postgrest.Path(TableLinks), types.AreaLinkDto{ProjectID: projectID, AreaID: areaID})
	if err != nil {
		return link, fmt.Errorf("failed to link area %d to project %d: %w", areaID, projectID, err)
	}
	return link, nil
}

// RemoveForProject removes every link of a project
func (r *Links) RemoveForProject(ctx context.Context, projectID int64) error {
	if err := postgrest.Delete(ctx, r.c, postgrest.Path(TableLinks, postgrest.Eq("project_id", projectID))); err != nil {
		return fmt.Errorf("failed to unlink areas of project %d: %w", projectID, err)
	}
	return nil
}

// Sync replaces the links of a project with areaIDs. The inserts run
// concurrently; the returned links follow the order of areaIDs. When an
// insert fails the other inserts still run to completion and the links that
// were inserted are returned with the first error, since the previous links
// are gone by then.
func (r *Links) Sync(ctx context.Context, projectID int64, areaIDs []int64) ([]types.AreaLink, error) {
	if err := r.RemoveForProject(ctx, projectID); err != nil {
		return nil, err
	}

	areaIDs = dedupe(areaIDs)
	links := make([]types.AreaLink, len(areaIDs))
	added := make([]bool, len(areaIDs))
	var g errgroup.Group
	g.SetLimit(maxConcurrentWrites)
	for i, areaID := range areaIDs {
		g.Go(func() error {
			link, err := r.Add(ctx, projectID, areaID)
			if err != nil {
				return err
			}
			links[i], added[i] = link, true
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		return links, nil
	}

	var inserted []types.AreaLink
	for i, link := range links {
		if added[i] {
			inserted = append(inserted, link)
		}
	}
	return inserted, err
}

// AreaIDs returns the sorted area ids linked to a project
func AreaIDs(links []types.AreaLink, projectID int64) []int64 {
	var ids []int64
	for _, l := range links {
		if l.ProjectID == projectID {
			ids = append(ids, l.AreaID)
		}
	}
	ids = dedupe(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
