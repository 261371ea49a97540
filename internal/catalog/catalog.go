// Package catalog holds the repositories for projects, areas, content and
// project/area links.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

// Table names on the backend
const (
	TableProjects = "projects"
	TableAreas    = "areas"
	TableContent  = "content"
	TableLinks    = "catalog"
)

// Store groups the repositories sharing one client
type Store struct {
	Projects *Projects
	Areas    *Areas
	Contents *Contents
	Links    *Links
}

// New creates the repositories
func New(c *postgrest.Client) *Store {
	return &Store{
		Projects: &Projects{c: c},
		Areas:    &Areas{c: c},
		Contents: &Contents{c: c},
		Links:    &Links{c: c},
	}
}

// Snapshot is everything the editor lists at start
type Snapshot struct {
	Projects []types.Project  `json:"projects" yaml:"projects"`
	Areas    []types.Area     `json:"areas" yaml:"areas"`
	Links    []types.AreaLink `json:"links" yaml:"links"`
}

// LoadAll fetches projects, areas and links concurrently
func (s *Store) LoadAll(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Projects, err = s.Projects.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Areas, err = s.Areas.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Links, err = s.Links.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return &snap, nil
}

// lessOrder sorts rows by their optional order, unordered rows last, then by
// id
func lessOrder(a, b *int, idA, idB int64) bool {
	switch {
	case a != nil && b != nil && *a != *b:
		return *a < *b
	case a != nil && b == nil:
		return true
	case a == nil && b != nil:
		return false
	}
	return idA < idB
}
