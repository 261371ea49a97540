package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

// Areas is the areas repository
type Areas struct {
	c *postgrest.Client
}

// List returns every area sorted by order then id
func (r *Areas) List(ctx context.Context) ([]types.Area, error) {
	areas, err := postgrest.Get[[]types.Area](ctx, r.c, postgrest.Path(TableAreas, postgrest.Select()))
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	SortAreas(areas)
	return areas, nil
}

// Create inserts an area
func (r *Areas) Create(ctx context.Context, dto types.AreaDto) (types.Area, error) {
	a, err := postgrest.Post[types.Area](ctx, r.c, postgrest.Path(TableAreas), dto)
	if err != nil {
		return a, fmt.Errorf("failed to create area: %w", err)
	}
	return a, nil
}

// Update writes the editable attributes of a
func (r *Areas) Update(ctx context.Context, a types.Area) (types.Area, error) {
	saved, err := postgrest.Patch[types.Area](ctx, r.c, postgrest.Path(TableAreas, postgrest.Eq("id", a.ID)), a.ToDto())
	if err != nil {
		return saved, fmt.Errorf("failed to update area %d: %w", a.ID, err)
	}
	return saved, nil
}

// Save creates a when it has no id yet and updates it otherwise
func (r *Areas) Save(ctx context.Context, a types.Area) (types.Area, error) {
	if a.ID == 0 {
		return r.Create(ctx, a.ToDto())
	}
	return r.Update(ctx, a)
}

// Delete removes an area
func (r *Areas) Delete(ctx context.Context, id int64) error {
	if err := postgrest.Delete(ctx, r.c, postgrest.Path(TableAreas, postgrest.Eq("id", id))); err != nil {
		return fmt.Errorf("failed to delete area %d: %w", id, err)
	}
	return nil
}

// SortAreas sorts by order, unordered areas last, then by id
func SortAreas(areas []types.Area) {
	sort.SliceStable(areas, func(i, j int) bool {
		return lessOrder(areas[i].Order, areas[j].Order, areas[i].ID, areas[j].ID)
	})
}

// Categories returns the distinct categories, sorted
func Categories(areas []types.Area) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range areas {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	sort.Strings(out)
	return out
}

// ByCategory groups areas by category, keeping their order
func ByCategory(areas []types.Area) map[string][]types.Area {
	out := make(map[string][]types.Area)
	for _, a := range areas {
		out[a.Category] = append(out[a.Category], a)
	}
	return out
}

// FormatArea renders the display markup of an area title. Exponential
// areas hold the exponent in their title.
func FormatArea(a types.Area) string {
	if a.Format != nil && *a.Format == types.FormatExponential {
		exponent, _ := strconv.Atoi(a.Title)
		if exponent == 0 {
			return "<var>1</var>&nbsp;m"
		}
		return fmt.Sprintf("<var>10<sup>%d</sup></var>&nbsp;m", exponent)
	}
	return fmt.Sprintf("<span>%s</span>", a.Title)
}

// FormatAreaText is the terminal rendition of FormatArea
func FormatAreaText(a types.Area) string {
	if a.Format != nil && *a.Format == types.FormatExponential {
		exponent, _ := strconv.Atoi(a.Title)
		if exponent == 0 {
			return "1 m"
		}
		return fmt.Sprintf("10^%d m", exponent)
	}
	return a.Title
}
