package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

// Edits holds the field values given on the command line. Fields that were
// not given keep their current value.
type Edits map[record.Field]string

// apply sets the edits on a record, validating the area format
func (ed Edits) apply(rec interface{ Set(record.Field, string) }) error {
	for f, v := range ed {
		if f == forms.FieldFormat {
			if _, err := types.ParseFormatType(v); err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
		}
		if f == forms.FieldOrder && strings.TrimSpace(v) != "" {
			if _, err := strconv.Atoi(strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("%w: order must be a number, got %q", errUsage, v)
			}
		}
		rec.Set(f, v)
	}
	return nil
}

// ParseID parses a record id argument
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, s)
	}
	return id, nil
}

// projectView is a project with its linked areas
type projectView struct {
	types.Project `yaml:",inline"`
	Areas         []int64 `json:"areas" yaml:"areas"`
}

// ListProjects prints every project in display order
func (e *Env) ListProjects(ctx context.Context) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	snap, err := s.Store.LoadAll(ctx)
	if err != nil {
		return err
	}
	catalog.SortProjects(snap.Projects)

	views := make([]projectView, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		views = append(views, projectView{Project: p, Areas: catalog.AreaIDs(snap.Links, p.ID)})
	}

	return e.print(views, func(w io.Writer) error {
		rows := make([][]string, 0, len(views))
		for _, v := range views {
			rows = append(rows, []string{
				strconv.FormatInt(v.ID, 10),
				formatOptionalInt(v.Order),
				v.Title,
				strconv.Itoa(len(v.Areas)),
			})
		}
		return renderTable(w, []string{"ID", "ORDER", "TITLE", "AREAS"}, rows)
	})
}

// ShowProject prints a project with the names of its areas
func (e *Env) ShowProject(ctx context.Context, id int64) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	p, err := s.Store.Projects.Get(ctx, id)
	if err != nil {
		return err
	}
	links, err := s.Store.Links.ForProject(ctx, id)
	if err != nil {
		return err
	}
	areas, err := s.Store.Areas.List(ctx)
	if err != nil {
		return err
	}
	view := projectView{Project: p, Areas: catalog.AreaIDs(links, id)}

	return e.print(view, func(w io.Writer) error {
		fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
		fmt.Fprintf(w, "Order:       %s\n", formatOptionalInt(p.Order))
		fmt.Fprintf(w, "Description: %s\n", formatOptional(p.Desc))
		linked := make(map[int64]bool, len(view.Areas))
		for _, a := range view.Areas {
			linked[a] = true
		}
		fmt.Fprintln(w, "Areas:")
		for _, a := range areas {
			if linked[a.ID] {
				fmt.Fprintf(w, "  - %s: %s\n", a.Category, catalog.FormatAreaText(a))
			}
		}
		return nil
	})
}

// SaveProject creates a project (id 0) or updates the given fields of an
// existing one
func (e *Env) SaveProject(ctx context.Context, id int64, edits Edits) error {
	s, err := e.services()
	if err != nil {
		return err
	}

	var initial *types.Project
	if id != 0 {
		p, err := s.Store.Projects.Get(ctx, id)
		if err != nil {
			return err
		}
		initial = &p
	}

	rec := forms.NewProjectForm(initial)
	if err := edits.apply(rec); err != nil {
		return err
	}
	if missing := forms.Missing(rec.Values(), forms.ProjectSchema{}.Required()...); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errUsage, fieldList(missing))
	}
	if !rec.IsNew() && !rec.HasChanges() {
		fmt.Fprintln(e.Out, "No changes")
		return nil
	}

	saved, err := s.Store.Projects.Save(ctx, rec.Commit())
	if err != nil {
		return err
	}
	return e.print(saved, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Saved project #%d %s\n", saved.ID, saved.Title)
		return err
	})
}

// DeleteProject deletes a project with its links and content
func (e *Env) DeleteProject(ctx context.Context, id int64) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	if err := s.Store.Links.RemoveForProject(ctx, id); err != nil {
		return err
	}
	content, err := s.Store.Contents.ForProject(ctx, id)
	if err != nil {
		return err
	}
	if content != nil {
		if err := s.Store.Contents.Delete(ctx, content.ID); err != nil {
			return err
		}
	}
	if err := s.Store.Projects.Delete(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Deleted project #%d\n", id)
	return err
}

// ListAreas prints the areas, optionally of one category
func (e *Env) ListAreas(ctx context.Context, category string) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	areas, err := s.Store.Areas.List(ctx)
	if err != nil {
		return err
	}
	catalog.SortAreas(areas)
	if category != "" {
		areas = catalog.ByCategory(areas)[category]
	}
	if areas == nil {
		areas = []types.Area{}
	}

	return e.print(areas, func(w io.Writer) error {
		byCategory := catalog.ByCategory(areas)
		var rows [][]string
		for _, c := range catalog.Categories(areas) {
			for _, a := range byCategory[c] {
				format := "-"
				if a.Format != nil {
					format = string(*a.Format)
				}
				rows = append(rows, []string{
					strconv.FormatInt(a.ID, 10),
					c,
					formatOptionalInt(a.Order),
					catalog.FormatAreaText(a),
					format,
				})
			}
		}
		return renderTable(w, []string{"ID", "CATEGORY", "ORDER", "TITLE", "FORMAT"}, rows)
	})
}

// SaveArea creates an area (id 0) or updates the given fields of an
// existing one
func (e *Env) SaveArea(ctx context.Context, id int64, edits Edits) error {
	s, err := e.services()
	if err != nil {
		return err
	}

	var initial *types.Area
	if id != 0 {
		areas, err := s.Store.Areas.List(ctx)
		if err != nil {
			return err
		}
		for i := range areas {
			if areas[i].ID == id {
				initial = &areas[i]
			}
		}
		if initial == nil {
			return fmt.Errorf("area %d not found", id)
		}
	}

	rec := forms.NewAreaForm(initial, "")
	if err := edits.apply(rec); err != nil {
		return err
	}
	if missing := forms.Missing(rec.Values(), forms.AreaSchema{}.Required()...); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errUsage, fieldList(missing))
	}
	if !rec.IsNew() && !rec.HasChanges() {
		fmt.Fprintln(e.Out, "No changes")
		return nil
	}

	saved, err := s.Store.Areas.Save(ctx, rec.Commit())
	if err != nil {
		return err
	}
	return e.print(saved, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Saved area #%d %s: %s\n", saved.ID, saved.Category, catalog.FormatAreaText(saved))
		return err
	})
}

// DeleteArea deletes an area
func (e *Env) DeleteArea(ctx context.Context, id int64) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	if err := s.Store.Areas.Delete(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Deleted area #%d\n", id)
	return err
}

// SyncLinks replaces the areas linked to a project
func (e *Env) SyncLinks(ctx context.Context, projectID int64, areaIDs []int64) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	if _, err := s.Store.Projects.Get(ctx, projectID); err != nil {
		return err
	}
	links, err := s.Store.Links.Sync(ctx, projectID, areaIDs)
	if err != nil {
		if len(links) > 0 {
			return fmt.Errorf("%w (project #%d now has %d linked area(s))", err, projectID, len(links))
		}
		return err
	}
	return e.print(links, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Linked %d area(s) to project #%d\n", len(links), projectID)
		return err
	})
}

// fieldList joins the labels of fields
func fieldList(fields []record.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.ToLower(forms.Labels[f])
	}
	return strings.Join(names, ", ")
}

// PickProject selects a project from a list
func (e *Env) PickProject(ctx context.Context) (int64, error) {
	s, err := e.services()
	if err != nil {
		return 0, err
	}
	projects, err := s.Store.Projects.List(ctx)
	if err != nil {
		return 0, err
	}
	catalog.SortProjects(projects)

	options := make([]Option, len(projects))
	for i, p := range projects {
		options[i] = Option{Value: strconv.FormatInt(p.ID, 10), Detail: p.Title}
	}
	picked, err := selectOption("Select project", options)
	if err != nil {
		return 0, err
	}
	return ParseID(picked)
}
