package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/markdown"
	"github.com/studiowebux/catalog/internal/types"
)

const renderWidth = 80

// ShowContent prints the markdown of a project, rendered for the terminal
// unless raw is set
func (e *Env) ShowContent(ctx context.Context, projectID int64, raw bool) error {
	s, err := e.services()
	if err != nil {
		return err
	}
	content, err := s.Store.Contents.ForProject(ctx, projectID)
	if err != nil {
		return err
	}
	if content == nil {
		content = &types.Content{ProjectID: projectID}
	}

	return e.print(content, func(w io.Writer) error {
		text := ""
		if content.Text != nil {
			text = *content.Text
		}
		if text == "" {
			_, err := fmt.Fprintf(w, "Project #%d has no content\n", projectID)
			return err
		}
		if !raw {
			rendered, err := markdown.Render(text, renderWidth)
			if err != nil {
				return err
			}
			text = rendered
		}
		_, err := io.WriteString(w, text)
		return err
	})
}

// SetContent replaces the markdown of a project with the contents of path,
// or of the input when path is "-" or empty
func (e *Env) SetContent(ctx context.Context, projectID int64, path string) error {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(e.In)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	s, err := e.services()
	if err != nil {
		return err
	}
	if _, err := s.Store.Projects.Get(ctx, projectID); err != nil {
		return err
	}
	current, err := s.Store.Contents.ForProject(ctx, projectID)
	if err != nil {
		return err
	}

	rec := forms.NewContentForm(projectID, current)
	rec.Set(forms.FieldText, string(data))
	if !rec.IsNew() && !rec.HasChanges() {
		fmt.Fprintln(e.Out, "No changes")
		return nil
	}

	saved, err := s.Store.Contents.Save(ctx, rec.Commit())
	if err != nil {
		return err
	}

	m := markdown.Measure(string(data))
	return e.print(saved, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Saved content of project #%d (%d words, %d lines)\n", projectID, m.Words, m.Lines)
		return err
	})
}
