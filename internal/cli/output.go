package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/catalog/internal/filter"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// format returns the output format: the flag, then the profile, then text
func (e *Env) format() (string, error) {
	f := e.opts.Output
	if f == "" {
		f = e.Session.GetActiveProfile().Output
	}
	switch f {
	case "":
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q (use json, yaml or text)", errUsage, f)
}

// print writes v in the selected format. A query narrows v first; its
// result has no text rendering so it is printed as JSON.
func (e *Env) print(v any, text func(w io.Writer) error) error {
	format, err := e.format()
	if err != nil {
		return err
	}

	if e.opts.Query != "" {
		v, err = filter.Query(v, e.opts.Query)
		if err != nil {
			return err
		}
		if format == FormatText {
			format = FormatJSON
		}
	}

	return formatOutput(e.Out, v, format, text)
}

// formatOutput formats the result based on the output format
func formatOutput(w io.Writer, v any, format string, text func(w io.Writer) error) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	default:
		return text(w)
	}
}

// renderTable draws rows with a header line
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

func formatOptional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
