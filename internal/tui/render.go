package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/markdown"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/textedit"
)

// bodySize returns the inner size of the main box
func (m *Model) bodySize() (int, int) {
	w := max(10, m.width-BorderSize-2)
	h := max(1, m.height-HeaderLines-FooterLines-BorderSize)
	return w, h
}

// renderScreen frames body with the title, the key hints and the status bar
func (m *Model) renderScreen(title, body, hint string) string {
	w, h := m.bodySize()
	box := styleBox.
		Width(w + 2).
		Height(h).
		Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styleTitle.Render(title),
		"",
		box,
		styleSubtle.Render(truncate(hint, max(10, m.width))),
		m.renderStatusBar(),
	)
}

// renderStatusBar shows the profile and user on the left and the latest
// message on the right
func (m *Model) renderStatusBar() string {
	profile := m.deps.Session.GetActiveProfile()
	left := fmt.Sprintf("Profile: %s", profile.Name)
	if a := m.deps.Session.Auth(); a != nil {
		left += " | " + a.User.DisplayName()
	}
	if m.sub != nil {
		left += " | " + styleSuccess.Render("live")
	}

	var right string
	switch {
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	case m.loading:
		right = styleWarning.Render("Loading...")
	}

	spacing := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacing) + right
}

func (m *Model) hint(c keybinds.Context, actions ...keybinds.Action) string {
	return m.keys.Hint(c, actions...)
}

func (m *Model) renderProjects() string {
	_, h := m.bodySize()
	body := renderList(m.projects, h, nil)
	if m.snapshot != nil && len(m.snapshot.Projects) == 0 {
		body = styleSubtle.Render("No projects yet")
	}
	return m.renderScreen(
		fmt.Sprintf("Projects (%d)", len(m.projects.Items())),
		m.withFilter(m.projects, body),
		m.listHint(keybinds.ContextProjects, keybinds.ActionEditContent, keybinds.ActionOpenAreas),
	)
}

func (m *Model) renderAreas() string {
	_, h := m.bodySize()
	body := renderList(m.areas, h, nil)
	if m.snapshot != nil && len(m.snapshot.Areas) == 0 {
		body = styleSubtle.Render("No areas yet")
	}
	return m.renderScreen(
		fmt.Sprintf("Areas (%d)", len(m.areas.Items())),
		m.withFilter(m.areas, body),
		m.listHint(keybinds.ContextAreas, keybinds.ActionNextCategory, keybinds.ActionOpenProjects),
	)
}

func (m *Model) listHint(c keybinds.Context, extra ...keybinds.Action) string {
	if m.keyContext() == keybinds.ContextFilter {
		return m.hint(keybinds.ContextFilter, keybinds.ActionSubmit, keybinds.ActionCancel)
	}
	actions := append([]keybinds.Action{
		keybinds.ActionOpen,
		keybinds.ActionCreate,
		keybinds.ActionDelete,
		keybinds.ActionFilter,
	}, extra...)
	actions = append(actions, keybinds.ActionOpenHelp, keybinds.ActionQuit)
	return m.hint(c, actions...)
}

// withFilter puts the filter query above a list while it is set
func (m *Model) withFilter(list *ListState, body string) string {
	q := list.Query()
	if q.Text == "" && !list.Filtering() {
		return body
	}
	line := "/ " + q.Text
	if list.Filtering() {
		line = "/ " + renderInput(q.Text, q.End, true, false)
	}
	return styleWarning.Render(line) + "\n" + body
}

// renderList draws the visible rows of a list. Group headings are printed
// when the group changes. checked, when set, prefixes a checkbox.
func renderList(list *ListState, height int, checked func(id int64) bool) string {
	rows := list.Visible()
	if len(rows) == 0 {
		if list.Query().Text != "" {
			return styleSubtle.Render("No match")
		}
		return ""
	}

	offset := list.Scroll(max(1, height-1))
	selected := list.Index()
	var b strings.Builder
	lines := 0
	group := "\x00"
	for i := offset; i < len(rows) && lines < height; i++ {
		row := rows[i]
		if row.Group != group {
			group = row.Group
			if group != "" || i > offset {
				b.WriteString(styleGroup.Render(fallback(group, "Uncategorized")) + "\n")
				lines++
			}
		}

		prefix := "  "
		if checked != nil {
			if checked(row.ID) {
				prefix = "[x] "
			} else {
				prefix = "[ ] "
			}
		}
		label := highlight(row.Label, list.Matches(i))
		line := prefix + label
		if row.Detail != "" {
			line += "  " + styleSubtle.Render(row.Detail)
		}
		if i == selected {
			line = styleSelected.Render("> " + strings.TrimPrefix(prefix, "  ") + label + detailSuffix(row.Detail))
		}
		b.WriteString(line + "\n")
		lines++
	}
	return strings.TrimRight(b.String(), "\n")
}

func detailSuffix(d string) string {
	if d == "" {
		return ""
	}
	return "  " + d
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// highlight emphasizes the matched byte offsets of label
func highlight(label string, matches []int) string {
	if len(matches) == 0 {
		return label
	}
	hit := make(map[int]bool, len(matches))
	for _, i := range matches {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range label {
		if hit[i] {
			b.WriteString(styleMatch.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderInput draws a single line value with the cursor at the rune offset
// pos. masked hides the characters.
func renderInput(value string, pos int, focused, masked bool) string {
	if masked {
		value = strings.Repeat("*", textedit.Len(value))
	}
	if !focused {
		return value
	}
	r := []rune(value)
	pos = max(0, min(pos, len(r)))
	if pos == len(r) {
		return string(r) + styleCursor.Render(" ")
	}
	return string(r[:pos]) + styleCursor.Render(string(r[pos])) + string(r[pos+1:])
}

// renderFields draws the inputs of a form with their dirty markers
func renderFields[T any](form *FormState[T], masked map[record.Field]bool) string {
	rec := form.Record()
	focused := form.Focused()
	var b strings.Builder
	for _, f := range rec.Fields() {
		label, ok := forms.Labels[f]
		if !ok {
			label = strings.ToUpper(string(f[:1])) + string(f[1:])
		}
		marker := "  "
		if rec.IsDirty(f) {
			marker = styleWarning.Render("● ")
		}

		value := rec.Get(f)
		var input string
		if choices := form.Choices(f); choices != nil {
			input = fmt.Sprintf("< %s >", fallback(value, "none"))
			if f == focused {
				input = styleSelected.Render(input)
			}
		} else {
			input = renderInput(value, form.Cursor(f), f == focused, masked[f])
		}

		name := fmt.Sprintf("%-*s", FormLabelWidth, label)
		if f == focused {
			name = styleTitle.Render(name)
		}
		b.WriteString(marker + name + input + "\n")
	}
	return b.String()
}

// formFooter lists the dirty fields and the save state
func formFooter(rec interface {
	Dirty() []record.Field
	Pending() bool
	IsNew() bool
}) string {
	switch {
	case rec.Pending():
		return styleWarning.Render("Saving...")
	case len(rec.Dirty()) > 0:
		names := make([]string, 0, len(rec.Dirty()))
		for _, f := range rec.Dirty() {
			names = append(names, strings.ToLower(forms.Labels[f]))
		}
		return styleWarning.Render("Unsaved: " + strings.Join(names, ", "))
	case rec.IsNew():
		return styleSubtle.Render("New record")
	}
	return styleSubtle.Render("No changes")
}

func (m *Model) renderProjectForm() string {
	form := m.projectForm
	title := "New project"
	if !form.Record().IsNew() {
		title = "Project: " + form.Record().Initial().Title
	}

	body := renderFields(form, nil)
	if !form.Record().IsNew() && m.snapshot != nil {
		var names []string
		for _, id := range catalog.AreaIDs(m.snapshot.Links, form.Record().Initial().ID) {
			if a, ok := m.findArea(id); ok {
				names = append(names, a.Title)
			}
		}
		body += "\n" + styleSubtle.Render("Areas: "+fallback(strings.Join(names, ", "), "none")) + "\n"
	}
	body += "\n" + formFooter(form.Record())

	return m.renderScreen(title, body, m.hint(keybinds.ContextForm,
		keybinds.ActionNextField,
		keybinds.ActionSave,
		keybinds.ActionRevertField,
		keybinds.ActionPickAreas,
		keybinds.ActionCancel,
	))
}

func (m *Model) renderAreaForm() string {
	form := m.areaForm
	title := "New area"
	if !form.Record().IsNew() {
		title = "Area: " + form.Record().Initial().Title
	}
	body := renderFields(form, nil) + "\n" + formFooter(form.Record())
	return m.renderScreen(title, body, m.hint(keybinds.ContextForm,
		keybinds.ActionNextField,
		keybinds.ActionSave,
		keybinds.ActionRevertField,
		keybinds.ActionCancel,
	))
}

func (m *Model) renderPicker() string {
	p := m.picker
	_, h := m.bodySize()
	title := "Areas"
	if proj, ok := m.findProject(p.ProjectID()); ok {
		title = "Areas of " + proj.Title
	}
	body := renderList(p.List(), h, p.IsSelected)
	if len(p.List().Items()) == 0 {
		body = styleSubtle.Render("No areas yet")
	}
	return m.renderScreen(
		fmt.Sprintf("%s (%d selected)", title, len(p.Selected())),
		body,
		m.hint(keybinds.ContextPicker, keybinds.ActionToggle, keybinds.ActionSubmit, keybinds.ActionCancel),
	)
}

func (m *Model) renderEditor() string {
	e := m.editor
	w, h := m.bodySize()
	textHeight := max(1, h-1)

	var body string
	if e.Preview() {
		body = m.renderPreview(w, textHeight)
	} else {
		body = renderText(e.Buffer(), e.Cursor(), e.Scroll(textHeight), textHeight)
	}

	status := e.Metrics().String()
	if warnings := e.Warnings(); len(warnings) > 0 {
		status += "  " + styleWarning.Render(strings.Join(warnings, ", "))
	}
	body = lipgloss.PlaceVertical(textHeight, lipgloss.Top, body) + "\n" + formFooter(e.Record()) + "  " + styleSubtle.Render(status)

	title := "Content: " + e.Project().Title
	if e.Preview() {
		title += " (preview)"
	}
	return m.renderScreen(title, body, m.hint(keybinds.ContextEditor,
		keybinds.ActionSave,
		keybinds.ActionTogglePreview,
		keybinds.ActionInsertTemplate,
		keybinds.Format("bold"),
		keybinds.Format("italic"),
		keybinds.Format("link"),
		keybinds.ActionCopy,
		keybinds.ActionCancel,
	))
}

// renderPreview renders the markdown with glamour, caching the output
func (m *Model) renderPreview(width, height int) string {
	text := m.editor.Text()
	if m.preview.text != text || m.preview.width != width || m.preview.out == "" {
		out, err := markdown.Render(text, width)
		if err != nil {
			return styleError.Render(err.Error())
		}
		m.preview = previewCache{text: text, width: width, out: out}
	}

	lines := strings.Split(m.preview.out, "\n")
	offset := m.editor.PreviewOffset(len(lines), height)
	end := min(len(lines), offset+height)
	return strings.Join(lines[offset:end], "\n")
}

// previewCache holds the last rendered preview
type previewCache struct {
	text  string
	width int
	out   string
}

// renderText draws the editor buffer with the selection and the caret
func renderText(b textedit.Buffer, cursor, scroll, height int) string {
	lines := strings.Split(b.Text, "\n")
	pos := 0
	for i := 0; i < scroll && i < len(lines); i++ {
		pos += textedit.Len(lines[i]) + 1
	}

	var out strings.Builder
	for i := scroll; i < len(lines) && i < scroll+height; i++ {
		var seg strings.Builder
		selected := false
		emit := func() {
			if seg.Len() == 0 {
				return
			}
			if selected {
				out.WriteString(styleSelection.Render(seg.String()))
			} else {
				out.WriteString(seg.String())
			}
			seg.Reset()
		}

		for _, r := range lines[i] {
			glyph := string(r)
			if r == '\t' {
				glyph = "    "
			}
			if pos == cursor {
				emit()
				out.WriteString(styleCursor.Render(glyph))
				pos++
				continue
			}
			if in := pos >= b.Start && pos < b.End; in != selected {
				emit()
				selected = in
			}
			seg.WriteString(glyph)
			pos++
		}
		emit()
		if pos == cursor {
			out.WriteString(styleCursor.Render(" "))
		}
		pos++ // newline
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

func (m *Model) renderTemplates() string {
	_, h := m.bodySize()
	return m.renderScreen("Insert template", renderList(m.templates, h, nil),
		m.hint(keybinds.ContextPicker, keybinds.ActionSubmit, keybinds.ActionCancel))
}

// renderModal centers content over the screen
func (m *Model) renderModal(title, content, hint string) string {
	box := styleModal.
		Width(max(20, min(m.width-ModalWidthMargin, 80))).
		Render(styleTitle.Render(title) + "\n\n" + content + "\n\n" + styleSubtle.Render(hint))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderConfirm() string {
	prompt := ""
	if m.confirm != nil {
		prompt = m.confirm.prompt
	}
	return m.renderModal("Confirm", prompt,
		m.hint(keybinds.ContextConfirm, keybinds.ActionConfirm, keybinds.ActionDeny))
}

func (m *Model) renderViewer() string {
	return m.renderModal(m.viewerTitle, m.viewer.View(),
		m.hint(keybinds.ContextViewer, keybinds.ActionNavigateUp, keybinds.ActionNavigateDown, keybinds.ActionClose))
}

func (m *Model) renderProfiles() string {
	active := m.deps.Session.GetActiveProfile().Name
	var b strings.Builder
	selected := m.profiles.Index()
	for i, item := range m.profiles.Visible() {
		marker := "  "
		if item.Label == active {
			marker = styleSuccess.Render("* ")
		}
		line := marker + item.Label + "  " + styleSubtle.Render(item.Detail)
		if i == selected {
			line = styleSelected.Render("> " + item.Label + "  " + item.Detail)
		}
		b.WriteString(line + "\n")
	}
	return m.renderModal("Profiles", strings.TrimRight(b.String(), "\n"),
		m.hint(keybinds.ContextProfiles, keybinds.ActionProfileSwitch, keybinds.ActionClose))
}

func (m *Model) renderLogin() string {
	content := ""
	if m.login != nil {
		content = renderFields(m.login.form, map[record.Field]bool{fieldPassword: true})
		if m.login.pending {
			content += "\n" + styleWarning.Render("Signing in...")
		}
	}
	if m.errorMsg != "" {
		content += "\n" + styleError.Render(m.errorMsg)
	}
	return m.renderModal("Sign in", content,
		m.hint(keybinds.ContextLogin, keybinds.ActionNextField, keybinds.ActionSubmit, keybinds.ActionCancel))
}
