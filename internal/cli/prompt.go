package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	detailStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// ErrCancelled is returned when a prompt is dismissed
var ErrCancelled = errors.New("cancelled")

// Option is one entry of an interactive selection
type Option struct {
	Value  string
	Detail string
	Active bool
}

func (o Option) FilterValue() string {
	return o.Value + " " + o.Detail
}

func (o Option) title() string {
	title := o.Value
	if o.Active {
		title += " [active]"
	}
	return title
}

type selectorModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = ""
			return m, tea.Quit

		case "enter":
			if o, ok := m.list.SelectedItem().(Option); ok {
				m.choice = o.Value
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}
	help := helpStyle.Render("↑/↓: navigate • /: filter • enter: select • q/esc: cancel")
	return fmt.Sprintf("%s\n%s", m.list.View(), help)
}

// selectOption shows an interactive list and returns the picked value
func selectOption(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to select")
	}
	if !isInteractive() {
		return "", fmt.Errorf("%w: %s requires a terminal, pass the value as an argument", errUsage, strings.ToLower(title))
	}

	items := make([]list.Item, len(options))
	active := 0
	for i, o := range options {
		items[i] = o
		if o.Active {
			active = i
		}
	}

	const defaultWidth = 80
	const listHeight = 14

	l := list.New(items, optionDelegate{}, defaultWidth, listHeight)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Select(active)

	final, err := tea.NewProgram(selectorModel{list: l}).Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}
	result := final.(selectorModel)
	if result.choice == "" {
		return "", ErrCancelled
	}
	return result.choice, nil
}

// optionDelegate draws one option per line
type optionDelegate struct{}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d optionDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	o, ok := listItem.(Option)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, o.title())
	if o.Detail != "" {
		str += " " + detailStyle.Render(o.Detail)
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}
	fmt.Fprint(w, fn(str))
}

type secretModel struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func (m secretModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m secretModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m secretModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return m.input.View() + "\n"
}

// promptSecret asks for a value without echoing it. Piped input is read
// as one line.
func promptSecret(label string) (string, error) {
	if !isInteractive() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	ti := textinput.New()
	ti.Prompt = label + ": "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()

	final, err := tea.NewProgram(secretModel{input: ti}).Run()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	result := final.(secretModel)
	if result.cancelled {
		return "", ErrCancelled
	}
	return result.input.Value(), nil
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Confirm asks a yes/no question; anything but y or yes is a no
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
