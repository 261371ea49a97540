// Package markdown implements the editor toolbar actions, templates, metrics
// and terminal preview for project content.
package markdown

import "fmt"

// Action is a toolbar action applied to the editor buffer.
type Action int

const (
	ActionBold Action = iota
	ActionItalic
	ActionStrikethrough
	ActionCode
	ActionHeading1
	ActionHeading2
	ActionHeading3
	ActionQuote
	ActionBulletList
	ActionNumberedList
	ActionTodoList
	ActionLink
	ActionImage
	ActionRule
	ActionCodeBlock
	ActionTable
)

// Actions lists the toolbar actions in display order.
var Actions = []Action{
	ActionBold,
	ActionItalic,
	ActionStrikethrough,
	ActionCode,
	ActionHeading1,
	ActionHeading2,
	ActionHeading3,
	ActionQuote,
	ActionBulletList,
	ActionNumberedList,
	ActionTodoList,
	ActionLink,
	ActionImage,
	ActionRule,
	ActionCodeBlock,
	ActionTable,
}

var actionNames = map[Action]string{
	ActionBold:          "bold",
	ActionItalic:        "italic",
	ActionStrikethrough: "strikethrough",
	ActionCode:          "code",
	ActionHeading1:      "h1",
	ActionHeading2:      "h2",
	ActionHeading3:      "h3",
	ActionQuote:         "quote",
	ActionBulletList:    "bullet",
	ActionNumberedList:  "numbered",
	ActionTodoList:      "todo",
	ActionLink:          "link",
	ActionImage:         "image",
	ActionRule:          "rule",
	ActionCodeBlock:     "codeblock",
	ActionTable:         "table",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown markdown action %q", name)
}

type wrap struct {
	prefix      string
	suffix      string
	placeholder string
}

var wraps = map[Action]wrap{
	ActionBold:          {"**", "**", "bold text"},
	ActionItalic:        {"*", "*", "italic text"},
	ActionStrikethrough: {"~~", "~~", "strikethrough text"},
	ActionCode:          {"`", "`", "code"},
	ActionLink:          {"[", "](url)", "link text"},
	ActionImage:         {"![", "](url)", "alt text"},
}

var linePrefixes = map[Action]string{
	ActionHeading1:     "# ",
	ActionHeading2:     "## ",
	ActionHeading3:     "### ",
	ActionQuote:        "> ",
	ActionBulletList:   "- ",
	ActionNumberedList: "1. ",
	ActionTodoList:     "- [ ] ",
}

var blocks = map[Action]string{
	ActionRule:  "horizontal_rule",
	ActionTable: "table",
}
