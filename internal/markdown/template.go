package markdown

import "sort"

var templates = map[string]string{
	"header1":         "# ",
	"header2":         "## ",
	"header3":         "### ",
	"header4":         "#### ",
	"header5":         "##### ",
	"header6":         "###### ",
	"bold":            "**text**",
	"italic":          "*text*",
	"strikethrough":   "~~text~~",
	"code":            "`code`",
	"code_block":      "```\ncode\n```",
	"bullet_list":     "- ",
	"numbered_list":   "1. ",
	"todo_list":       "- [ ] ",
	"quote":           "> ",
	"horizontal_rule": "---",
	"link":            "[text](url)",
	"image":           "![alt](url)",
	"table":           "| Header 1 | Header 2 |\n|----------|----------|\n| Cell 1   | Cell 2   |",
	"math":            "$$ math $$",
	"mermaid":         "```mermaid\ngraph TD;\n    A-->B;\n    A-->C;\n    B-->D;\n    C-->D;\n```",
}

// Template returns the markdown snippet for a named element, or "" when the
// name is unknown.
func Template(name string) string {
	return templates[name]
}

// TemplateNames returns the known template names sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
