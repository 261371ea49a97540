/*
Package keybinds provides customizable keyboard binding management.

# Contexts

Every screen of the editor has a context (projects, areas, form, picker,
editor, filter, confirm, viewer, profiles, login). A key is looked up in the
screen's context first, then in the global context.

# Actions

Actions are string constants. Editor toolbar actions share the "format_"
prefix followed by the markdown action name, so "format_bold" applies bold
and "format_h2" prefixes the line with a level 2 heading.

# Configuration File Format

Bindings live in keybinds.jsonc in the config directory. Each entry replaces
the default keys of one action in one context:

	{
	  "version": "1.0",
	  "contexts": {
	    "projects": {
	      "create": "n,ctrl+n", // comments are allowed
	    },
	    "editor": {
	      "format_bold": "ctrl+b",
	    }
	  }
	}

# Multi-Key Sequences

"gg" goes to the top of lists and viewers. The first 'g' is bound to
go_to_top_prepare, which makes the registry wait for the next key.

# Validation

The validator rejects unknown contexts and actions, empty keys and keys bound
twice in one context. It warns about a rebound ctrl+c, bindings that shadow
global ones and sequences that can never be typed.
*/
package keybinds
