/*
Package tui implements the terminal editor of the catalog.

# Screens

The editor opens on the project list. From there the area list, the
project and area forms, the area picker of a project and the markdown
content editor are reachable. Modals cover confirmation, help, the write
history, profile switching and sign in.

# State

Every screen keeps its state in a small holder guarded by a mutex
(ListState, FormState, EditorState, PickerState). Forms edit a
record.Record so the dirty marker of a field is always derived from the
snapshot. Saves run as tea.Cmds and come back as messages carrying the
record ticket. A reply for an outdated ticket is dropped so the newest
save wins.

# Keys

Keys are resolved through a keybinds.Registry using the context of the
current mode. Keys that match nothing are typed into the focused input.

# Live updates

When the active profile enables realtime, the model subscribes to the
catalog tables and reloads the lists on every change made elsewhere.
*/
package tui
