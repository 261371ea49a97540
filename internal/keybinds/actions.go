package keybinds

import (
	"sort"
	"strings"
)

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal   Context = "global"   // Available everywhere
	ContextProjects Context = "projects" // Project list
	ContextAreas    Context = "areas"    // Area list
	ContextForm     Context = "form"     // Record form (project, area)
	ContextPicker   Context = "picker"   // Area picker of a project
	ContextEditor   Context = "editor"   // Content editor
	ContextFilter   Context = "filter"   // Fuzzy filter input
	ContextConfirm  Context = "confirm"  // Confirmation dialogs
	ContextViewer   Context = "viewer"   // Scrollable content (preview, help, history)
	ContextProfiles Context = "profiles" // Profile switcher
	ContextLogin    Context = "login"    // Sign-in form
)

// Contexts lists every known context
var Contexts = []Context{
	ContextGlobal, ContextProjects, ContextAreas, ContextForm, ContextPicker,
	ContextEditor, ContextFilter, ContextConfirm, ContextViewer, ContextProfiles,
	ContextLogin,
}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionPageUp         Action = "page_up"           // Move up one page
	ActionPageDown       Action = "page_down"         // Move down one page
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// List actions
	ActionOpen         Action = "open"          // Open the selected record
	ActionCreate       Action = "create"        // Create a record
	ActionDelete       Action = "delete"        // Delete the selected record (with confirm)
	ActionRefresh      Action = "refresh"       // Reload from the backend
	ActionFilter       Action = "filter"        // Start fuzzy filtering
	ActionEditContent  Action = "edit_content"  // Open the content editor of a project
	ActionOpenAreas    Action = "open_areas"    // Open the area list
	ActionOpenProjects Action = "open_projects" // Back to the project list
	ActionOpenHistory  Action = "open_history"  // Open the write history
	ActionOpenProfiles Action = "open_profiles" // Open the profile switcher
	ActionOpenLogin    Action = "open_login"    // Sign in
	ActionLogout       Action = "logout"        // Sign out
	ActionOpenHelp     Action = "open_help"     // Open help viewer
	ActionCopy         Action = "copy"          // Copy the selection to the clipboard
	ActionNextCategory Action = "next_category" // Cycle area categories

	// Form actions
	ActionNextField   Action = "next_field"   // Focus the next field
	ActionPrevField   Action = "prev_field"   // Focus the previous field
	ActionSave        Action = "save"         // Save the record
	ActionRevertField Action = "revert_field" // Restore the focused field
	ActionPickAreas   Action = "pick_areas"   // Open the area picker
	ActionCancel      Action = "cancel"       // Leave without saving

	// Picker actions
	ActionToggle Action = "toggle" // Toggle the selected item
	ActionSubmit Action = "submit" // Apply the selection

	// Editor actions
	ActionTogglePreview  Action = "toggle_preview"  // Toggle the rendered preview
	ActionInsertTemplate Action = "insert_template" // Insert a named template
	ActionSelectLeft     Action = "select_left"     // Extend the selection left
	ActionSelectRight    Action = "select_right"    // Extend the selection right
	ActionSelectUp       Action = "select_up"       // Extend the selection up
	ActionSelectDown     Action = "select_down"     // Extend the selection down
	ActionSelectAll      Action = "select_all"      // Select the whole text

	// Confirm actions
	ActionConfirm Action = "confirm" // Confirm action (y/Y)
	ActionDeny    Action = "deny"    // Deny action (n/N)

	// Viewer actions
	ActionClose Action = "close" // Close the viewer

	// Profile actions
	ActionProfileSwitch Action = "profile_switch" // Switch to profile

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// FormatPrefix marks editor toolbar actions. The remainder is the name of a
// markdown action, e.g. "format_bold".
const FormatPrefix = "format_"

// Format returns the toolbar action for a markdown action name
func Format(name string) Action {
	return Action(FormatPrefix + name)
}

// FormatName returns the markdown action name of a toolbar action
func FormatName(a Action) (string, bool) {
	name, ok := strings.CutPrefix(string(a), FormatPrefix)
	return name, ok && name != ""
}

// formatNames are the toolbar actions the editor knows
var formatNames = []string{
	"bold", "italic", "strikethrough", "code", "h1", "h2", "h3", "quote",
	"bullet", "numbered", "todo", "link", "image", "rule", "codeblock", "table",
}

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:           {ActionQuit, "Quit", "Global"},
	ActionQuitForce:      {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:     {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:   {ActionNavigateDown, "Move down", "Navigation"},
	ActionPageUp:         {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:       {ActionPageDown, "Page down", "Navigation"},
	ActionGoToTop:        {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:     {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionOpen:           {ActionOpen, "Open", "Records"},
	ActionCreate:         {ActionCreate, "New", "Records"},
	ActionDelete:         {ActionDelete, "Delete", "Records"},
	ActionRefresh:        {ActionRefresh, "Reload", "Records"},
	ActionFilter:         {ActionFilter, "Filter", "Records"},
	ActionEditContent:    {ActionEditContent, "Edit content", "Records"},
	ActionOpenAreas:      {ActionOpenAreas, "Areas", "Screens"},
	ActionOpenProjects:   {ActionOpenProjects, "Projects", "Screens"},
	ActionOpenHistory:    {ActionOpenHistory, "History", "Screens"},
	ActionOpenProfiles:   {ActionOpenProfiles, "Profiles", "Screens"},
	ActionOpenLogin:      {ActionOpenLogin, "Sign in", "Account"},
	ActionLogout:         {ActionLogout, "Sign out", "Account"},
	ActionOpenHelp:       {ActionOpenHelp, "Help", "Screens"},
	ActionCopy:           {ActionCopy, "Copy", "Records"},
	ActionNextCategory:   {ActionNextCategory, "Next category", "Records"},
	ActionNextField:      {ActionNextField, "Next field", "Form"},
	ActionPrevField:      {ActionPrevField, "Previous field", "Form"},
	ActionSave:           {ActionSave, "Save", "Form"},
	ActionRevertField:    {ActionRevertField, "Revert field", "Form"},
	ActionPickAreas:      {ActionPickAreas, "Pick areas", "Form"},
	ActionCancel:         {ActionCancel, "Cancel", "Form"},
	ActionToggle:         {ActionToggle, "Toggle", "Picker"},
	ActionSubmit:         {ActionSubmit, "Apply", "Picker"},
	ActionTogglePreview:  {ActionTogglePreview, "Preview", "Editor"},
	ActionInsertTemplate: {ActionInsertTemplate, "Template", "Editor"},
	ActionSelectAll:      {ActionSelectAll, "Select all", "Editor"},
	ActionConfirm:        {ActionConfirm, "Yes", "Confirm"},
	ActionDeny:           {ActionDeny, "No", "Confirm"},
	ActionClose:          {ActionClose, "Close", "Viewer"},
	ActionProfileSwitch:  {ActionProfileSwitch, "Switch profile", "Profiles"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	if name, ok := FormatName(action); ok {
		return ActionInfo{action, strings.ReplaceAll(name, "_", " "), "Format"}
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether the action is handled anywhere
func IsKnownAction(action Action) bool {
	if _, ok := actionInfos[action]; ok {
		return true
	}
	switch action {
	case ActionGoToTopPrepare, ActionSelectLeft, ActionSelectRight, ActionSelectUp, ActionSelectDown, ActionNoOp:
		return true
	}
	if name, ok := FormatName(action); ok {
		i := sort.SearchStrings(sortedFormatNames, name)
		return i < len(sortedFormatNames) && sortedFormatNames[i] == name
	}
	return false
}

var sortedFormatNames = func() []string {
	names := append([]string(nil), formatNames...)
	sort.Strings(names)
	return names
}()

// IsKnownContext reports whether the context exists
func IsKnownContext(c Context) bool {
	for _, known := range Contexts {
		if known == c {
			return true
		}
	}
	return false
}
