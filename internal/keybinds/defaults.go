package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerViewerBindings(r)
	registerListBindings(r, ContextProjects)
	registerListBindings(r, ContextAreas)
	registerProjectBindings(r)
	registerAreaBindings(r)
	registerFormBindings(r)
	registerPickerBindings(r)
	registerEditorBindings(r)
	registerFilterBindings(r)
	registerConfirmBindings(r)
	registerProfileBindings(r)
	registerLoginBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerViewerBindings sets up scrolling for preview, help and history
func registerViewerBindings(r *Registry) {
	r.RegisterMultiple(ContextViewer, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextViewer, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextViewer, "pgup", ActionPageUp)
	r.Register(ContextViewer, "pgdown", ActionPageDown)
	r.Register(ContextViewer, "g", ActionGoToTopPrepare)
	r.Register(ContextViewer, "gg", ActionGoToTop)
	r.Register(ContextViewer, "G", ActionGoToBottom)
	r.RegisterMultiple(ContextViewer, []string{"esc", "q"}, ActionClose)
}

// registerListBindings sets up the bindings shared by record lists
func registerListBindings(r *Registry, c Context) {
	r.Register(c, "q", ActionQuit)
	r.RegisterMultiple(c, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(c, []string{"down", "j"}, ActionNavigateDown)
	r.Register(c, "pgup", ActionPageUp)
	r.Register(c, "pgdown", ActionPageDown)
	r.Register(c, "g", ActionGoToTopPrepare)
	r.Register(c, "gg", ActionGoToTop)
	r.Register(c, "G", ActionGoToBottom)
	r.Register(c, "enter", ActionOpen)
	r.Register(c, "n", ActionCreate)
	r.Register(c, "d", ActionDelete)
	r.Register(c, "r", ActionRefresh)
	r.Register(c, "/", ActionFilter)
	r.Register(c, "y", ActionCopy)
	r.Register(c, "H", ActionOpenHistory)
	r.Register(c, "p", ActionOpenProfiles)
	r.Register(c, "L", ActionOpenLogin)
	r.Register(c, "O", ActionLogout)
	r.Register(c, "?", ActionOpenHelp)
}

func registerProjectBindings(r *Registry) {
	r.Register(ContextProjects, "c", ActionEditContent)
	r.RegisterMultiple(ContextProjects, []string{"a", "tab"}, ActionOpenAreas)
}

func registerAreaBindings(r *Registry) {
	r.RegisterMultiple(ContextAreas, []string{"esc", "tab"}, ActionOpenProjects)
	r.Register(ContextAreas, "]", ActionNextCategory)
}

// registerFormBindings sets up the record form. Printable keys go to the
// focused input so only control keys are bound.
func registerFormBindings(r *Registry) {
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextForm, "ctrl+s", ActionSave)
	r.Register(ContextForm, "ctrl+r", ActionRevertField)
	r.Register(ContextForm, "ctrl+l", ActionPickAreas)
	r.Register(ContextForm, "esc", ActionCancel)
}

func registerPickerBindings(r *Registry) {
	r.RegisterMultiple(ContextPicker, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextPicker, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextPicker, []string{"space", "x"}, ActionToggle)
	r.Register(ContextPicker, "enter", ActionSubmit)
	r.Register(ContextPicker, "esc", ActionCancel)
}

// registerEditorBindings sets up the content editor and its toolbar
func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "ctrl+s", ActionSave)
	r.Register(ContextEditor, "esc", ActionCancel)
	r.Register(ContextEditor, "ctrl+p", ActionTogglePreview)
	r.Register(ContextEditor, "ctrl+t", ActionInsertTemplate)
	r.Register(ContextEditor, "ctrl+a", ActionSelectAll)
	r.Register(ContextEditor, "ctrl+y", ActionCopy)
	r.Register(ContextEditor, "shift+left", ActionSelectLeft)
	r.Register(ContextEditor, "shift+right", ActionSelectRight)
	r.Register(ContextEditor, "shift+up", ActionSelectUp)
	r.Register(ContextEditor, "shift+down", ActionSelectDown)

	r.Register(ContextEditor, "alt+b", Format("bold"))
	r.Register(ContextEditor, "alt+i", Format("italic"))
	r.Register(ContextEditor, "alt+s", Format("strikethrough"))
	r.Register(ContextEditor, "alt+c", Format("code"))
	r.Register(ContextEditor, "alt+1", Format("h1"))
	r.Register(ContextEditor, "alt+2", Format("h2"))
	r.Register(ContextEditor, "alt+3", Format("h3"))
	r.Register(ContextEditor, "alt+q", Format("quote"))
	r.Register(ContextEditor, "alt+l", Format("bullet"))
	r.Register(ContextEditor, "alt+o", Format("numbered"))
	r.Register(ContextEditor, "alt+t", Format("todo"))
	r.Register(ContextEditor, "alt+k", Format("link"))
	r.Register(ContextEditor, "alt+m", Format("image"))
	r.Register(ContextEditor, "alt+r", Format("rule"))
	r.Register(ContextEditor, "alt+x", Format("codeblock"))
	r.Register(ContextEditor, "alt+g", Format("table"))
}

func registerFilterBindings(r *Registry) {
	r.Register(ContextFilter, "enter", ActionSubmit)
	r.Register(ContextFilter, "esc", ActionCancel)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionDeny)
}

func registerProfileBindings(r *Registry) {
	r.RegisterMultiple(ContextProfiles, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextProfiles, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextProfiles, "enter", ActionProfileSwitch)
	r.RegisterMultiple(ContextProfiles, []string{"esc", "q"}, ActionClose)
}

func registerLoginBindings(r *Registry) {
	r.RegisterMultiple(ContextLogin, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextLogin, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextLogin, "enter", ActionSubmit)
	r.Register(ContextLogin, "esc", ActionCancel)
}
