package keybinds

import (
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// pending tracks multi-key sequences (like 'gg' in vim)
	pending map[Context]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]Action),
		pending:  make(map[Context]string),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unbind removes every key bound to the action in the context
func (r *Registry) Unbind(context Context, action Action) {
	for key, act := range r.bindings[context] {
		if act == action {
			delete(r.bindings[context], key)
		}
	}
}

// Match attempts to match a key to an action in the given context.
// The specific context is checked before the global one.
func (r *Registry) Match(context Context, key string) (Action, bool) {
	if action, ok := r.bindings[context][key]; ok {
		return action, true
	}
	if action, ok := r.bindings[ContextGlobal][key]; ok {
		return action, true
	}
	return "", false
}

// MatchMultiKey handles multi-key sequences like 'gg' for go-to-top.
// It returns the action, whether it is a complete match and whether the key
// started a sequence.
func (r *Registry) MatchMultiKey(context Context, key string) (Action, bool, bool) {
	if prev, ok := r.pending[context]; ok {
		delete(r.pending, context)
		if action, ok := r.Match(context, prev+key); ok {
			return action, true, false
		}
		return "", false, false
	}

	if action, ok := r.Match(context, key); ok && action == ActionGoToTopPrepare {
		r.pending[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// ClearMultiKeyState clears any pending multi-key state for a context
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.pending, context)
}

// GetBinding returns the keys bound to an action in a context, sorted.
// Global keys are returned when the context binds none.
func (r *Registry) GetBinding(context Context, action Action) []string {
	keys := keysFor(r.bindings[context], action)
	if len(keys) == 0 {
		keys = keysFor(r.bindings[ContextGlobal], action)
	}
	return keys
}

func keysFor(bindings map[string]Action, action Action) []string {
	var keys []string
	for key, act := range bindings {
		if act == action {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, "/")
}

// ListBindings returns all bindings of a context followed by the global
// ones, ordered by action then key
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding
	for _, c := range []Context{context, ContextGlobal} {
		var part []Binding
		for key, action := range r.bindings[c] {
			part = append(part, Binding{Key: key, Action: action, Context: c})
		}
		sort.Slice(part, func(i, j int) bool {
			if part[i].Action != part[j].Action {
				return part[i].Action < part[j].Action
			}
			return part[i].Key < part[j].Key
		})
		bindings = append(bindings, part...)
		if context == ContextGlobal {
			break
		}
	}
	return bindings
}

// Hint renders "key action" pairs for a status bar
func (r *Registry) Hint(context Context, actions ...Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		keys := r.GetBinding(context, a)
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, keys[0]+" "+strings.ToLower(GetActionInfo(a).Description))
	}
	return strings.Join(parts, " • ")
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	clone.Merge(r)
	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
}
