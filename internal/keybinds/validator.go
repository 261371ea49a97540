package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "Errors (%d):\n", len(r.Errors))
		for _, err := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", err.Error())
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings (%d):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warn.Error())
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

func (r *ValidationResult) add(kind string, context Context, key, msg string) {
	e := ValidationError{Type: kind, Context: context, Key: key, Message: msg}
	if kind == "warning" {
		r.Warnings = append(r.Warnings, e)
		return
	}
	r.Errors = append(r.Errors, e)
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuitForce,
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{}

	for _, context := range sortedContexts(registry) {
		bindings := registry.bindings[context]
		if !IsKnownContext(context) {
			result.add("invalid", context, "", "unknown context")
		}
		for _, key := range sortedKeys(bindings) {
			action := bindings[key]
			if !IsKnownAction(action) {
				result.add("invalid", context, key, fmt.Sprintf("unknown action %q", action))
			}
			if want, reserved := v.reservedKeys[key]; reserved && context == ContextGlobal && action != want {
				result.add("warning", context, key, "reserved key rebound (may cause issues)")
			}
			if context != ContextGlobal {
				if global, ok := registry.bindings[ContextGlobal][key]; ok && global != action {
					result.add("warning", context, key, fmt.Sprintf("shadows global binding (%s -> %s)", global, action))
				}
			}
			if isSequence(key) {
				if first, ok := bindings[key[:1]]; ok && first != ActionGoToTopPrepare {
					result.add("warning", context, key, fmt.Sprintf("unreachable: %q is bound to %s", key[:1], first))
				}
			}
		}
	}

	return result
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}

	for context, actions := range config.Contexts {
		if !IsKnownContext(context) {
			result.add("invalid", context, "", "unknown context")
			continue
		}

		seen := make(map[string]Action)
		for action, keys := range actions {
			if err := ValidateAction(action); err != nil {
				result.add("invalid", context, keys, err.Error())
				continue
			}
			split := SplitKeys(keys)
			if len(split) == 0 {
				result.add("invalid", context, "", fmt.Sprintf("no keys for %s", action))
			}
			for _, key := range split {
				if err := ValidateKey(key); err != nil {
					result.add("invalid", context, key, err.Error())
					continue
				}
				if other, dup := seen[key]; dup {
					result.add("conflict", context, key, fmt.Sprintf("bound to both %s and %s", other, action))
					continue
				}
				seen[key] = action
			}
		}
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Error() < result.Errors[j].Error()
	})
	return result
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	var conflicts []string
	for _, err := range NewValidator().ValidateConfig(config).Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}
	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	for _, mod := range []string{"ctrl+", "alt+", "shift+", "super+"} {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action is known
func ValidateAction(action Action) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(action) {
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// isSequence reports whether the key is a multi-key sequence like "gg"
// rather than a named key or modifier combo
func isSequence(key string) bool {
	return len(key) == 2 && key[0] == key[1]
}

func sortedContexts(r *Registry) []Context {
	contexts := make([]Context, 0, len(r.bindings))
	for c := range r.bindings {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}

func sortedKeys(bindings map[string]Action) []string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
