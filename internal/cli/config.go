package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/keybinds"
)

// configView is the effective configuration
type configView struct {
	ConfigDir    string   `json:"configDir" yaml:"configDir"`
	ConfigFile   string   `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	SessionFile  string   `json:"sessionFile" yaml:"sessionFile"`
	ProfilesFile string   `json:"profilesFile" yaml:"profilesFile"`
	Database     string   `json:"database" yaml:"database"`
	Profile      string   `json:"profile" yaml:"profile"`
	URL          string   `json:"url" yaml:"url"`
	APIKey       string   `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Timeout      string   `json:"timeout" yaml:"timeout"`
	History      bool     `json:"history" yaml:"history"`
	Profiles     []string `json:"profiles" yaml:"profiles"`
}

// ShowConfig prints the resolved configuration. The API key is masked.
func (e *Env) ShowConfig() error {
	profile := e.Session.GetActiveProfile()
	backend := e.Backend(*profile)

	view := configView{
		ConfigDir:    config.ConfigDir,
		ConfigFile:   config.FindFile(),
		SessionFile:  config.GetSessionFilePath(),
		ProfilesFile: config.GetProfilesFilePath(),
		Database:     config.DatabasePath,
		Profile:      profile.Name,
		URL:          backend.URL,
		APIKey:       maskSecret(backend.APIKey),
		Timeout:      backend.Timeout.String(),
		History:      e.Session.IsHistoryEnabled(),
	}
	for _, p := range e.Session.GetProfiles() {
		view.Profiles = append(view.Profiles, p.Name)
	}

	return e.print(view, func(w io.Writer) error {
		rows := [][]string{
			{"config dir", view.ConfigDir},
			{"config file", orDash(view.ConfigFile)},
			{"session file", view.SessionFile},
			{"profiles file", view.ProfilesFile},
			{"database", view.Database},
			{"profile", view.Profile},
			{"url", view.URL},
			{"api key", orDash(view.APIKey)},
			{"timeout", view.Timeout},
			{"history", fmt.Sprint(view.History)},
			{"profiles", strings.Join(view.Profiles, ", ")},
		}
		return renderTable(w, []string{"SETTING", "VALUE"}, rows)
	})
}

// ExportKeybinds prints every key binding in the format of keybinds.jsonc,
// including the user's overrides
func (e *Env) ExportKeybinds() error {
	registry, err := keybinds.LoadOrDefault(filepath.Join(config.ConfigDir, keybinds.FileName))
	if err != nil {
		return err
	}
	cfg := keybinds.Export(registry)
	return e.print(cfg, func(w io.Writer) error {
		return formatOutput(w, cfg, FormatJSON, nil)
	})
}

// ListProfiles prints the profiles, marking the active one
func (e *Env) ListProfiles() error {
	profiles := e.Session.GetProfiles()
	active := e.Session.GetActiveProfile().Name

	return e.print(profiles, func(w io.Writer) error {
		rows := make([][]string, 0, len(profiles))
		for _, p := range profiles {
			mark := ""
			if p.Name == active {
				mark = "*"
			}
			rows = append(rows, []string{mark, p.Name, e.Backend(p).URL})
		}
		return renderTable(w, []string{"", "NAME", "URL"}, rows)
	})
}

// UseProfile activates a profile. Without a name the profile is picked
// from a list.
func (e *Env) UseProfile(name string) error {
	if name == "" {
		var options []Option
		active := e.Session.GetActiveProfile().Name
		for _, p := range e.Session.GetProfiles() {
			options = append(options, Option{
				Value:  p.Name,
				Detail: e.Backend(p).URL,
				Active: p.Name == active,
			})
		}
		picked, err := selectOption("Select profile", options)
		if err != nil {
			return err
		}
		name = picked
	}

	if err := e.Session.SetActiveProfile(name); err != nil {
		return err
	}
	_, err := fmt.Fprintf(e.Out, "Active profile: %s\n", name)
	return err
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:6] + "..." + s[len(s)-2:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
