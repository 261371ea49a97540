package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/types"
)

// Manager handles session and profile management
type Manager struct {
	mu       sync.RWMutex
	session  *types.Session
	profiles []types.Profile
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		session:  &types.Session{},
		profiles: []types.Profile{},
	}
}

func defaultProfile() types.Profile {
	return types.Profile{
		Name:    "Default",
		URL:     config.DefaultURL,
		Headers: make(map[string]string),
	}
}

// Load loads session and profiles from disk
func (m *Manager) Load() error {
	// Load session
	if err := m.LoadSession(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	// Load profiles
	if err := m.LoadProfiles(); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	return nil
}

// LoadSession loads the session file
func (m *Manager) LoadSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(config.GetSessionFilePath())
	if err != nil {
		// If file doesn't exist, use default session
		enabled := true
		m.session = &types.Session{HistoryEnabled: &enabled}
		return nil
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.HistoryEnabled == nil {
		enabled := true
		session.HistoryEnabled = &enabled
	}

	m.session = &session
	return nil
}

// SaveSession saves the session to disk
func (m *Manager) SaveSession() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveSession()
}

func (m *Manager) saveSession() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// The session holds access and refresh tokens.
	if err := os.WriteFile(config.GetSessionFilePath(), data, config.SecretPermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadProfiles loads the profiles file
func (m *Manager) LoadProfiles() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(config.GetProfilesFilePath())
	if err != nil {
		// If file doesn't exist, create default profile
		m.profiles = []types.Profile{defaultProfile()}
		return nil
	}

	var profiles []types.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles file: %w", err)
	}

	// Ensure all profiles have initialized maps
	for i := range profiles {
		if profiles[i].Headers == nil {
			profiles[i].Headers = make(map[string]string)
		}
	}

	m.profiles = profiles
	return nil
}

// SaveProfiles saves the profiles to disk
func (m *Manager) SaveProfiles() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveProfiles()
}

func (m *Manager) saveProfiles() error {
	data, err := json.MarshalIndent(m.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(config.GetProfilesFilePath(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}

	return nil
}

// GetSession returns a copy of the current session
func (m *Manager) GetSession() types.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.session
}

// GetProfiles returns all profiles
func (m *Manager) GetProfiles() []types.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}

// GetActiveProfile returns the currently active profile
func (m *Manager) GetActiveProfile() *types.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Find profile by name
	for i := range m.profiles {
		if m.profiles[i].Name == m.session.ActiveProfile {
			p := m.profiles[i]
			return &p
		}
	}

	// If not found, return first profile
	if len(m.profiles) > 0 {
		p := m.profiles[0]
		return &p
	}

	p := defaultProfile()
	return &p
}

// SetActiveProfile sets the active profile by name
func (m *Manager) SetActiveProfile(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, profile := range m.profiles {
		if profile.Name == name {
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("profile not found: %s", name)
	}

	// Tokens belong to the backend of the previous profile
	if m.session.ActiveProfile != name {
		m.session.Auth = nil
		m.session.Local = nil
	}

	m.session.ActiveProfile = name
	return m.saveSession()
}

// AddProfile adds a new profile
func (m *Manager) AddProfile(profile types.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check for duplicate name
	for _, p := range m.profiles {
		if p.Name == profile.Name {
			return fmt.Errorf("profile already exists: %s", profile.Name)
		}
	}

	m.profiles = append(m.profiles, profile)
	return m.saveProfiles()
}

// UpdateProfile updates an existing profile
func (m *Manager) UpdateProfile(name string, profile types.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.profiles {
		if m.profiles[i].Name == name {
			// Preserve the name if it wasn't changed
			if profile.Name == "" {
				profile.Name = name
			}
			m.profiles[i] = profile
			return m.saveProfiles()
		}
	}

	return fmt.Errorf("profile not found: %s", name)
}

// DeleteProfile deletes a profile by name
func (m *Manager) DeleteProfile(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.profiles {
		if m.profiles[i].Name == name {
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return m.saveProfiles()
		}
	}

	return fmt.Errorf("profile not found: %s", name)
}

// Auth returns the stored sign-in session, or nil when signed out
func (m *Manager) Auth() *types.AuthSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.Auth == nil {
		return nil
	}
	a := *m.session.Auth
	return &a
}

// SetAuth stores a sign-in session and persists it
func (m *Manager) SetAuth(a *types.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a == nil {
		m.session.Auth = nil
	} else {
		stored := *a
		m.session.Auth = &stored
	}
	return m.saveSession()
}

// Local returns the pending sign-up session, or nil
func (m *Manager) Local() *types.LocalSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.Local == nil {
		return nil
	}
	l := *m.session.Local
	return &l
}

// SetLocal stores a sign-up session that has no tokens yet
func (m *Manager) SetLocal(l *types.LocalSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Local = l
	return m.saveSession()
}

// ClearAuth removes every stored session
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Auth = nil
	m.session.Local = nil
	return m.saveSession()
}

// IsHistoryEnabled returns whether history tracking is enabled
func (m *Manager) IsHistoryEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.HistoryEnabled == nil {
		return true
	}
	return *m.session.HistoryEnabled
}

// SetHistoryEnabled sets whether history tracking is enabled
func (m *Manager) SetHistoryEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.HistoryEnabled = &enabled
	return m.saveSession()
}
