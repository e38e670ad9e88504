package profile

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"GETracker/model"
)

// Manager handles the persisted user profile with concurrency safety.
// Every mutation writes the full state back to disk.
type Manager struct {
	mu       sync.Mutex
	state    model.Profile
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, err
	}

	// Initialize if fresh state
	if state.Username == "" {
		state.Username = "Adventurer"
		state.Preferences.ImageType = model.ImageNormal
		state.Preferences.Currency = "gp"
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Profile returns a copy of the current profile.
func (m *Manager) Profile() model.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) SetUsername(username string) {
	if username == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Username = username
	m.saveLogged()
}

func (m *Manager) SetImageType(t model.ImageType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Preferences.ImageType = t
	m.saveLogged()
}

func (m *Manager) SetDarkMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Preferences.DarkMode = enabled
	m.saveLogged()
}

func (m *Manager) SetCurrency(currency string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Preferences.Currency = currency
	m.saveLogged()
}

func (m *Manager) saveLogged() {
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save profile: %v", err)
	}
}

func (m *Manager) save() error {
	m.state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// loadState reads the profile from a JSON file. Returns a zero profile
// if the file doesn't exist.
func loadState(filePath string) (model.Profile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Profile{}, nil
		}
		return model.Profile{}, err
	}
	var state model.Profile
	if err := json.Unmarshal(data, &state); err != nil {
		return model.Profile{}, err
	}
	return state, nil
}
