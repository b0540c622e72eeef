package main

import (
	"sync"
	"time"
)

// App is the application state shared by the presentation layers: the
// profile store and the lock that serialises access to it.
type App struct {
	mu    sync.Mutex
	store *ProfileStore
}

// NewApp wraps a loaded store
func NewApp(store *ProfileStore) *App {
	return &App{store: store}
}

// OpenApp loads the profiles file and selects the preferred profile if
// it exists. An unknown preferred name is logged and ignored.
func OpenApp(path, preferred string) *App {
	store, fellBack := LoadProfiles(path)
	if fellBack {
		logger.Info("profiles", "starting with default profile", map[string]interface{}{"path": path})
	}
	if preferred != "" {
		if err := store.Select(preferred); err != nil {
			logger.Warning("profiles", "preferred profile not found", map[string]interface{}{
				"profile": preferred,
			})
		}
	}
	return NewApp(store)
}

// Snapshot computes the frame for the current profile at now
func (a *App) Snapshot(now time.Time) Frame {
	a.mu.Lock()
	name, settings := a.store.Current()
	a.mu.Unlock()

	return Frame{
		Profile:   name,
		Settings:  settings,
		Countdown: Calculate(now, settings),
	}
}

// Profiles returns a copy of every profile and the current name
func (a *App) Profiles() (map[string]Settings, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	current, _ := a.store.Current()
	return a.store.All(), current
}

// Names returns the sorted profile names
func (a *App) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Names()
}

// Current returns the current profile
func (a *App) Current() (string, Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Current()
}

// Get returns one profile's settings
func (a *App) Get(name string) (Settings, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Get(name)
}

// Path returns the profiles file path
func (a *App) Path() string {
	return a.store.Path()
}

// Select switches the current profile
func (a *App) Select(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Select(name); err != nil {
		return err
	}
	logger.Info("profiles", "profile selected", map[string]interface{}{"profile": name})
	return nil
}

// CreateProfile adds and selects a new profile
func (a *App) CreateProfile(name string, settings Settings) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Create(name, settings); err != nil {
		return err
	}
	logger.Info("profiles", "profile created", map[string]interface{}{"profile": name})
	return nil
}

// UpdateProfile edits a profile and returns a diff of the old and new settings
func (a *App) UpdateProfile(name string, settings Settings) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	old, _ := a.store.Get(name)
	if err := a.store.Update(name, settings); err != nil {
		return "", err
	}
	diff := SettingsDiff(old, settings)
	logger.Info("profiles", "profile updated", map[string]interface{}{
		"profile": name,
		"diff":    diff,
	})
	return diff, nil
}

// DeleteProfile removes a profile
func (a *App) DeleteProfile(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Delete(name); err != nil {
		return err
	}
	current, _ := a.store.Current()
	logger.Info("profiles", "profile deleted", map[string]interface{}{
		"profile": name,
		"current": current,
	})
	return nil
}

// SaveProfiles rewrites the profiles file with the current mapping
func (a *App) SaveProfiles() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Save()
}
