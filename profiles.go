package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultProfileName is the key used for the fallback profile
const DefaultProfileName = "default"

// ProfileStore is the name -> settings mapping persisted in the profiles
// file. It always holds at least one profile and one of them is current.
// ProfileStore is not safe for concurrent use; App serialises access.
type ProfileStore struct {
	path     string
	profiles map[string]Settings
	current  string
}

// DefaultProfiles returns the mapping used when no usable file exists
func DefaultProfiles() map[string]Settings {
	return map[string]Settings{DefaultProfileName: DefaultSettings()}
}

// LoadProfiles reads the profiles file at path. A missing, unreadable or
// malformed file is not an error: the store starts with the default
// profile instead. The second return value reports whether that happened.
func LoadProfiles(path string) (*ProfileStore, bool) {
	profiles, err := readProfiles(path)
	fellBack := false
	if err != nil {
		logger.Debug("profiles", "using default profile set", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		profiles = DefaultProfiles()
		fellBack = true
	}

	store := &ProfileStore{path: path, profiles: profiles}
	store.current = store.initialProfile()
	return store, fellBack
}

// readProfiles decodes the file contents. Entries with an out-of-range
// retirement age are kept as stored and only rejected when next edited.
// Entries missing a date cannot be computed or written back, so they are
// skipped.
func readProfiles(path string) (map[string]Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var profiles map[string]Settings
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("invalid profiles format: %w", err)
	}
	for name, settings := range profiles {
		err := settings.Validate()
		switch {
		case errors.Is(err, ErrInvalidDate):
			logger.Warning("profiles", "skipping profile without dates", map[string]interface{}{
				"profile": name,
				"error":   err.Error(),
			})
			delete(profiles, name)
		case err != nil:
			logger.Warning("profiles", "profile needs editing", map[string]interface{}{
				"profile": name,
				"error":   err.Error(),
			})
		}
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("invalid profiles format: no profiles in %s", path)
	}
	return profiles, nil
}

// initialProfile picks "default" when present, otherwise the first name
func (s *ProfileStore) initialProfile() string {
	if _, ok := s.profiles[DefaultProfileName]; ok {
		return DefaultProfileName
	}
	return s.Names()[0]
}

// Path returns the file the store persists to
func (s *ProfileStore) Path() string {
	return s.path
}

// Save writes the full mapping sorted by key with 4-space indentation.
// The file is replaced atomically so a failed write leaves the old one intact.
func (s *ProfileStore) Save() error {
	data, err := json.MarshalIndent(s.profiles, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	return nil
}

// Names returns the profile names in sorted order
func (s *ProfileStore) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of profiles
func (s *ProfileStore) Len() int {
	return len(s.profiles)
}

// Get returns the settings for name
func (s *ProfileStore) Get(name string) (Settings, bool) {
	settings, ok := s.profiles[name]
	return settings, ok
}

// All returns a copy of the mapping
func (s *ProfileStore) All() map[string]Settings {
	out := make(map[string]Settings, len(s.profiles))
	for name, settings := range s.profiles {
		out[name] = settings
	}
	return out
}

// Current returns the current profile name and its settings
func (s *ProfileStore) Current() (string, Settings) {
	return s.current, s.profiles[s.current]
}

// Select makes name the current profile. Selection is not persisted.
func (s *ProfileStore) Select(name string) error {
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	s.current = name
	return nil
}

// Create adds a new profile, makes it current and saves the store.
// The mapping is left untouched if the name is taken or invalid.
func (s *ProfileStore) Create(name string, settings Settings) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if _, ok := s.profiles[name]; ok {
		return fmt.Errorf("%w: %q", ErrProfileExists, name)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.profiles[name] = settings
	s.current = name
	return s.Save()
}

// Update replaces the settings of an existing profile and saves the store
func (s *ProfileStore) Update(name string, settings Settings) error {
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.profiles[name] = settings
	return s.Save()
}

// Delete removes a profile and saves the store. The last remaining profile
// cannot be deleted. Deleting the current profile moves current to the
// first remaining name.
func (s *ProfileStore) Delete(name string) error {
	if len(s.profiles) <= 1 {
		return ErrLastProfile
	}
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	delete(s.profiles, name)
	if s.current == name {
		s.current = s.Names()[0]
	}
	return s.Save()
}
