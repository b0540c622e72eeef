package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfilesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleSettings() Settings {
	return Settings{
		Birthdate:     MustParseDate("1990-05-20"),
		CareerStart:   MustParseDate("2012-09-01"),
		RetirementAge: 67,
	}
}

func TestLoadProfiles_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"not json", strPtr("{not json")},
		{"array", strPtr(`[1, 2, 3]`)},
		{"null", strPtr(`null`)},
		{"empty object", strPtr(`{}`)},
		{"bad date", strPtr(`{"a": {"birthdate": "17/01/1982", "career_start": "1998-06-01", "retirement_age": 65}}`)},
		{"only entry missing dates", strPtr(`{"a": {"retirement_age": 65}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profiles.json")
			if tt.content != nil {
				path = writeProfilesFile(t, *tt.content)
			}

			store, fellBack := LoadProfiles(path)
			assert.True(t, fellBack)
			assert.Equal(t, []string{DefaultProfileName}, store.Names())

			name, settings := store.Current()
			assert.Equal(t, DefaultProfileName, name)
			assert.Equal(t, DefaultSettings(), settings)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestLoadProfiles_ReadsFile(t *testing.T) {
	path := writeProfilesFile(t, `{
    "work": {"birthdate": "1990-05-20", "career_start": "2012-09-01", "retirement_age": 67},
    "alt": {"birthdate": "1982-01-17", "career_start": "1998-06-01", "retirement_age": 60}
}`)

	store, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	assert.Equal(t, []string{"alt", "work"}, store.Names())

	// No "default" key: the first name becomes current
	name, _ := store.Current()
	assert.Equal(t, "alt", name)

	work, ok := store.Get("work")
	require.True(t, ok)
	assert.Equal(t, sampleSettings(), work)
}

func TestLoadProfiles_KeepsOtherProfilesBesideBadEntries(t *testing.T) {
	path := writeProfilesFile(t, `{
    "alice": {"birthdate": "1990-05-20", "career_start": "2012-09-01", "retirement_age": 67},
    "bob": {"birthdate": "1982-01-17", "career_start": "1998-06-01", "retirement_age": 120},
    "carl": {"career_start": "1998-06-01", "retirement_age": 65}
}`)

	store, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	assert.Equal(t, []string{"alice", "bob"}, store.Names())

	// Out-of-range age is kept as stored but still rejected on edit
	bob, ok := store.Get("bob")
	require.True(t, ok)
	assert.Equal(t, 120, bob.RetirementAge)
	assert.ErrorIs(t, store.Update("bob", bob), ErrInvalidRetirementAge)

	// A later save keeps every loaded profile on disk
	require.NoError(t, store.Create("dora", sampleSettings()))
	reloaded, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	assert.Equal(t, []string{"alice", "bob", "dora"}, reloaded.Names())
	bob, _ = reloaded.Get("bob")
	assert.Equal(t, 120, bob.RetirementAge)
}

func TestLoadProfiles_PrefersDefaultProfile(t *testing.T) {
	path := writeProfilesFile(t, `{
    "aaa": {"birthdate": "1990-05-20", "career_start": "2012-09-01", "retirement_age": 67},
    "default": {"birthdate": "1982-01-17", "career_start": "1998-06-01", "retirement_age": 65}
}`)

	store, _ := LoadProfiles(path)
	name, _ := store.Current()
	assert.Equal(t, DefaultProfileName, name)
}

func TestSave_SortedIndentedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)
	require.NoError(t, store.Create("zeta", sampleSettings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `{
    "default": {
        "birthdate": "1982-01-17",
        "career_start": "1998-06-01",
        "retirement_age": 65
    },
    "zeta": {
        "birthdate": "1990-05-20",
        "career_start": "2012-09-01",
        "retirement_age": 67
    }
}
`
	assert.Equal(t, want, string(data))
}

func TestSave_RoundTrip(t *testing.T) {
	path := writeProfilesFile(t, `{"b": {"retirement_age": 60, "career_start": "2001-02-03", "birthdate": "1975-11-30"},
"a": {"birthdate": "1982-01-17", "career_start": "1998-06-01", "retirement_age": 65}}`)

	store, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	before := store.All()

	require.NoError(t, store.Save())
	reloaded, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	assert.Equal(t, before, reloaded.All())

	var raw map[string]map[string]interface{}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1975-11-30", raw["b"]["birthdate"])
	assert.Equal(t, float64(60), raw["b"]["retirement_age"])
}

func TestSave_ReportsWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "profiles.json")
	store, _ := LoadProfiles(path)

	err := store.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save profiles")
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)

	require.NoError(t, store.Create("work", sampleSettings()))

	name, settings := store.Current()
	assert.Equal(t, "work", name)
	assert.Equal(t, sampleSettings(), settings)

	// Persisted on create
	reloaded, fellBack := LoadProfiles(path)
	require.False(t, fellBack)
	assert.Equal(t, []string{"default", "work"}, reloaded.Names())
}

func TestCreate_Rejections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)

	err := store.Create(DefaultProfileName, sampleSettings())
	assert.ErrorIs(t, err, ErrProfileExists)

	err = store.Create("   ", sampleSettings())
	assert.ErrorIs(t, err, ErrInvalidName)

	bad := sampleSettings()
	bad.RetirementAge = 101
	err = store.Create("old", bad)
	assert.ErrorIs(t, err, ErrInvalidRetirementAge)

	// No mutation and nothing written
	assert.Equal(t, []string{DefaultProfileName}, store.Names())
	name, _ := store.Current()
	assert.Equal(t, DefaultProfileName, name)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)

	require.NoError(t, store.Update(DefaultProfileName, sampleSettings()))
	got, _ := store.Get(DefaultProfileName)
	assert.Equal(t, sampleSettings(), got)

	reloaded, _ := LoadProfiles(path)
	got, _ = reloaded.Get(DefaultProfileName)
	assert.Equal(t, sampleSettings(), got)

	assert.ErrorIs(t, store.Update("nobody", sampleSettings()), ErrProfileNotFound)
}

func TestSelect(t *testing.T) {
	store, _ := LoadProfiles(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, store.Create("work", sampleSettings()))

	require.NoError(t, store.Select(DefaultProfileName))
	name, _ := store.Current()
	assert.Equal(t, DefaultProfileName, name)

	assert.ErrorIs(t, store.Select("nobody"), ErrProfileNotFound)
	name, _ = store.Current()
	assert.Equal(t, DefaultProfileName, name)
}

func TestDelete_LastProfileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)

	err := store.Delete(DefaultProfileName)
	assert.ErrorIs(t, err, ErrLastProfile)
	assert.Equal(t, 1, store.Len())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected delete must not write the file")
}

func TestDelete_CurrentProfileReassigns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, _ := LoadProfiles(path)
	require.NoError(t, store.Create("work", sampleSettings()))
	require.NoError(t, store.Create("alt", sampleSettings()))

	name, _ := store.Current()
	require.Equal(t, "alt", name)

	require.NoError(t, store.Delete("alt"))
	name, _ = store.Current()
	assert.Equal(t, DefaultProfileName, name)

	reloaded, _ := LoadProfiles(path)
	assert.Equal(t, []string{DefaultProfileName, "work"}, reloaded.Names())
}

func TestDelete_OtherProfileKeepsCurrent(t *testing.T) {
	store, _ := LoadProfiles(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, store.Create("work", sampleSettings()))

	require.NoError(t, store.Delete(DefaultProfileName))
	name, _ := store.Current()
	assert.Equal(t, "work", name)

	assert.ErrorIs(t, store.Delete("work"), ErrLastProfile)
}

func TestDelete_UnknownProfile(t *testing.T) {
	store, _ := LoadProfiles(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, store.Create("work", sampleSettings()))

	assert.ErrorIs(t, store.Delete("nobody"), ErrProfileNotFound)
	assert.Equal(t, 2, store.Len())
}
