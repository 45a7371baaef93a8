package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadProfile(filepath.Join(os.TempDir(), "briefd_no_such_profile.yaml"))
	require.NoError(t, err)
	require.Len(t, p.Sections, 3)
	assert.Equal(t, "tickets", p.Sections[0].Name)
	assert.Equal(t, 0, p.Capacity)
}

func TestLoadProfile_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capacity: 1500
sections:
  - name: tickets
    max_items: 5
    priority: 9
  - name: projects
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, p.Capacity)
	require.Len(t, p.Sections, 2)
	assert.Equal(t, 5, p.Sections[0].MaxItems)
}

func TestLoadProfile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: ["), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestSectionPriority(t *testing.T) {
	p := &Profile{Sections: []SectionSpec{
		{Name: "tickets", Priority: 9},
		{Name: "projects"},
	}}
	defaults := map[string]int{"tickets": 3, "projects": 1}

	assert.Equal(t, 9, p.SectionPriority("tickets", defaults), "profile override wins")
	assert.Equal(t, 1, p.SectionPriority("projects", defaults), "zero falls back to day-part default")
	assert.Equal(t, 0, p.SectionPriority("unknown", defaults))
}
