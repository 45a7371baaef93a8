package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionSpec configures one briefing section in the profile.
type SectionSpec struct {
	Name     string `yaml:"name"`
	MaxItems int    `yaml:"max_items"` // 0 = no cap
	Priority int    `yaml:"priority"`  // 0 = take the day-part default
}

// Profile is the optional YAML briefing profile. It controls which
// sections are assembled, their item caps, and fixed priority overrides.
type Profile struct {
	Capacity int           `yaml:"capacity"` // 0 = use BRIEFING_CAPACITY
	Sections []SectionSpec `yaml:"sections"`
}

// DefaultProfile is used when no profile.yaml exists.
func DefaultProfile() *Profile {
	return &Profile{
		Sections: []SectionSpec{
			{Name: "tickets", MaxItems: 10},
			{Name: "pull_requests", MaxItems: 10},
			{Name: "projects", MaxItems: 5},
		},
	}
}

// LoadProfile reads the YAML profile at path. A missing file is not an
// error; the default profile is returned.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.LoadProfile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config.LoadProfile: parse %s: %w", path, err)
	}
	if len(p.Sections) == 0 {
		p.Sections = DefaultProfile().Sections
	}
	return &p, nil
}

// SectionPriority resolves the priority for a section: the profile's fixed
// override when set, otherwise the day-part default from the given map.
func (p *Profile) SectionPriority(name string, defaults map[string]int) int {
	for _, s := range p.Sections {
		if s.Name == name && s.Priority != 0 {
			return s.Priority
		}
	}
	return defaults[name]
}
