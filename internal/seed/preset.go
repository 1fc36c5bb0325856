package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset controls the shape of the demo data. Zero counts fall back to the
// defaults from DefaultPreset.
type Preset struct {
	Subject               string `yaml:"subject"`
	Email                 string `yaml:"email"`
	FirstName             string `yaml:"first_name"`
	LastName              string `yaml:"last_name"`
	Plan                  string `yaml:"plan"`
	Automations           int    `yaml:"automations"`
	KeywordsPerAutomation int    `yaml:"keywords_per_automation"`
	PostsPerAutomation    int    `yaml:"posts_per_automation"`
	DmsPerAutomation      int    `yaml:"dms_per_automation"`
	Integration           bool   `yaml:"integration"`
	RandomSeed            int64  `yaml:"random_seed"`
}

// DefaultPreset returns the demo account used when no preset file is given.
func DefaultPreset() Preset {
	return Preset{
		Subject:               "user_demo",
		Email:                 "demo@autonation.local",
		FirstName:             "Demo",
		LastName:              "User",
		Plan:                  "FREE",
		Automations:           5,
		KeywordsPerAutomation: 3,
		PostsPerAutomation:    2,
		DmsPerAutomation:      4,
		Integration:           true,
		RandomSeed:            42,
	}
}

// LoadPreset reads a YAML preset from path.
func LoadPreset(path string) (Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset %s: %w", path, err)
	}
	return ParsePreset(raw)
}

// ParsePreset decodes a YAML preset on top of DefaultPreset and validates it.
func ParsePreset(raw []byte) (Preset, error) {
	p := DefaultPreset()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Validate rejects presets that would produce rows the API itself refuses.
func (p Preset) Validate() error {
	if p.Subject == "" {
		return fmt.Errorf("preset subject is required")
	}
	switch p.Plan {
	case "FREE", "PRO":
	default:
		return fmt.Errorf("preset plan must be FREE or PRO, got %q", p.Plan)
	}
	counts := map[string]int{
		"automations":             p.Automations,
		"keywords_per_automation": p.KeywordsPerAutomation,
		"posts_per_automation":    p.PostsPerAutomation,
		"dms_per_automation":      p.DmsPerAutomation,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("preset %s must not be negative", name)
		}
	}
	if p.KeywordsPerAutomation > 50 {
		return fmt.Errorf("preset keywords_per_automation must be at most 50")
	}
	return nil
}
