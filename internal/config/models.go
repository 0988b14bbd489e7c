package config

import (
	"time"

	"github.com/formdrop/formdrop/internal/widget"
)

// Registry represents the entire user configuration file.
// This stores upload profiles and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Profile represents one saved upload form configuration: the endpoint
// it submits to plus the widget options for the slot set.
type Profile struct {
	Endpoint      string      `yaml:"endpoint,omitempty"`        // Upload URL (e.g., "http://host:8640/upload")
	NumberOfFiles int         `yaml:"number_of_files,omitempty"` // Total file slots (>= 1)
	Progressive   bool        `yaml:"progressive,omitempty"`     // Reveal slots one at a time
	AutoSubmit    bool        `yaml:"auto_submit,omitempty"`     // Submit once every slot is filled
	InputName     string      `yaml:"input_name,omitempty"`      // Form field name for file parts
	HiddenFields  []FieldSpec `yaml:"hidden_fields,omitempty"`   // Submitted with every request, in order
	LastUsed      time.Time   `yaml:"last_used,omitempty"`       // Last submission through this profile
}

// FieldSpec is one ordered key/value pair submitted alongside the files
type FieldSpec struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`             // Enable automatic mDNS discovery when no endpoint is set
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
	DefaultProfile  string `yaml:"default_profile,omitempty"` // Profile used when none is named
}

// DefaultProfileName is the profile used when the user never names one
const DefaultProfileName = "default"

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Profiles: make(map[string]*Profile),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			DefaultProfile:  DefaultProfileName,
		},
	}
}

// GetProfile retrieves a profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// EnsureProfile ensures a profile entry exists in the registry.
// If the profile doesn't exist, creates a new entry with default values.
// Returns the profile entry (existing or newly created).
func (r *Registry) EnsureProfile(name string) *Profile {
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}

	if profile, exists := r.Profiles[name]; exists {
		return profile
	}

	profile := &Profile{
		NumberOfFiles: 1,
		InputName:     widget.DefaultInputName,
	}
	r.Profiles[name] = profile
	return profile
}

// SetProfileEndpoint sets or updates the endpoint for a profile.
func (r *Registry) SetProfileEndpoint(name, endpoint string) {
	profile := r.EnsureProfile(name)
	profile.Endpoint = endpoint
}

// TouchProfile updates the last-used timestamp for a profile.
func (r *Registry) TouchProfile(name string) {
	profile := r.EnsureProfile(name)
	profile.LastUsed = time.Now()
}

// WidgetConfig converts a profile into the form controller's configuration.
// Zero or missing values fall back to a single manual slot.
func (p *Profile) WidgetConfig() widget.Config {
	cfg := widget.Config{
		NumberOfFiles: p.NumberOfFiles,
		Progressive:   p.Progressive,
		AutoSubmit:    p.AutoSubmit,
		InputName:     p.InputName,
		FormAction:    p.Endpoint,
	}
	if cfg.NumberOfFiles < 1 {
		cfg.NumberOfFiles = 1
	}
	for _, f := range p.HiddenFields {
		cfg.HiddenFields = append(cfg.HiddenFields, widget.Field{Key: f.Key, Value: f.Value})
	}
	return cfg
}
