package config

import "time"

const currentVersion = 1

// Preferences is the user-level preferences file. Project data lives in the
// project store; this file only shapes how envmatch behaves for the user.
type Preferences struct {
	Version          int  `yaml:"version"`
	StatusTTLSeconds int  `yaml:"status_ttl_seconds"` // How long status messages stay in the TUI
	TickMillis       int  `yaml:"tick_millis"`        // TUI refresh interval
	MaskValues       bool `yaml:"mask_values"`        // Hide variable values in the TUI until revealed
	ConfirmDeletes   bool `yaml:"confirm_deletes"`    // Prompt before delete-env on a terminal
}

// NewPreferences creates Preferences with default values.
func NewPreferences() *Preferences {
	return &Preferences{
		Version:          currentVersion,
		StatusTTLSeconds: 3,
		TickMillis:       500,
		MaskValues:       false,
		ConfirmDeletes:   true,
	}
}

// normalize replaces out-of-range values with defaults
func (p *Preferences) normalize() {
	defaults := NewPreferences()
	if p.StatusTTLSeconds <= 0 {
		p.StatusTTLSeconds = defaults.StatusTTLSeconds
	}
	if p.TickMillis < 50 {
		p.TickMillis = defaults.TickMillis
	}
}

// StatusTTL returns how long a transient status message is shown
func (p *Preferences) StatusTTL() time.Duration {
	return time.Duration(p.StatusTTLSeconds) * time.Second
}

// TickInterval returns the TUI tick interval
func (p *Preferences) TickInterval() time.Duration {
	return time.Duration(p.TickMillis) * time.Millisecond
}
