package config

import "time"

// Settings are the typed editor settings the store and its
// surroundings consume.
type Settings struct {
	// ConnectorStyle is the style for newly drawn edges.
	ConnectorStyle string

	// ValidationEnabled controls automatic validation after mutations.
	ValidationEnabled bool

	// HistoryLimit bounds the undo stack. 0 = unbounded.
	HistoryLimit int

	// Author is recorded in new chart metadata.
	Author string

	// AutosaveInterval is how often the editing session persists the
	// current document. 0 disables autosave.
	AutosaveInterval time.Duration

	// GenerateEndpoint is the AI flow-generation backend URL.
	GenerateEndpoint string
}

// DefaultSettings returns the settings used when no config is present.
func DefaultSettings() Settings {
	return Settings{
		ConnectorStyle:    "step",
		ValidationEnabled: true,
		HistoryLimit:      0,
		AutosaveInterval:  30 * time.Second,
	}
}

// SettingsFromConfig extracts typed settings, falling back to defaults
// for missing or malformed keys.
func SettingsFromConfig(c Config) Settings {
	def := DefaultSettings()
	return Settings{
		ConnectorStyle:    c.String("connector_style", def.ConnectorStyle),
		ValidationEnabled: c.Bool("validation_enabled", def.ValidationEnabled),
		HistoryLimit:      c.Int("history_limit", def.HistoryLimit),
		Author:            c.String("author", def.Author),
		AutosaveInterval:  c.Duration("autosave_interval", def.AutosaveInterval),
		GenerateEndpoint:  c.String("generate_endpoint", def.GenerateEndpoint),
	}
}
