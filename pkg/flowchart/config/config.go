// Package config loads editor settings from YAML or JSON files.
package config

import "time"

// Config is a decoded settings map with typed accessors. Accessors
// never fail: a missing key or a value of the wrong kind yields the
// caller's fallback.
type Config struct {
	data map[string]any
}

// New wraps a decoded settings map. A nil map behaves as empty.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string at key, or fallback.
func (c Config) String(key, fallback string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return fallback
}

// Bool returns the bool at key, or fallback.
func (c Config) Bool(key string, fallback bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return fallback
}

// Int returns the integer at key, or fallback. JSON decodes numbers
// as float64, so whole floats count; a fractional value does not.
func (c Config) Int(key string, fallback int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return fallback
}

// Duration returns the duration at key, or fallback. Strings go
// through time.ParseDuration; bare numbers are seconds.
func (c Config) Duration(key string, fallback time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return fallback
}

// StringSlice returns the string list at key, or fallback. A []any
// list converts only when every element is a string.
func (c Config) StringSlice(key string, fallback []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fallback
			}
			out = append(out, s)
		}
		return out
	}
	return fallback
}

// Has reports whether key is present, even when its value is nil.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw exposes the underlying map for callers that need keys the typed
// accessors do not cover. Treat it as read-only.
func (c Config) Raw() map[string]any {
	return c.data
}
