// Package config loads chain definitions from YAML or JSON.
//
// Config wraps a map[string]any with typed accessors that return a default
// when a key is missing or holds the wrong type. ParseChains reads a chain
// graph from a Config:
//
//	events:
//	  login:
//	    successors:
//	      - {event: browse, weight: 3, delay: 500ms}
//	      - {event: logout, weight: 1}
//	  browse:
//	    rules:
//	      - when: "result.status == 'ok'"
//	        event: checkout
//	        delay: 1s
//	    otherwise: noop
//	  checkout:
//	    next: logout
//	    delay: 2s
//	  logout: {}
//
// Durations accept Go duration strings ("500ms", "1h30m"); bare numbers are
// seconds.
package config

import (
	"sort"
	"time"
)

// Config wraps a map[string]any for type-safe value extraction.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	if d, ok := c.LookupDuration(key); ok {
		return d
	}
	return defaultVal
}

// LookupDuration is like Duration but reports whether key held a valid
// duration instead of falling back to a default.
func (c Config) LookupDuration(key string) (time.Duration, bool) {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d, true
		}
	case float64:
		return time.Duration(val * float64(time.Second)), true
	case int:
		return time.Duration(val) * time.Second, true
	case int64:
		return time.Duration(val) * time.Second, true
	case time.Duration:
		return val, true
	}
	return 0, false
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
// float64 values convert only when they have no fractional part.
func (c Config) Int(key string, defaultVal int) int {
	if i, ok := c.LookupInt(key); ok {
		return i
	}
	return defaultVal
}

// LookupInt is like Int but reports whether key held an integer.
func (c Config) LookupInt(key string) (int, bool) {
	switch val := c.data[key].(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
	}
	return 0, false
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Sub returns the nested mapping under key. A missing or non-map value
// yields an empty Config.
func (c Config) Sub(key string) Config {
	if m, ok := asMap(c.data[key]); ok {
		return New(m)
	}
	return New(nil)
}

// List returns the nested mappings under key. Non-map elements are skipped.
func (c Config) List(key string) []Config {
	items, ok := c.data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Config, 0, len(items))
	for _, item := range items {
		if m, ok := asMap(item); ok {
			out = append(out, New(m))
		}
	}
	return out
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Keys returns all keys, sorted.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		// `logout: {}` and `logout:` both mean an empty mapping
		return nil, true
	}
	return nil, false
}
