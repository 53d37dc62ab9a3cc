package config

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetValue retrieves a value from a Config by key. Unset keys are reported
// as not found.
func GetValue(cfg *Config, key string) (any, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	val, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("key %q not found", key)
	}
	return val, nil
}

// SetValue sets key in a raw YAML map, coercing rawValue to the type the
// key expects. models takes a comma-separated list.
func SetValue(data map[string]any, key, rawValue string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if key == "models" {
		var models []any
		for _, m := range strings.Split(rawValue, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		data[key] = models
		return nil
	}
	data[key] = coerceValue(key, rawValue)
	return nil
}

// ValidateKey checks that key names a Config field. It uses yaml struct tags
// to build the valid key set.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if strings.Contains(key, ".") {
		return fmt.Errorf("key %q: tally config has no nested keys", key)
	}
	keys := yamlKeys(reflect.TypeOf(Config{}))
	if !slices.Contains(keys, key) {
		return fmt.Errorf("unknown key %q; valid keys: %s", key, strings.Join(keys, ", "))
	}
	return nil
}

// Keys returns every config key in sorted order.
func Keys() []string {
	return yamlKeys(reflect.TypeOf(Config{}))
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// coerceValue parses a string into the kind of value key holds. Only
// record_history and max_tokens are non-string.
func coerceValue(key, s string) any {
	switch key {
	case "record_history":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case "max_tokens":
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return s
}

// yamlKeys extracts yaml tag names from a struct type, sorted.
func yamlKeys(t reflect.Type) []string {
	var keys []string
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			keys = append(keys, name)
		}
	}
	slices.Sort(keys)
	return keys
}
