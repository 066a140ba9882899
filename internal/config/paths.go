package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultBaseDir = ".basicagent"

// Paths holds resolved filesystem paths for basicagent data.
type Paths struct {
	Base    string // ~/.basicagent
	Config  string // ~/.basicagent/config.yaml
	Data    string // ~/.basicagent/data
	History string // ~/.basicagent/data/history.db
}

// ResolvePaths computes all standard paths from the home directory.
// If BASICAGENT_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("BASICAGENT_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	data := filepath.Join(base, "data")
	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		Data:    data,
		History: filepath.Join(data, "history.db"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// HistoryPath returns the configured history database, or the default one.
func (p Paths) HistoryPath(cfg HistoryConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return p.History
}

// ParseConfigPath splits a dot-separated config path into segments.
// Returns an error if any segment is empty.
func ParseConfigPath(raw string) ([]string, error) {
	if raw == "" {
		return nil, &ConfigError{Message: "empty config path"}
	}
	parts := strings.Split(raw, ".")
	for _, p := range parts {
		if p == "" {
			return nil, &ConfigError{Message: "config path contains empty segment"}
		}
	}
	return parts, nil
}

// GetValueAtPath traverses a nested map using the given path segments.
func GetValueAtPath(root map[string]any, path []string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValueAtPath sets a value in a nested map, creating intermediate maps as needed.
func SetValueAtPath(root map[string]any, path []string, value any) {
	current := root
	for _, key := range path[:len(path)-1] {
		m, ok := current[key].(map[string]any)
		if !ok {
			m = map[string]any{}
			current[key] = m
		}
		current = m
	}
	current[path[len(path)-1]] = value
}

// UnsetValueAtPath removes a value at the given path. Returns true if removed.
func UnsetValueAtPath(root map[string]any, path []string) bool {
	current := root
	for _, key := range path[:len(path)-1] {
		m, ok := current[key].(map[string]any)
		if !ok {
			return false
		}
		current = m
	}
	last := path[len(path)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}
