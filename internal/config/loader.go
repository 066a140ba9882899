package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential and endpoint fields so they can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Providers.Gemini.APIKey = expandEnvVars(cfg.Providers.Gemini.APIKey)
	cfg.Providers.Gemini.Project = expandEnvVars(cfg.Providers.Gemini.Project)
	cfg.Providers.Ollama.Endpoint = expandEnvVars(cfg.Providers.Ollama.Endpoint)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	expandSensitiveFields(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultsWithEnv returns the defaults with environment overrides applied,
// for use when the config file cannot be read.
func DefaultsWithEnv() Config {
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	return cfg
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// FromRaw decodes a generic config map, as edited by SetValueAtPath, into
// a Config with defaults applied.
func FromRaw(raw map[string]any) (Config, error) {
	cfg := Defaults()
	data, err := yaml.Marshal(raw)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "invalid config: " + err.Error()}
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Providers.Gemini.Backend == "" {
		cfg.Providers.Gemini.Backend = "gemini-api"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
}

// applyEnvOverrides reads BASICAGENT_* and the usual Google credential
// variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if cfg.Providers.Gemini.APIKey == "" {
		for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
			if v := os.Getenv(name); v != "" {
				cfg.Providers.Gemini.APIKey = v
				break
			}
		}
	}
	if cfg.Providers.Gemini.Project == "" {
		cfg.Providers.Gemini.Project = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if cfg.Providers.Gemini.Location == "" {
		cfg.Providers.Gemini.Location = os.Getenv("GOOGLE_CLOUD_LOCATION")
	}
	if v := os.Getenv("GOOGLE_GENAI_USE_VERTEXAI"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil && on {
			cfg.Providers.Gemini.Backend = "vertex-ai"
		}
	}
	if v := os.Getenv("BASICAGENT_MODEL"); v != "" {
		cfg.Agent.Model = v
	}
	if v := os.Getenv("BASICAGENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("BASICAGENT_HISTORY"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.History.Enabled = &on
		}
	}
}
