package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Agent.MaxTokens < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "agent.maxTokens",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Agent.MaxTokens),
		})
	}
	if t := cfg.Agent.Temperature; t != nil && (*t < 0 || *t > 2) {
		issues = append(issues, ValidationIssue{
			Path:    "agent.temperature",
			Message: fmt.Sprintf("must be 0-2, got %.2f", *t),
		})
	}
	for i, fb := range cfg.Agent.Fallbacks {
		if fb == "" {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("agent.fallbacks[%d]", i),
				Message: "model identifier is empty",
			})
		}
	}

	gem := cfg.Providers.Gemini
	validBackends := []string{"gemini-api", "vertex-ai"}
	if gem.Backend != "" && !slices.Contains(validBackends, gem.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "providers.gemini.backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, gem.Backend),
		})
	}
	if gem.Backend == "vertex-ai" {
		if gem.Project == "" {
			issues = append(issues, ValidationIssue{
				Path:    "providers.gemini.project",
				Message: "required when backend is vertex-ai",
			})
		}
		if gem.Location == "" {
			issues = append(issues, ValidationIssue{
				Path:    "providers.gemini.location",
				Message: "required when backend is vertex-ai",
			})
		}
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	issues = append(issues, validateHooks("hooks.beforeAsk", cfg.Hooks.BeforeAsk)...)
	issues = append(issues, validateHooks("hooks.afterAsk", cfg.Hooks.AfterAsk)...)
	issues = append(issues, validateHooks("hooks.askFailed", cfg.Hooks.AskFailed)...)

	return issues
}

func validateHooks(path string, entries []HookEntry) []ValidationIssue {
	var issues []ValidationIssue
	for i, h := range entries {
		if h.Command == "" {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("%s[%d].command", path, i),
				Message: "command is required",
			})
		}
		if h.Timeout < 0 {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("%s[%d].timeout", path, i),
				Message: fmt.Sprintf("must not be negative, got %d", h.Timeout),
			})
		}
	}
	return issues
}
