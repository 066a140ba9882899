package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuePaths(issues []ValidationIssue) []string {
	var paths []string
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidateAgent(t *testing.T) {
	cfg := Defaults()
	hot := 3.5
	cfg.Agent.Temperature = &hot
	cfg.Agent.MaxTokens = -1
	cfg.Agent.Fallbacks = []string{"gemini-2.5-flash", ""}

	paths := issuePaths(Validate(&cfg))
	assert.Contains(t, paths, "agent.temperature")
	assert.Contains(t, paths, "agent.maxTokens")
	assert.Contains(t, paths, "agent.fallbacks[1]")
}

func TestValidateBackend(t *testing.T) {
	cfg := Defaults()
	cfg.Providers.Gemini.Backend = "bedrock"

	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "providers.gemini.backend", issues[0].Path)
}

func TestValidateVertexRequiresProject(t *testing.T) {
	cfg := Defaults()
	cfg.Providers.Gemini.Backend = "vertex-ai"

	paths := issuePaths(Validate(&cfg))
	assert.Equal(t, []string{"providers.gemini.project", "providers.gemini.location"}, paths)
}

func TestValidateLogging(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	cfg.Logging.ConsoleStyle = "fancy"

	paths := issuePaths(Validate(&cfg))
	assert.Equal(t, []string{"logging.level", "logging.consoleStyle"}, paths)
}

func TestValidateHooks(t *testing.T) {
	cfg := Defaults()
	cfg.Hooks.BeforeAsk = []HookEntry{{Command: ""}}
	cfg.Hooks.AfterAsk = []HookEntry{{Command: "true", Timeout: -5}}

	paths := issuePaths(Validate(&cfg))
	assert.Equal(t, []string{"hooks.beforeAsk[0].command", "hooks.afterAsk[0].timeout"}, paths)
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{Path: "logging.level", Message: "bad"}
	assert.Equal(t, "logging.level: bad", issue.String())
}
