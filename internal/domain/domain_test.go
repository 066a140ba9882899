package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewAgentPassThrough(t *testing.T) {
	tests := []struct {
		name        string
		agentName   string
		model       string
		description string
		instruction string
	}{
		{
			name:        "all fields",
			agentName:   "basic_agent",
			model:       "gemini-2.5-flash",
			description: "Agents that answer user questions",
			instruction: "\nAnswer clearly.\n",
		},
		{
			name: "all empty",
		},
		{
			name:        "whitespace kept",
			agentName:   "  padded  ",
			model:       " gemini-2.5-flash",
			instruction: "\t\n",
		},
		{
			name:        "no instruction",
			agentName:   "helper",
			model:       "llama3",
			description: "local helper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAgent(tt.agentName, tt.model, tt.description, tt.instruction)
			assert.Equal(t, tt.agentName, a.Name)
			assert.Equal(t, tt.model, a.Model)
			assert.Equal(t, tt.description, a.Description)
			assert.Equal(t, tt.instruction, a.Instruction)
		})
	}
}

func TestBuildAgentMatchesNewAgent(t *testing.T) {
	built := BuildAgent(
		WithName("basic_agent"),
		WithModel("gemini-2.5-flash"),
		WithDescription("Agents that answer user questions"),
		WithInstruction("be concise"),
	)
	assert.Equal(t, NewAgent("basic_agent", "gemini-2.5-flash", "Agents that answer user questions", "be concise"), built)
}

func TestBuildAgentNoOptions(t *testing.T) {
	a := BuildAgent()
	assert.True(t, a.IsZero())
}

func TestWithReturnsCopy(t *testing.T) {
	orig := NewAgent("a", "m", "d", "i")
	changed := orig.With(WithModel("other"))

	assert.Equal(t, "m", orig.Model)
	assert.Equal(t, "other", changed.Model)
	assert.Equal(t, orig.Name, changed.Name)
	assert.Equal(t, orig.Instruction, changed.Instruction)
}

func TestAgentJSON_OmitsEmpty(t *testing.T) {
	data, err := json.Marshal(NewAgent("bot", "gemini-2.5-flash", "", ""))
	require.NoError(t, err)

	raw := string(data)
	assert.Contains(t, raw, `"name":"bot"`)
	assert.NotContains(t, raw, "description")
	assert.NotContains(t, raw, "instruction")
}

func TestAgentYAMLKeepsInstruction(t *testing.T) {
	a := NewAgent("bot", "gemini-2.5-flash", "desc", "\nline one\nline two\n")

	data, err := yaml.Marshal(a)
	require.NoError(t, err)

	var decoded Agent
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}

func TestExchangeJSON_OmitsEmpty(t *testing.T) {
	ex := Exchange{
		ID:        "ex-1",
		Agent:     "basic_agent",
		Question:  "why?",
		Answer:    "because",
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(ex)
	require.NoError(t, err)

	raw := string(data)
	assert.NotContains(t, raw, "model")
	assert.NotContains(t, raw, "inputTokens")
	assert.NotContains(t, raw, "durationMs")
}
