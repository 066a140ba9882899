package agent

import (
	"strings"
	"testing"

	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRootValues(t *testing.T) {
	a := Root()
	assert.Equal(t, "basic_agent", a.Name)
	assert.Equal(t, "gemini-2.5-flash", a.Model)
	assert.Equal(t, "Agents that answer user questions", a.Description)
	assert.Equal(t, "\nYou are an AI agent answering users' questions.\n"+
		"When providing answers, explain your understanding of the question and respond concisely and clearly\n",
		a.Instruction)
}

func TestRootInstructionShape(t *testing.T) {
	lines := strings.Split(Root().Instruction, "\n")
	// leading newline, two lines of text, trailing newline
	assert.Len(t, lines, 4)
	assert.Empty(t, lines[0])
	assert.Empty(t, lines[3])
}

func TestRootReturnsCopy(t *testing.T) {
	a := Root()
	a.Name = "changed"
	a.Instruction = ""
	assert.Equal(t, RootName, Root().Name)
	assert.Equal(t, Instruction, Root().Instruction)
}

func TestBuildSystemPrompt(t *testing.T) {
	tests := []struct {
		name  string
		agent domain.Agent
		want  string
	}{
		{
			name:  "all fields",
			agent: domain.NewAgent("helper", "m", "Helps out", "Be brief."),
			want:  "You are an agent. Your internal name is \"helper\". The description about you is \"Helps out\".\n\nBe brief.",
		},
		{
			name:  "no description",
			agent: domain.NewAgent("helper", "m", "", "Be brief."),
			want:  "You are an agent. Your internal name is \"helper\".\n\nBe brief.",
		},
		{
			name:  "instruction only",
			agent: domain.NewAgent("", "m", "", "Be brief."),
			want:  "Be brief.",
		},
		{
			name:  "no instruction",
			agent: domain.NewAgent("helper", "m", "", ""),
			want:  "You are an agent. Your internal name is \"helper\".",
		},
		{
			name:  "empty",
			agent: domain.Agent{},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSystemPrompt(tt.agent))
		})
	}
}

func TestBuildSystemPromptKeepsInstructionVerbatim(t *testing.T) {
	prompt := BuildSystemPrompt(Root())
	assert.True(t, strings.HasPrefix(prompt, `You are an agent. Your internal name is "basic_agent".`))
	assert.True(t, strings.HasSuffix(prompt, Instruction))
}

func TestResolve(t *testing.T) {
	t.Run("no overrides", func(t *testing.T) {
		assert.Equal(t, Root(), Resolve(config.AgentConfig{}))
	})

	t.Run("overrides", func(t *testing.T) {
		a := Resolve(config.AgentConfig{
			Model:       "gemma-3-27b-it",
			Instruction: "Answer in French.",
		})
		assert.Equal(t, RootName, a.Name)
		assert.Equal(t, "gemma-3-27b-it", a.Model)
		assert.Equal(t, RootDescription, a.Description)
		assert.Equal(t, "Answer in French.", a.Instruction)
	})
}
