package agent

import "github.com/soyeahso/basicagent/internal/domain"

// Built-in descriptor values.
const (
	RootName        = "basic_agent"
	RootModel       = "gemini-2.5-flash"
	RootDescription = "Agents that answer user questions"
)

// Instruction is the built-in system prompt. Its surrounding newlines are
// part of the value.
const Instruction = `
You are an AI agent answering users' questions.
When providing answers, explain your understanding of the question and respond concisely and clearly
`

var root = domain.NewAgent(RootName, RootModel, RootDescription, Instruction)

// Root returns the built-in agent descriptor. Each call returns a copy.
func Root() domain.Agent {
	return root
}
