package agent

import (
	"fmt"
	"strings"

	"github.com/soyeahso/basicagent/internal/domain"
)

// BuildSystemPrompt constructs the system prompt sent with every question:
// an identity line naming the agent, then its instruction unchanged.
func BuildSystemPrompt(a domain.Agent) string {
	var identity strings.Builder
	if a.Name != "" {
		fmt.Fprintf(&identity, "You are an agent. Your internal name is %q.", a.Name)
	}
	if a.Description != "" {
		if identity.Len() > 0 {
			identity.WriteString(" ")
		}
		fmt.Fprintf(&identity, "The description about you is %q.", a.Description)
	}

	switch {
	case identity.Len() == 0:
		return a.Instruction
	case a.Instruction == "":
		return identity.String()
	default:
		return identity.String() + "\n\n" + a.Instruction
	}
}
