package agent

import (
	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/domain"
)

// Resolve applies configured overrides to the built-in descriptor.
// Empty config fields keep the built-in value.
func Resolve(cfg config.AgentConfig) domain.Agent {
	a := Root()
	if cfg.Name != "" {
		a.Name = cfg.Name
	}
	if cfg.Model != "" {
		a.Model = cfg.Model
	}
	if cfg.Description != "" {
		a.Description = cfg.Description
	}
	if cfg.Instruction != "" {
		a.Instruction = cfg.Instruction
	}
	return a
}
