package domain

// Agent describes a hosted LLM agent: who it is, which model backs it and
// the instruction handed to that model. All fields are optional and are
// carried through exactly as given.
type Agent struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Instruction string `json:"instruction,omitempty" yaml:"instruction,omitempty"`
}

// AgentOption sets a single descriptor field.
type AgentOption func(*Agent)

// WithName sets the agent name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.Name = name }
}

// WithModel sets the model identifier.
func WithModel(model string) AgentOption {
	return func(a *Agent) { a.Model = model }
}

// WithDescription sets the human-readable description.
func WithDescription(description string) AgentOption {
	return func(a *Agent) { a.Description = description }
}

// WithInstruction sets the instruction (system prompt).
func WithInstruction(instruction string) AgentOption {
	return func(a *Agent) { a.Instruction = instruction }
}

// NewAgent builds a descriptor from the given fields.
func NewAgent(name, model, description, instruction string) Agent {
	return Agent{
		Name:        name,
		Model:       model,
		Description: description,
		Instruction: instruction,
	}
}

// BuildAgent applies options to an empty descriptor.
func BuildAgent(opts ...AgentOption) Agent {
	var a Agent
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// With returns a copy of a with the options applied.
func (a Agent) With(opts ...AgentOption) Agent {
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// IsZero reports whether no field is set.
func (a Agent) IsZero() bool {
	return a == Agent{}
}
