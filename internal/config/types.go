package config

// Config is the root configuration for basicagent.
type Config struct {
	Agent     AgentConfig     `yaml:"agent,omitempty"`
	Providers ProvidersConfig `yaml:"providers,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty"`
	Hooks     HooksConfig     `yaml:"hooks,omitempty"`
}

// AgentConfig overrides fields of the built-in agent descriptor.
// Empty fields keep the built-in value.
type AgentConfig struct {
	Name        string   `yaml:"name,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Instruction string   `yaml:"instruction,omitempty"`
	Fallbacks   []string `yaml:"fallbacks,omitempty"` // models tried when the primary fails
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ProvidersConfig holds per-backend connection settings.
type ProvidersConfig struct {
	Gemini GeminiConfig `yaml:"gemini,omitempty"`
	Ollama OllamaConfig `yaml:"ollama,omitempty"`
}

// GeminiConfig configures the Google Gemini backend.
type GeminiConfig struct {
	APIKey   string `yaml:"apiKey,omitempty"`
	Backend  string `yaml:"backend,omitempty"` // "gemini-api" | "vertex-ai"
	Project  string `yaml:"project,omitempty"`
	Location string `yaml:"location,omitempty"`
}

// OllamaConfig configures a local Ollama server.
type OllamaConfig struct {
	Endpoint string   `yaml:"endpoint,omitempty"`
	Models   []string `yaml:"models,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// HistoryConfig controls the persistent record of asked questions.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// IsEnabled reports whether history recording is on. Defaults to true.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig defines commands run around each question.
type HooksConfig struct {
	BeforeAsk []HookEntry `yaml:"beforeAsk,omitempty"`
	AfterAsk  []HookEntry `yaml:"afterAsk,omitempty"`
	AskFailed []HookEntry `yaml:"askFailed,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
