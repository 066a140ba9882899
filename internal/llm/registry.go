package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/logging"
)

// ProviderError is returned when an LLM provider fails.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP-like status code (401, 429, 500, etc.)
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Registry manages LLM provider clients and resolves model identifiers to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // provider name → client
	aliases  map[string]string // exact model identifier → provider name
	routes   map[string]string // model identifier prefix → provider name
	fallback string            // default provider name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		routes:  make(map[string]string),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Debug().Str("provider", name).Msg("registered LLM provider")
}

// Alias maps an exact model identifier to a provider.
func (r *Registry) Alias(model, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[model] = provider
}

// Route maps every model identifier starting with prefix to a provider.
// e.g., Route("gemini-", "gemini") sends "gemini-2.5-flash" to gemini.
func (r *Registry) Route(prefix, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[prefix] = provider
}

// SetFallback sets the default provider used when no model/provider match is found.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the Client for the given model identifier.
// Resolution order: provider name → exact alias → longest prefix route → fallback.
func (r *Registry) Resolve(model string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[model]; ok {
		return c, nil
	}

	if provider, ok := r.aliases[model]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	best := ""
	for prefix := range r.routes {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		if c, ok := r.clients[r.routes[best]]; ok {
			return c, nil
		}
	}

	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no LLM provider for model %q", model)
}

// List returns all registered provider names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig builds a Registry from the configured providers.
// Gemini is registered when an API key (or a Vertex AI project) is present
// and claims every "gemini-" model. Ollama is registered when an endpoint or
// model list is configured; listed models are aliased to it.
func NewRegistryFromConfig(cfg config.ProvidersConfig, log *logging.Logger) (*Registry, error) {
	reg := NewRegistry(log)

	gem := cfg.Gemini
	geminiOn := gem.APIKey != "" || (gem.Backend == "vertex-ai" && gem.Project != "")
	if geminiOn {
		client, err := NewGeminiClient(GeminiOptions{
			APIKey:   gem.APIKey,
			Vertex:   gem.Backend == "vertex-ai",
			Project:  gem.Project,
			Location: gem.Location,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		reg.Register(ProviderGemini, client)
		reg.Route("gemini-", ProviderGemini)
		reg.Route("gemma-", ProviderGemini)
		reg.SetFallback(ProviderGemini)
	}

	oll := cfg.Ollama
	if oll.Endpoint != "" || len(oll.Models) > 0 {
		reg.Register(ProviderOllama, NewOllamaClient(oll.Endpoint))
		for _, m := range oll.Models {
			reg.Alias(m, ProviderOllama)
		}
		if !geminiOn {
			reg.SetFallback(ProviderOllama)
		}
	}

	return reg, nil
}
