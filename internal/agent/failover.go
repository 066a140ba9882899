package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/soyeahso/basicagent/internal/llm"
	"github.com/soyeahso/basicagent/internal/logging"
)

// FailoverClient wraps an LLM registry to try fallback models on failure.
type FailoverClient struct {
	registry  *llm.Registry
	primary   string
	fallbacks []string
	log       *logging.Logger
}

// NewFailoverClient creates a client that tries the primary model first,
// then falls back through the list on retryable errors (401, 429, 5xx).
func NewFailoverClient(registry *llm.Registry, primary string, fallbacks []string, log *logging.Logger) *FailoverClient {
	return &FailoverClient{
		registry:  registry,
		primary:   primary,
		fallbacks: fallbacks,
		log:       log.Sub("failover"),
	}
}

func (f *FailoverClient) models() []string {
	return append([]string{f.primary}, f.fallbacks...)
}

// Complete tries the primary model, falling back on retryable errors.
// The model identifier that answered is set on the response.
func (f *FailoverClient) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var lastErr error
	for _, model := range f.models() {
		client, err := f.registry.Resolve(model)
		if err != nil {
			f.log.Debug().Str("model", model).Err(err).Msg("no provider for model, skipping")
			lastErr = err
			continue
		}

		req.Model = model
		resp, err := client.Complete(ctx, req)
		if err == nil {
			if resp.Model == "" {
				resp.Model = model
			}
			return resp, nil
		}

		lastErr = err

		if isRetryable(err) && ctx.Err() == nil {
			f.log.Warn().
				Str("model", model).
				Err(err).
				Msg("retryable error, trying next model")
			continue
		}

		return nil, err
	}

	return nil, lastErr
}

// Stream tries the primary model for streaming, with failover. Only errors
// returned before the stream starts trigger failover.
func (f *FailoverClient) Stream(ctx context.Context, req llm.CompletionRequest) (<-chan llm.StreamEvent, string, error) {
	var lastErr error
	for _, model := range f.models() {
		client, err := f.registry.Resolve(model)
		if err != nil {
			lastErr = err
			continue
		}

		req.Model = model
		ch, err := client.Stream(ctx, req)
		if err == nil {
			return ch, model, nil
		}

		lastErr = err

		if isRetryable(err) && ctx.Err() == nil {
			f.log.Warn().
				Str("model", model).
				Err(err).
				Msg("retryable stream error, trying next model")
			continue
		}

		return nil, "", err
	}

	return nil, "", lastErr
}

// isRetryable checks if the error suggests trying another model.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case 401, 403, 404, 429, 500, 502, 503, 504, 529:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "capacity") ||
		strings.Contains(msg, "timeout")
}
