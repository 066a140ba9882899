package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/basicagent/internal/version"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// OllamaClient is a direct HTTP client for a local Ollama server.
type OllamaClient struct {
	baseURL string
	client  *http.Client
}

// NewOllamaClient creates a new Ollama client.
// baseURL should be like "http://localhost:11434"; empty uses that default.
func NewOllamaClient(baseURL string) *OllamaClient {
	if baseURL == "" {
		baseURL = defaultOllamaEndpoint
	}
	return &OllamaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider name.
func (o *OllamaClient) Name() string {
	return ProviderOllama
}

// Complete sends a non-streaming completion request to Ollama.
func (o *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	resp, err := o.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &CompletionResponse{
		Content:    result.Response,
		StopReason: result.DoneReason,
		Model:      req.Model,
		Usage:      Usage{InputTokens: result.PromptEvalCount, OutputTokens: result.EvalCount},
		Duration:   time.Since(start),
	}, nil
}

// Stream sends a streaming completion request to Ollama.
func (o *OllamaClient) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	resp, err := o.post(ctx, req, true)
	if err != nil {
		return nil, err
	}

	eventChan := make(chan StreamEvent)
	go o.readStream(ctx, eventChan, resp.Body, req.Model)
	return eventChan, nil
}

func (o *OllamaClient) post(ctx context.Context, req CompletionRequest, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(o.buildRequestBody(req, stream))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: ProviderOllama, Message: "request failed: " + err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &ProviderError{
			Provider: ProviderOllama,
			Code:     resp.StatusCode,
			Message:  strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

func (o *OllamaClient) buildRequestBody(req CompletionRequest, stream bool) map[string]any {
	body := map[string]any{
		"model":  req.Model,
		"prompt": buildPrompt(req.Messages),
		"stream": stream,
	}
	if req.System != "" {
		body["system"] = req.System
	}

	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) > 0 {
		body["options"] = options
	}
	return body
}

// buildPrompt flattens messages into a single prompt. User turns are sent
// bare; other roles are prefixed.
func buildPrompt(msgs []Message) string {
	var prompt strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		if msg.Role != RoleUser {
			prompt.WriteString(msg.Role + ": ")
		}
		prompt.WriteString(msg.Content)
	}
	return prompt.String()
}

func (o *OllamaClient) readStream(ctx context.Context, eventChan chan<- StreamEvent, body io.ReadCloser, model string) {
	defer close(eventChan)
	defer body.Close()
	start := time.Now()

	scanner := bufio.NewScanner(body)
	var full strings.Builder
	final := &CompletionResponse{Model: model}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event ollamaResponse
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		if event.Error != "" {
			send(ctx, eventChan, StreamEvent{Type: EventError, Error: event.Error})
			return
		}

		if event.Response != "" {
			full.WriteString(event.Response)
			if !send(ctx, eventChan, StreamEvent{Type: EventDelta, Content: event.Response}) {
				return
			}
		}
		if event.Done {
			final.StopReason = event.DoneReason
			final.Usage = Usage{InputTokens: event.PromptEvalCount, OutputTokens: event.EvalCount}
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, eventChan, StreamEvent{Type: EventError, Error: fmt.Sprintf("reading stream: %v", err)})
		return
	}

	final.Content = full.String()
	final.Duration = time.Since(start)
	send(ctx, eventChan, StreamEvent{Type: EventDone, Response: final})
}

// ollamaResponse is both the non-streaming body and each streamed line.
type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}
