package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// GeminiOptions configures the Gemini client.
type GeminiOptions struct {
	APIKey   string
	Vertex   bool // use Vertex AI instead of the Gemini API
	Project  string
	Location string
}

// generator is the part of genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GeminiClient talks to Google Gemini through the genai SDK. The model
// identifier of each request is sent as-is.
type GeminiClient struct {
	models generator
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Vertex {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  opts.Project,
			Location: opts.Location,
		}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClient{models: client.Models}, nil
}

// Name returns the provider name.
func (g *GeminiClient) Name() string {
	return ProviderGemini
}

// Complete sends a non-streaming request.
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, &ProviderError{Provider: ProviderGemini, Message: "model identifier is required"}
	}
	start := time.Now()

	resp, err := g.models.GenerateContent(ctx, req.Model, buildContents(req.Messages), buildConfig(req))
	if err != nil {
		return nil, wrapGeminiError(err)
	}

	out := responseToCompletion(resp)
	out.Model = req.Model
	out.Duration = time.Since(start)
	return out, nil
}

// Stream sends a streaming request. Deltas are forwarded as they arrive and
// a final "done" event carries the accumulated response. A failure before
// the first chunk is returned directly so callers can fail over.
func (g *GeminiClient) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	if req.Model == "" {
		return nil, &ProviderError{Provider: ProviderGemini, Message: "model identifier is required"}
	}
	start := time.Now()

	next, stop := iter.Pull2(g.models.GenerateContentStream(ctx, req.Model, buildContents(req.Messages), buildConfig(req)))
	first, err, ok := next()
	if ok && err != nil {
		stop()
		return nil, wrapGeminiError(err)
	}

	eventChan := make(chan StreamEvent)
	go g.streamRequest(ctx, eventChan, req, start, func(yield func(*genai.GenerateContentResponse, error) bool) {
		defer stop()
		if !ok || !yield(first, nil) {
			return
		}
		for {
			chunk, err, ok := next()
			if !ok || !yield(chunk, err) {
				return
			}
		}
	})
	return eventChan, nil
}

func (g *GeminiClient) streamRequest(ctx context.Context, eventChan chan<- StreamEvent, req CompletionRequest, start time.Time, chunks iter.Seq2[*genai.GenerateContentResponse, error]) {
	defer close(eventChan)

	var full strings.Builder
	final := &CompletionResponse{Model: req.Model}

	for chunk, err := range chunks {
		if err != nil {
			send(ctx, eventChan, StreamEvent{Type: EventError, Error: wrapGeminiError(err).Error()})
			return
		}
		part := responseToCompletion(chunk)
		if part.StopReason != "" {
			final.StopReason = part.StopReason
		}
		if part.Usage.InputTokens > 0 || part.Usage.OutputTokens > 0 {
			final.Usage = part.Usage
		}
		if part.Content == "" {
			continue
		}
		full.WriteString(part.Content)
		if !send(ctx, eventChan, StreamEvent{Type: EventDelta, Content: part.Content}) {
			return
		}
	}

	final.Content = full.String()
	final.Duration = time.Since(start)
	send(ctx, eventChan, StreamEvent{Type: EventDone, Response: final})
}

// send delivers evt unless ctx is cancelled first.
func send(ctx context.Context, ch chan<- StreamEvent, evt StreamEvent) bool {
	select {
	case ch <- evt:
		return true
	case <-ctx.Done():
		return false
	}
}

func buildContents(msgs []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func buildConfig(req CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
			Role:  "user",
		}
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	return cfg
}

func responseToCompletion(resp *genai.GenerateContentResponse) *CompletionResponse {
	out := &CompletionResponse{}
	if resp == nil {
		return out
	}

	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if len(resp.Candidates) == 0 {
		return out
	}
	cand := resp.Candidates[0]
	out.StopReason = string(cand.FinishReason)
	if cand.Content == nil {
		return out
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		text.WriteString(p.Text)
	}
	out.Content = text.String()
	return out
}

// genaiCodeRe extracts the HTTP status from genai error messages
// ("Error 429, Message: ...") that do not carry an APIError.
var genaiCodeRe = regexp.MustCompile(`Error (\d{3}),`)

func wrapGeminiError(err error) error {
	pe := &ProviderError{Provider: ProviderGemini, Message: err.Error(), Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		pe.Code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		pe.Code = apiErrPtr.Code
	default:
		if m := genaiCodeRe.FindStringSubmatch(err.Error()); m != nil {
			pe.Code, _ = strconv.Atoi(m[1])
		}
	}
	return pe
}
