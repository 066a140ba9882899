package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/basicagent/internal/domain"
	"github.com/soyeahso/basicagent/internal/hooks"
	"github.com/soyeahso/basicagent/internal/llm"
	"github.com/soyeahso/basicagent/internal/logging"
)

// ErrEmptyQuestion is returned when a question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// RunnerConfig configures the agent runner.
type RunnerConfig struct {
	Agent       domain.Agent
	Fallbacks   []string
	MaxTokens   int
	Temperature *float64
}

// Result is the outcome of one question.
type Result struct {
	Answer   string        `json:"answer"`
	Model    string        `json:"model,omitempty"`
	Usage    llm.Usage     `json:"usage"`
	Duration time.Duration `json:"duration"`
}

// StreamCallback is called for each "delta" event during AskStream.
type StreamCallback func(event llm.StreamEvent)

// Recorder persists answered questions.
type Recorder interface {
	Record(ctx context.Context, ex domain.Exchange) (domain.Exchange, error)
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithHooks emits before_ask, after_ask and ask_failed through m.
func WithHooks(m *hooks.Manager) RunnerOption {
	return func(r *Runner) { r.hooks = m }
}

// WithRecorder records every answered question.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// Runner answers single questions with the configured agent. Each question
// is sent on its own; nothing from earlier questions is included.
type Runner struct {
	cfg      RunnerConfig
	system   string
	client   *FailoverClient
	hooks    *hooks.Manager
	recorder Recorder
	log      *logging.Logger
}

// NewRunner creates an agent runner.
func NewRunner(cfg RunnerConfig, registry *llm.Registry, log *logging.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:    cfg,
		system: BuildSystemPrompt(cfg.Agent),
		client: NewFailoverClient(registry, cfg.Agent.Model, cfg.Fallbacks, log),
		log:    log.Sub("agent." + cfg.Agent.Name),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Agent returns the descriptor the runner was built with.
func (r *Runner) Agent() domain.Agent {
	return r.cfg.Agent
}

// SystemPrompt returns the system prompt sent with every question.
func (r *Runner) SystemPrompt() string {
	return r.system
}

func (r *Runner) request(question string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model:       r.cfg.Agent.Model,
		System:      r.system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: question}},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
}

func (r *Runner) begin(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	if r.cfg.Agent.Model == "" {
		return fmt.Errorf("agent %q has no model", r.cfg.Agent.Name)
	}

	r.log.Info().
		Str("model", r.cfg.Agent.Model).
		Int("questionLen", len(question)).
		Msg("answering question")

	r.hooks.Emit(ctx, hooks.EventBeforeAsk, map[string]any{
		"agent":    r.cfg.Agent.Name,
		"model":    r.cfg.Agent.Model,
		"question": question,
	})
	return nil
}

func (r *Runner) fail(ctx context.Context, question string, err error) error {
	r.hooks.Emit(ctx, hooks.EventAskFailed, map[string]any{
		"agent":    r.cfg.Agent.Name,
		"question": question,
		"error":    err.Error(),
	})
	return err
}

func (r *Runner) finish(ctx context.Context, question string, res *Result) {
	r.log.Info().
		Str("model", res.Model).
		Int("inputTokens", res.Usage.InputTokens).
		Int("outputTokens", res.Usage.OutputTokens).
		Dur("duration", res.Duration).
		Msg("answer generated")

	r.hooks.Emit(ctx, hooks.EventAfterAsk, map[string]any{
		"agent":    r.cfg.Agent.Name,
		"model":    res.Model,
		"question": question,
		"answer":   res.Answer,
	})

	if r.recorder == nil {
		return
	}
	_, err := r.recorder.Record(ctx, domain.Exchange{
		Agent:        r.cfg.Agent.Name,
		Model:        res.Model,
		Question:     question,
		Answer:       res.Answer,
		InputTokens:  res.Usage.InputTokens,
		OutputTokens: res.Usage.OutputTokens,
		DurationMS:   res.Duration.Milliseconds(),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to record exchange")
	}
}

// Ask sends one question and returns the full answer.
func (r *Runner) Ask(ctx context.Context, question string) (*Result, error) {
	start := time.Now()
	if err := r.begin(ctx, question); err != nil {
		return nil, err
	}

	resp, err := r.client.Complete(ctx, r.request(question))
	if err != nil {
		return nil, r.fail(ctx, question, fmt.Errorf("LLM completion: %w", err))
	}

	res := &Result{
		Answer:   resp.Content,
		Model:    resp.Model,
		Usage:    resp.Usage,
		Duration: time.Since(start),
	}
	r.finish(ctx, question, res)
	return res, nil
}

// AskStream sends one question and forwards text deltas to cb as they
// arrive. The returned Result holds the full answer.
func (r *Runner) AskStream(ctx context.Context, question string, cb StreamCallback) (*Result, error) {
	start := time.Now()
	if err := r.begin(ctx, question); err != nil {
		return nil, err
	}

	ch, model, err := r.client.Stream(ctx, r.request(question))
	if err != nil {
		return nil, r.fail(ctx, question, fmt.Errorf("LLM stream: %w", err))
	}

	var full strings.Builder
	var final *llm.CompletionResponse
	for evt := range ch {
		switch evt.Type {
		case llm.EventDelta:
			full.WriteString(evt.Content)
			if cb != nil {
				cb(evt)
			}
		case llm.EventDone:
			final = evt.Response
		case llm.EventError:
			return nil, r.fail(ctx, question, fmt.Errorf("stream error: %s", evt.Error))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail(ctx, question, err)
	}

	res := &Result{
		Answer:   full.String(),
		Model:    model,
		Duration: time.Since(start),
	}
	if final != nil {
		if final.Content != "" {
			res.Answer = final.Content
		}
		if final.Model != "" {
			res.Model = final.Model
		}
		res.Usage = final.Usage
	}

	r.finish(ctx, question, res)
	return res, nil
}
