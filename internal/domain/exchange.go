package domain

import "time"

// Exchange is one question put to an agent together with its answer.
type Exchange struct {
	ID           string    `json:"id"`
	Agent        string    `json:"agent"`
	Model        string    `json:"model,omitempty"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	InputTokens  int       `json:"inputTokens,omitempty"`
	OutputTokens int       `json:"outputTokens,omitempty"`
	DurationMS   int64     `json:"durationMs,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
