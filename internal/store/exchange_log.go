package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/basicagent/internal/domain"
)

// ErrNotFound is returned when an exchange does not exist.
var ErrNotFound = errors.New("exchange not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// ExchangeLog records answered questions.
type ExchangeLog struct {
	db *DB
}

// NewExchangeLog creates an exchange log using the given database.
func NewExchangeLog(db *DB) *ExchangeLog {
	return &ExchangeLog{db: db}
}

// Record stores an exchange. A missing ID is generated and a zero
// CreatedAt is set to now. The stored exchange is returned.
func (l *ExchangeLog) Record(ctx context.Context, ex domain.Exchange) (domain.Exchange, error) {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	ex.CreatedAt = ex.CreatedAt.UTC().Truncate(time.Microsecond)

	_, err := l.db.sql.ExecContext(ctx,
		`INSERT INTO exchanges (id, agent, model, question, answer, input_tokens, output_tokens, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Agent, ex.Model, ex.Question, ex.Answer,
		ex.InputTokens, ex.OutputTokens, ex.DurationMS,
		ex.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("recording exchange: %w", err)
	}

	l.db.log.Debug().Str("id", ex.ID).Str("agent", ex.Agent).Msg("exchange recorded")
	return ex, nil
}

// Recent returns the newest exchanges first. Limit of 0 defaults to 20.
func (l *ExchangeLog) Recent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.sql.QueryContext(ctx,
		`SELECT id, agent, model, question, answer, input_tokens, output_tokens, duration_ms, created_at
		 FROM exchanges
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing exchanges: %w", err)
	}
	defer rows.Close()

	var out []domain.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// Get returns a single exchange by ID.
func (l *ExchangeLog) Get(ctx context.Context, id string) (domain.Exchange, error) {
	row := l.db.sql.QueryRowContext(ctx,
		`SELECT id, agent, model, question, answer, input_tokens, output_tokens, duration_ms, created_at
		 FROM exchanges WHERE id = ?`, id,
	)
	ex, err := scanExchange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exchange{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ex, err
}

// Count returns the number of recorded exchanges.
func (l *ExchangeLog) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exchanges: %w", err)
	}
	return n, nil
}

// Clear deletes every exchange and returns how many were removed.
func (l *ExchangeLog) Clear(ctx context.Context) (int64, error) {
	res, err := l.db.sql.ExecContext(ctx, `DELETE FROM exchanges`)
	if err != nil {
		return 0, fmt.Errorf("clearing exchanges: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExchange(s scanner) (domain.Exchange, error) {
	var ex domain.Exchange
	var createdAt string
	if err := s.Scan(
		&ex.ID, &ex.Agent, &ex.Model, &ex.Question, &ex.Answer,
		&ex.InputTokens, &ex.OutputTokens, &ex.DurationMS, &createdAt,
	); err != nil {
		return domain.Exchange{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("exchange %s: bad created_at %q: %w", ex.ID, createdAt, err)
	}
	ex.CreatedAt = t
	return ex, nil
}
