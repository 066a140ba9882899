package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyeahso/basicagent/internal/domain"
	"github.com/soyeahso/basicagent/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	defer db.Close()
	assert.FileExists(t, path)
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, v)
	assert.Equal(t, ":memory:", db.Path())
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	var name string
	err := db.sql.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='exchanges'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "exchanges", name)
}

// --- ExchangeLog tests ---

func TestExchangeLog_RecordAndGet(t *testing.T) {
	log := NewExchangeLog(testDB(t))
	ctx := context.Background()

	stored, err := log.Record(ctx, domain.Exchange{
		Agent:        "basic_agent",
		Model:        "gemini-2.5-flash",
		Question:     "What is Go?",
		Answer:       "A language.",
		InputTokens:  12,
		OutputTokens: 3,
		DurationMS:   450,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := log.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "basic_agent", got.Agent)
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	assert.Equal(t, "What is Go?", got.Question)
	assert.Equal(t, "A language.", got.Answer)
	assert.Equal(t, 12, got.InputTokens)
	assert.Equal(t, 3, got.OutputTokens)
	assert.Equal(t, int64(450), got.DurationMS)
	assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))
}

func TestExchangeLog_KeepsGivenID(t *testing.T) {
	log := NewExchangeLog(testDB(t))

	stored, err := log.Record(context.Background(), domain.Exchange{ID: "fixed", Agent: "a", Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", stored.ID)

	_, err = log.Record(context.Background(), domain.Exchange{ID: "fixed", Agent: "a", Question: "q", Answer: "a"})
	assert.Error(t, err)
}

func TestExchangeLog_GetNotFound(t *testing.T) {
	log := NewExchangeLog(testDB(t))

	_, err := log.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExchangeLog_Recent(t *testing.T) {
	log := NewExchangeLog(testDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, q := range []string{"first", "second", "third"} {
		_, err := log.Record(ctx, domain.Exchange{
			Agent:     "basic_agent",
			Question:  q,
			Answer:    "answer",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	recent, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Question)
	assert.Equal(t, "second", recent[1].Question)

	all, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExchangeLog_CorruptTimestamp(t *testing.T) {
	db := testDB(t)
	log := NewExchangeLog(db)
	ctx := context.Background()

	_, err := db.sql.Exec(
		`INSERT INTO exchanges (id, agent, question, answer, created_at) VALUES ('bad', 'a', 'q', 'a', 'yesterday')`,
	)
	require.NoError(t, err)

	_, err = log.Get(ctx, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")

	_, err = log.Recent(ctx, 10)
	assert.Error(t, err)
}

func TestExchangeLog_RecentEmpty(t *testing.T) {
	log := NewExchangeLog(testDB(t))

	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestExchangeLog_CountAndClear(t *testing.T) {
	log := NewExchangeLog(testDB(t))
	ctx := context.Background()

	for range 3 {
		_, err := log.Record(ctx, domain.Exchange{Agent: "a", Question: "q", Answer: "a"})
		require.NoError(t, err)
	}

	n, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	removed, err := log.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	n, err = log.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExchangeLog_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	stored, err := NewExchangeLog(db).Record(ctx, domain.Exchange{Agent: "a", Question: "q", Answer: "a"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	defer db.Close()

	got, err := NewExchangeLog(db).Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "q", got.Question)
}
