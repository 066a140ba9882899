package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create exchanges",
		SQL: `
			CREATE TABLE exchanges (
				id            TEXT PRIMARY KEY,
				agent         TEXT NOT NULL,
				model         TEXT NOT NULL DEFAULT '',
				question      TEXT NOT NULL,
				answer        TEXT NOT NULL,
				input_tokens  INTEGER NOT NULL DEFAULT 0,
				output_tokens INTEGER NOT NULL DEFAULT 0,
				duration_ms   INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL
			);

			CREATE INDEX idx_exchanges_created ON exchanges (created_at);
		`,
	},
	{
		Version: 2,
		Name:    "index exchanges by agent",
		SQL: `
			CREATE INDEX idx_exchanges_agent ON exchanges (agent, created_at);
		`,
	},
}
