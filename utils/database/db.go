package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitSnipeDB opens the bot database and ensures the job and setting tables
// exist. The job table has no surrogate key; a job is identified by the
// (due_at, user_id, guild_id, event_type) tuple.
func InitSnipeDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to snipe database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS job (
        due_at DATETIME NOT NULL,
        user_id TEXT NOT NULL,
        guild_id TEXT NOT NULL,
        event_type TEXT NOT NULL,
        utc_offset INTEGER NOT NULL DEFAULT 0,
        UNIQUE (due_at, user_id, guild_id, event_type)
    );
    CREATE TABLE IF NOT EXISTS setting (
        guild_id TEXT NOT NULL PRIMARY KEY,
        utc_offset INTEGER NOT NULL DEFAULT 0
    );`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create snipe tables: %w", err)
	}

	return db, nil
}
