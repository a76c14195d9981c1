package database

import (
	"fmt"
	"snipe-bot/model"
	"time"

	"github.com/jmoiron/sqlx"
)

// InsertJob persists a pending job. Inserting a job whose identity tuple is
// already present returns model.ErrJobExists and leaves the table unchanged.
func InsertJob(db *sqlx.DB, job model.Job) error {
	job.DueAt = job.DueAt.UTC()

	query := `INSERT OR IGNORE INTO job (due_at, user_id, guild_id, event_type, utc_offset)
              VALUES (:due_at, :user_id, :guild_id, :event_type, :utc_offset)`

	result, err := db.NamedExec(query, job)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for job insert: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrJobExists
	}
	return nil
}

// ClaimDueJobs removes and returns every job due at or before now. The select
// and delete share one transaction and one bound instant, so a job is handed
// to exactly one caller.
func ClaimDueJobs(db *sqlx.DB, now time.Time) ([]model.Job, error) {
	now = now.UTC()

	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	var jobs []model.Job
	if err := tx.Select(&jobs, "SELECT due_at, user_id, guild_id, event_type, utc_offset FROM job WHERE due_at <= ?", now); err != nil {
		return nil, fmt.Errorf("failed to select due jobs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM job WHERE due_at <= ?", now); err != nil {
		return nil, fmt.Errorf("failed to delete due jobs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}
	return jobs, nil
}

// DeleteUserJobs removes every pending job for a user in a guild.
func DeleteUserJobs(db *sqlx.DB, guildID, userID string) (int64, error) {
	result, err := db.Exec("DELETE FROM job WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete jobs for user %s in guild %s: %w", userID, guildID, err)
	}
	return result.RowsAffected()
}

// DeleteGuildJobs removes every pending job for a guild.
func DeleteGuildJobs(db *sqlx.DB, guildID string) (int64, error) {
	result, err := db.Exec("DELETE FROM job WHERE guild_id = ?", guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete jobs for guild %s: %w", guildID, err)
	}
	return result.RowsAffected()
}

// ListGuildJobs returns a guild's pending jobs ordered by due time.
func ListGuildJobs(db *sqlx.DB, guildID string) ([]model.Job, error) {
	var jobs []model.Job
	query := `SELECT due_at, user_id, guild_id, event_type, utc_offset FROM job
              WHERE guild_id = ? ORDER BY due_at ASC`
	if err := db.Select(&jobs, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list jobs for guild %s: %w", guildID, err)
	}
	return jobs, nil
}

// CountJobs returns the total number of pending jobs across all guilds.
func CountJobs(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM job"); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
