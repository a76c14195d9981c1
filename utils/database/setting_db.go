package database

import (
	"database/sql"
	"errors"
	"fmt"
	"snipe-bot/model"

	"github.com/jmoiron/sqlx"
)

// UpsertDefaultSetting creates a setting row with offset 0 for a guild.
// Existing rows are left untouched.
func UpsertDefaultSetting(db *sqlx.DB, guildID string) error {
	_, err := db.Exec("INSERT OR IGNORE INTO setting (guild_id, utc_offset) VALUES (?, 0)", guildID)
	if err != nil {
		return fmt.Errorf("failed to upsert setting for guild %s: %w", guildID, err)
	}
	return nil
}

// GetSetting returns a guild's setting, or model.ErrSettingNotFound.
func GetSetting(db *sqlx.DB, guildID string) (model.GuildSetting, error) {
	var setting model.GuildSetting
	err := db.Get(&setting, "SELECT guild_id, utc_offset FROM setting WHERE guild_id = ?", guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GuildSetting{}, model.ErrSettingNotFound
	}
	if err != nil {
		return model.GuildSetting{}, fmt.Errorf("failed to get setting for guild %s: %w", guildID, err)
	}
	return setting, nil
}

// UpdateSettingOffset sets a guild's UTC offset. The guild must already have
// a setting row.
func UpdateSettingOffset(db *sqlx.DB, guildID string, offsetHours int) error {
	result, err := db.Exec("UPDATE setting SET utc_offset = ? WHERE guild_id = ?", offsetHours, guildID)
	if err != nil {
		return fmt.Errorf("failed to update setting for guild %s: %w", guildID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for setting update: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrSettingNotFound
	}
	return nil
}

// DeleteGuild removes a guild's setting together with all of its pending
// jobs, in one transaction. A removed guild owns no jobs afterwards.
func DeleteGuild(db *sqlx.DB, guildID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin guild delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM setting WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete setting for guild %s: %w", guildID, err)
	}
	if _, err := tx.Exec("DELETE FROM job WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete jobs for guild %s: %w", guildID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit guild delete for guild %s: %w", guildID, err)
	}
	return nil
}

// ListSettings returns the settings of every known guild.
func ListSettings(db *sqlx.DB) ([]model.GuildSetting, error) {
	var settings []model.GuildSetting
	if err := db.Select(&settings, "SELECT guild_id, utc_offset FROM setting"); err != nil {
		return nil, fmt.Errorf("failed to list guild settings: %w", err)
	}
	return settings, nil
}
