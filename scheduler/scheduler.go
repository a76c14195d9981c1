// Package scheduler schedules and executes deferred per-user voice
// disconnects. Jobs live in the sqlite job table; the dispatcher claims and
// runs them when due.
package scheduler

import (
	"errors"
	"fmt"
	"snipe-bot/model"
	"snipe-bot/utils"
	"snipe-bot/utils/database"
	"time"

	"github.com/jmoiron/sqlx"
)

// Mode selects how a time expression is interpreted.
type Mode string

const (
	// ModeAbsolute treats the expression as a guild-local wall-clock time.
	ModeAbsolute Mode = "at"
	// ModeRelative treats the expression as an offset from now.
	ModeRelative Mode = "in"
)

// ScheduleJobs resolves a time expression against a guild's timezone and
// persists a disconnect job for the user, plus an advance-notice job when the
// warning instant is still strictly in the future. Scheduling the same
// disconnect twice is an idempotent success. Returns the due instant.
func ScheduleJobs(db *sqlx.DB, guildID, userID, expr string, mode Mode, now time.Time) (time.Time, error) {
	hour, minute, err := utils.ParseTimeExpression(expr)
	if err != nil {
		return time.Time{}, err
	}

	offset := 0
	setting, err := database.GetSetting(db, guildID)
	switch {
	case err == nil:
		offset = setting.UTCOffset
	case errors.Is(err, model.ErrSettingNotFound):
		// Unconfigured guilds schedule in UTC.
	default:
		return time.Time{}, err
	}

	var due time.Time
	switch mode {
	case ModeRelative:
		var h, m int
		if hour != nil {
			h = *hour
		}
		if minute != nil {
			m = *minute
		}
		due = utils.ResolveRelative(h, m, now)
	case ModeAbsolute:
		due, err = utils.ResolveAbsolute(hour, minute, offset, now)
		if err != nil {
			return time.Time{}, err
		}
	default:
		return time.Time{}, fmt.Errorf("unknown snipe mode %q", mode)
	}

	if notice := utils.AdvanceNoticeAt(due); notice.After(now) {
		job := model.Job{DueAt: notice, UserID: userID, GuildID: guildID, EventType: model.EventAdvanceNotice, UTCOffset: offset}
		if err := database.InsertJob(db, job); err != nil && !errors.Is(err, model.ErrJobExists) {
			return time.Time{}, err
		}
	}

	job := model.Job{DueAt: due, UserID: userID, GuildID: guildID, EventType: model.EventDisconnect, UTCOffset: offset}
	if err := database.InsertJob(db, job); err != nil && !errors.Is(err, model.ErrJobExists) {
		return time.Time{}, err
	}

	return due, nil
}

// ListPending returns a guild's pending jobs ordered by due time.
func ListPending(db *sqlx.DB, guildID string) ([]model.Job, error) {
	return database.ListGuildJobs(db, guildID)
}

// ClearPending removes a user's pending jobs in a guild and reports how many
// were dropped. Jobs already claimed by the dispatcher still execute.
func ClearPending(db *sqlx.DB, guildID, userID string) (int64, error) {
	return database.DeleteUserJobs(db, guildID, userID)
}

// SetGuildTimezone stores a guild's UTC offset in whole hours.
func SetGuildTimezone(db *sqlx.DB, guildID string, offsetHours int) error {
	if offsetHours < -12 || offsetHours > 12 {
		return model.ErrInvalidOffset
	}
	return database.UpdateSettingOffset(db, guildID, offsetHours)
}

// GetGuildTimezone returns a guild's UTC offset in whole hours.
func GetGuildTimezone(db *sqlx.DB, guildID string) (int, error) {
	setting, err := database.GetSetting(db, guildID)
	if err != nil {
		return 0, err
	}
	return setting.UTCOffset, nil
}
