package model

import "time"

// EventType selects what the dispatcher does when a job comes due.
type EventType string

const (
	EventDisconnect    EventType = "disconnect"
	EventAdvanceNotice EventType = "advance_notice"
)

// Job is a single pending action. A job is identified by the tuple
// (due_at, user_id, guild_id, event_type); there is no surrogate key.
// UTCOffset snapshots the guild's offset at creation time so display
// formatting stays stable if the guild changes its timezone later.
type Job struct {
	DueAt     time.Time `db:"due_at"`
	UserID    string    `db:"user_id"`
	GuildID   string    `db:"guild_id"`
	EventType EventType `db:"event_type"`
	UTCOffset int       `db:"utc_offset"`
}

// GuildSetting holds a guild's UTC offset in whole hours.
type GuildSetting struct {
	GuildID   string `db:"guild_id"`
	UTCOffset int    `db:"utc_offset"`
}
