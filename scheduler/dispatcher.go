package scheduler

import (
	"fmt"
	"log"
	"snipe-bot/model"
	"snipe-bot/utils"
	"snipe-bot/utils/database"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
)

// DefaultPollInterval bounds how often the dispatcher polls the job table.
const DefaultPollInterval = 3 * time.Second

// Actions are the chat-platform side effects the dispatcher performs for
// claimed jobs.
type Actions interface {
	DisconnectMember(guildID, userID string) error
	SendDirectMessage(userID, content string) error
}

// Dispatcher claims due jobs and executes them. At most one poll loop runs
// per process; the loop terminates itself once the job table is empty and is
// restarted by the next Ensure call.
type Dispatcher struct {
	db       *sqlx.DB
	actions  Actions
	interval time.Duration
	running  atomic.Bool
}

func NewDispatcher(db *sqlx.DB, actions Actions, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Dispatcher{db: db, actions: actions, interval: interval}
}

// Ensure starts the poll loop unless one is already running. The flag flip is
// a single compare-and-swap, so two racing calls start at most one loop.
func (d *Dispatcher) Ensure() {
	if d.running.CompareAndSwap(false, true) {
		go d.run()
	}
}

// Running reports whether a poll loop is currently active.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

func (d *Dispatcher) run() {
	for {
		jobs, err := database.ClaimDueJobs(d.db, time.Now().UTC())
		if err != nil {
			log.Printf("dispatcher: error claiming due jobs: %v", err)
		}
		for _, job := range jobs {
			// Fire and forget: one slow or failing action must not
			// delay the next poll or its sibling jobs.
			go d.execute(job)
		}

		time.Sleep(d.interval)

		count, err := database.CountJobs(d.db)
		if err != nil {
			log.Printf("dispatcher: error counting jobs: %v", err)
			continue
		}
		if count == 0 {
			d.running.Store(false)
			// An insert that landed after the count saw the flag still
			// set and skipped starting a loop. Pick such jobs up here.
			if count, err := database.CountJobs(d.db); err == nil && count > 0 {
				d.Ensure()
			}
			return
		}
	}
}

// execute performs a single claimed job. Failures are logged and never
// re-queued; a claimed job runs at most once.
func (d *Dispatcher) execute(job model.Job) {
	switch job.EventType {
	case model.EventDisconnect:
		if err := d.actions.DisconnectMember(job.GuildID, job.UserID); err != nil {
			log.Printf("dispatcher: failed to disconnect user %s in guild %s: %v", job.UserID, job.GuildID, err)
			return
		}
		content := fmt.Sprintf("%sに通話を強制切断しました", utils.FormatInstant(job.DueAt, job.UTCOffset))
		if err := d.actions.SendDirectMessage(job.UserID, content); err != nil {
			log.Printf("dispatcher: failed to notify user %s: %v", job.UserID, err)
		}
	case model.EventAdvanceNotice:
		if err := d.actions.SendDirectMessage(job.UserID, "3分後に通話を強制切断します"); err != nil {
			log.Printf("dispatcher: failed to warn user %s: %v", job.UserID, err)
		}
	default:
		log.Printf("dispatcher: unknown event type %q for user %s", job.EventType, job.UserID)
	}
}
