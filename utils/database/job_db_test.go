package database

import (
	"errors"
	"fmt"
	"snipe-bot/model"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := InitSnipeDB(dsn)
	if err != nil {
		t.Fatalf("InitSnipeDB error: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func testJob(due time.Time) model.Job {
	return model.Job{
		DueAt:     due,
		UserID:    "user-1",
		GuildID:   "guild-1",
		EventType: model.EventDisconnect,
		UTCOffset: 9,
	}
}

func TestInsertJobDuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := InsertJob(db, testJob(due)); err != nil {
		t.Fatalf("first insert error: %v", err)
	}
	if err := InsertJob(db, testJob(due)); !errors.Is(err, model.ErrJobExists) {
		t.Fatalf("second insert: expected ErrJobExists, got %v", err)
	}

	count, err := CountJobs(db)
	if err != nil {
		t.Fatalf("CountJobs error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestInsertJobDistinctEventTypes(t *testing.T) {
	db := newTestDB(t)
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := InsertJob(db, testJob(due)); err != nil {
		t.Fatalf("disconnect insert error: %v", err)
	}
	notice := testJob(due)
	notice.EventType = model.EventAdvanceNotice
	if err := InsertJob(db, notice); err != nil {
		t.Fatalf("notice insert error: %v", err)
	}

	if count, _ := CountJobs(db); count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestClaimDueJobsAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	past := testJob(now.Add(-time.Minute))
	future := testJob(now.Add(time.Hour))
	if err := InsertJob(db, past); err != nil {
		t.Fatalf("insert past job: %v", err)
	}
	if err := InsertJob(db, future); err != nil {
		t.Fatalf("insert future job: %v", err)
	}

	claimed, err := ClaimDueJobs(db, now)
	if err != nil {
		t.Fatalf("ClaimDueJobs error: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("claimed %d jobs, want 1", len(claimed))
	}
	if !claimed[0].DueAt.UTC().Equal(past.DueAt) {
		t.Fatalf("claimed job due %v, want %v", claimed[0].DueAt, past.DueAt)
	}
	if claimed[0].UTCOffset != 9 {
		t.Fatalf("claimed job offset = %d, want 9", claimed[0].UTCOffset)
	}

	again, err := ClaimDueJobs(db, now)
	if err != nil {
		t.Fatalf("second ClaimDueJobs error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second claim returned %d jobs, want 0", len(again))
	}

	if count, _ := CountJobs(db); count != 1 {
		t.Fatalf("count after claim = %d, want 1", count)
	}
}

func TestClaimDueJobsBoundaryInclusive(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := InsertJob(db, testJob(now)); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	claimed, err := ClaimDueJobs(db, now)
	if err != nil {
		t.Fatalf("ClaimDueJobs error: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("job due exactly now was not claimed")
	}
}

func TestDeleteUserJobs(t *testing.T) {
	db := newTestDB(t)
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mine := testJob(due)
	other := testJob(due)
	other.UserID = "user-2"
	if err := InsertJob(db, mine); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if err := InsertJob(db, other); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	removed, err := DeleteUserJobs(db, "guild-1", "user-1")
	if err != nil {
		t.Fatalf("DeleteUserJobs error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if count, _ := CountJobs(db); count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestDeleteGuildJobsLeavesNothingListed(t *testing.T) {
	db := newTestDB(t)
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		job := testJob(due.Add(time.Duration(i) * time.Minute))
		if err := InsertJob(db, job); err != nil {
			t.Fatalf("insert error: %v", err)
		}
	}

	removed, err := DeleteGuildJobs(db, "guild-1")
	if err != nil {
		t.Fatalf("DeleteGuildJobs error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}

	jobs, err := ListGuildJobs(db, "guild-1")
	if err != nil {
		t.Fatalf("ListGuildJobs error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("listed %d jobs after guild delete, want 0", len(jobs))
	}
}

func TestListGuildJobsOrderedByDueTime(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	later := testJob(base.Add(2 * time.Hour))
	earlier := testJob(base.Add(time.Hour))
	if err := InsertJob(db, later); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if err := InsertJob(db, earlier); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	jobs, err := ListGuildJobs(db, "guild-1")
	if err != nil {
		t.Fatalf("ListGuildJobs error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("listed %d jobs, want 2", len(jobs))
	}
	if !jobs[0].DueAt.Before(jobs[1].DueAt) {
		t.Fatalf("jobs not ordered by due time: %v, %v", jobs[0].DueAt, jobs[1].DueAt)
	}
}
