package database

import (
	"errors"
	"snipe-bot/model"
	"testing"
	"time"
)

func TestUpsertDefaultSettingKeepsExistingOffset(t *testing.T) {
	db := newTestDB(t)

	if err := UpsertDefaultSetting(db, "guild-1"); err != nil {
		t.Fatalf("UpsertDefaultSetting error: %v", err)
	}
	if err := UpdateSettingOffset(db, "guild-1", 9); err != nil {
		t.Fatalf("UpdateSettingOffset error: %v", err)
	}
	// A second upsert (e.g. bot rejoin) must not reset the offset.
	if err := UpsertDefaultSetting(db, "guild-1"); err != nil {
		t.Fatalf("second UpsertDefaultSetting error: %v", err)
	}

	setting, err := GetSetting(db, "guild-1")
	if err != nil {
		t.Fatalf("GetSetting error: %v", err)
	}
	if setting.UTCOffset != 9 {
		t.Fatalf("offset = %d, want 9", setting.UTCOffset)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetSetting(db, "missing")
	if !errors.Is(err, model.ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestUpdateSettingOffsetMissingGuild(t *testing.T) {
	db := newTestDB(t)

	err := UpdateSettingOffset(db, "missing", 5)
	if !errors.Is(err, model.ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestDeleteGuildCascadesJobs(t *testing.T) {
	db := newTestDB(t)
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := UpsertDefaultSetting(db, "guild-1"); err != nil {
		t.Fatalf("UpsertDefaultSetting error: %v", err)
	}
	if err := InsertJob(db, testJob(due)); err != nil {
		t.Fatalf("InsertJob error: %v", err)
	}

	if err := DeleteGuild(db, "guild-1"); err != nil {
		t.Fatalf("DeleteGuild error: %v", err)
	}

	if _, err := GetSetting(db, "guild-1"); !errors.Is(err, model.ErrSettingNotFound) {
		t.Fatalf("setting survived guild delete: %v", err)
	}
	jobs, err := ListGuildJobs(db, "guild-1")
	if err != nil {
		t.Fatalf("ListGuildJobs error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("%d jobs survived guild delete", len(jobs))
	}
}

func TestListSettings(t *testing.T) {
	db := newTestDB(t)

	for _, guildID := range []string{"guild-1", "guild-2"} {
		if err := UpsertDefaultSetting(db, guildID); err != nil {
			t.Fatalf("UpsertDefaultSetting error: %v", err)
		}
	}

	settings, err := ListSettings(db)
	if err != nil {
		t.Fatalf("ListSettings error: %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("listed %d settings, want 2", len(settings))
	}
}
