package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

func TestLogRoundtrip(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()

	testTemplate(t, repo, "groceries")
	record := testRecord(t, repo, "groceries")
	ext := testExtension(t, repo, "budget-checks")

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("creating uuid: %v", err)
	}

	entry := &domain.Log{
		ID:          id,
		Timestamp:   time.Now().UTC().Truncate(time.Millisecond),
		Level:       "INFO",
		Message:     "rendered entry",
		Context:     map[string]any{"template": "groceries"},
		RecordID:    &record.ID,
		ExtensionID: &ext.ID,
	}

	if err := repo.InsertLog(entry); err != nil {
		t.Fatalf("InsertLog() failed: %v", err)
	}

	// A log with no associations exercises the NULL path.
	bareID, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("creating uuid: %v", err)
	}
	bare := &domain.Log{
		ID:        bareID,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Level:     "WARN",
		Message:   "skipping malformed variable",
		Context:   map[string]any{},
	}
	if err := repo.InsertLog(bare); err != nil {
		t.Fatalf("InsertLog() failed: %v", err)
	}

	logs, err := repo.GetLogs()
	if err != nil {
		t.Fatalf("GetLogs() failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("GetLogs() returned %d logs, want 2", len(logs))
	}

	byID := make(map[uuid.UUID]*domain.Log, len(logs))
	for _, l := range logs {
		byID[l.ID] = l
	}

	got := byID[id]
	if got == nil {
		t.Fatal("associated log not returned")
	}
	if got.RecordID == nil || *got.RecordID != record.ID {
		t.Errorf("RecordID = %v, want %s", got.RecordID, record.ID)
	}
	if got.ExtensionID == nil || *got.ExtensionID != ext.ID {
		t.Errorf("ExtensionID = %v, want %s", got.ExtensionID, ext.ID)
	}
	if got.Context["template"] != "groceries" {
		t.Errorf("Context = %v, want template=groceries", got.Context)
	}

	gotBare := byID[bareID]
	if gotBare == nil {
		t.Fatal("bare log not returned")
	}
	if gotBare.RecordID != nil || gotBare.ExtensionID != nil {
		t.Errorf("bare log should have nil associations, got %v / %v", gotBare.RecordID, gotBare.ExtensionID)
	}
}
