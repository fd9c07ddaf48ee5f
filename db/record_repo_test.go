package db

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

func TestRecordLifecycle(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()

	testTemplate(t, repo, "groceries")

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		id, err := uuid.NewV7()
		if err != nil {
			t.Fatalf("creating uuid: %v", err)
		}
		ids[i] = id

		record := &domain.Record{
			ID:           id,
			TemplateName: "groceries",
			Description:  "Groceries",
			EntryDate:    base,
			Rendered:     "2025-03-14 Groceries\n    Assets:Checking  \t$-42.50\n    Expenses:Groceries  \t$42.50",
			Metadata:     map[string]any{},
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.InsertRecord(record); err != nil {
			t.Fatalf("inserting record: %v", err)
		}
	}

	t.Run("get single", func(t *testing.T) {
		got, err := repo.GetRecord(ids[0])
		if err != nil {
			t.Fatalf("GetRecord() failed: %v", err)
		}
		if got.TemplateName != "groceries" {
			t.Errorf("TemplateName = %q, want groceries", got.TemplateName)
		}
		if got.Posted {
			t.Error("new record should not be posted")
		}
	})

	t.Run("newest first with limit", func(t *testing.T) {
		records, err := repo.GetRecords(2)
		if err != nil {
			t.Fatalf("GetRecords() failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("GetRecords(2) returned %d records, want 2", len(records))
		}
		if records[0].ID != ids[2] || records[1].ID != ids[1] {
			t.Errorf("unexpected order: %s, %s", records[0].ID, records[1].ID)
		}

		all, err := repo.GetRecords(0)
		if err != nil {
			t.Fatalf("GetRecords(0) failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("GetRecords(0) returned %d records, want 3", len(all))
		}

		count, err := repo.CountRecords()
		if err != nil {
			t.Fatalf("CountRecords() failed: %v", err)
		}
		if count != 3 {
			t.Errorf("CountRecords() = %d, want 3", count)
		}
	})

	t.Run("mark posted", func(t *testing.T) {
		if err := repo.MarkRecordPosted(ids[0], "/tmp/journal.ledger"); err != nil {
			t.Fatalf("MarkRecordPosted() failed: %v", err)
		}

		got, err := repo.GetRecord(ids[0])
		if err != nil {
			t.Fatalf("GetRecord() failed: %v", err)
		}
		if !got.Posted {
			t.Error("record should be posted")
		}
		if got.Journal != "/tmp/journal.ledger" {
			t.Errorf("Journal = %q, want /tmp/journal.ledger", got.Journal)
		}

		missing, err := uuid.NewV7()
		if err != nil {
			t.Fatalf("creating uuid: %v", err)
		}
		if err := repo.MarkRecordPosted(missing, "j"); !errors.Is(err, ErrNoRecord) {
			t.Errorf("MarkRecordPosted(missing) error = %v, want ErrNoRecord", err)
		}
	})
}
