package db

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewRepository(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func testTemplate(t *testing.T, repo *Repository, name string) *domain.Template {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("creating uuid: %v", err)
	}

	template := &domain.Template{
		ID:          id,
		Name:        name,
		Description: "groceries with budget postings",
		Content:     "Expenses:Groceries  {{ amount }}\nAssets:Checking  -{{ amount }}",
		Metadata:    map[string]any{"tags": "food"},
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	err = repo.CreateTemplate(template)
	if err != nil {
		t.Fatalf("inserting template: %v", err)
	}
	return template
}

func testRecord(t *testing.T, repo *Repository, templateName string) *domain.Record {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("creating uuid: %v", err)
	}

	record := &domain.Record{
		ID:           id,
		TemplateName: templateName,
		Description:  "Groceries",
		EntryDate:    time.Now().UTC().Truncate(time.Millisecond),
		Rendered:     "2025-03-14 Groceries\n    Assets:Checking  \t$-42.50\n    Expenses:Groceries  \t$42.50",
		Metadata:     map[string]any{"amount": "42.50"},
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	err = repo.InsertRecord(record)
	if err != nil {
		t.Fatalf("inserting record: %v", err)
	}
	return record
}

func testExtension(t *testing.T, repo *Repository, name string) *domain.Extension {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("creating uuid: %v", err)
	}

	ext := &domain.Extension{
		ID:         id,
		Name:       name,
		Author:     "tester",
		LuaContent: `print("hello")`,
		Enabled:    true,
		Settings:   map[string]any{},
		UpdatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	err = repo.CreateExtension(ext)
	if err != nil {
		t.Fatalf("inserting extension: %v", err)
	}
	return ext
}
