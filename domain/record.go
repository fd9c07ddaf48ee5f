package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordRepository defines the interface for the render history.
// Every successfully rendered transaction is captured as a Record; posting a
// transaction to a journal marks its record.
type RecordRepository interface {
	// InsertRecord saves a new render record.
	InsertRecord(record *Record) error

	// GetRecords retrieves render records, most recent first. A limit of 0
	// retrieves everything.
	GetRecords(limit int) ([]*Record, error)

	// GetRecord retrieves a single record by its ID.
	GetRecord(id uuid.UUID) (*Record, error)

	// MarkRecordPosted flags a record as posted and stores the journal it
	// was appended to.
	MarkRecordPosted(id uuid.UUID, journal string) error

	// CountRecords returns the number of render records.
	CountRecords() (int64, error)
}

// Record represents one rendered transaction in the history.
type Record struct {
	ID           uuid.UUID      // Unique identifier for the record.
	TemplateName string         // Name or path of the template that was rendered.
	Description  string         // The transaction description.
	EntryDate    time.Time      // The transaction date.
	Rendered     string         // The full rendered journal entry text.
	Posted       bool           // Whether the entry was appended to a journal.
	Journal      string         // The journal file the entry was posted to, if any.
	Metadata     map[string]any // A map of additional key-value data (variables, overrides).
	CreatedAt    time.Time      // When the render happened.
}
