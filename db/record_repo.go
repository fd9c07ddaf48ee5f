package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
)

var _ domain.RecordRepository = (*Repository)(nil)

var (
	// ErrNoRecord is returned when an operation targets a render record that
	// does not exist.
	ErrNoRecord = errors.New("render record not found")
)

// dbRecord represents a render record as stored in the database.
type dbRecord struct {
	ID           uuid.UUID `db:"id"`
	TemplateName string    `db:"template_name"`
	Description  string    `db:"description"`
	EntryDate    time.Time `db:"entry_date"`
	Rendered     string    `db:"rendered"`
	Posted       bool      `db:"posted"`
	Journal      string    `db:"journal"`
	Metadata     Metadata  `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

// toDomainRecord converts a dbRecord to a domain.Record.
func toDomainRecord(dbRecord *dbRecord) *domain.Record {
	return &domain.Record{
		ID:           dbRecord.ID,
		TemplateName: dbRecord.TemplateName,
		Description:  dbRecord.Description,
		EntryDate:    dbRecord.EntryDate,
		Rendered:     dbRecord.Rendered,
		Posted:       dbRecord.Posted,
		Journal:      dbRecord.Journal,
		Metadata:     map[string]any(dbRecord.Metadata),
		CreatedAt:    dbRecord.CreatedAt,
	}
}

// fromDomainRecord converts a domain.Record to a dbRecord.
func fromDomainRecord(record *domain.Record) *dbRecord {
	return &dbRecord{
		ID:           record.ID,
		TemplateName: record.TemplateName,
		Description:  record.Description,
		EntryDate:    record.EntryDate,
		Rendered:     record.Rendered,
		Posted:       record.Posted,
		Journal:      record.Journal,
		Metadata:     Metadata(record.Metadata),
		CreatedAt:    record.CreatedAt,
	}
}

// InsertRecord saves a new render record.
func (repo *Repository) InsertRecord(record *domain.Record) error {
	dbRecord := fromDomainRecord(record)
	query := `INSERT INTO records (id, template_name, description, entry_date, rendered, posted, journal, metadata, created_at)
	          VALUES (:id, :template_name, :description, :entry_date, :rendered, :posted, :journal, :metadata, :created_at)`

	_, err := repo.dbConn.NamedExec(query, dbRecord)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", record.ID, err)
	}

	return nil
}

// GetRecords retrieves render records, most recent first. A limit of 0
// retrieves everything.
func (repo *Repository) GetRecords(limit int) ([]*domain.Record, error) {
	var dbRecords []*dbRecord

	query := `SELECT * FROM records ORDER BY created_at DESC`
	var err error
	if limit > 0 {
		err = repo.dbConn.Select(&dbRecords, query+` LIMIT ?`, limit)
	} else {
		err = repo.dbConn.Select(&dbRecords, query)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}

	domainRecords := make([]*domain.Record, len(dbRecords))
	for i, dbRecord := range dbRecords {
		domainRecords[i] = toDomainRecord(dbRecord)
	}

	return domainRecords, nil
}

// GetRecord retrieves a single record by its ID.
func (repo *Repository) GetRecord(id uuid.UUID) (*domain.Record, error) {
	var dbRecord dbRecord
	query := `SELECT * FROM records WHERE id = ?`

	err := repo.dbConn.Get(&dbRecord, query, id)
	if err != nil {
		return nil, fmt.Errorf("fetching record %s: %w", id, err)
	}

	return toDomainRecord(&dbRecord), nil
}

// MarkRecordPosted flags a record as posted and stores the journal it was
// appended to.
func (repo *Repository) MarkRecordPosted(id uuid.UUID, journal string) error {
	query := `UPDATE records SET posted = 1, journal = ? WHERE id = ?`

	result, err := repo.dbConn.Exec(query, journal, id)
	if err != nil {
		return fmt.Errorf("marking record %s posted: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update rows affected for %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNoRecord
	}

	return nil
}

// CountRecords returns the number of render records.
func (repo *Repository) CountRecords() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM records`

	err := repo.dbConn.Get(&count, query)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}

	return count, nil
}
