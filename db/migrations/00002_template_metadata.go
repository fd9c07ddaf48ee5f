package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func init() {
	goose.AddMigrationContext(upTemplateMetadata, downTemplateMetadata)
}

func upTemplateMetadata(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE templates ADD COLUMN metadata TEXT`)
	if err != nil {
		return fmt.Errorf("adding metadata column : %w", err)
	}

	rows, err := tx.Query("SELECT id, metadata FROM templates")
	if err != nil {
		return fmt.Errorf("getting all rows: %w", err)
	}
	defer rows.Close()

	var backfill []string
	for rows.Next() {
		var id string
		var metadata sql.NullString
		if err := rows.Scan(&id, &metadata); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		if !metadata.Valid || metadata.String == "" {
			backfill = append(backfill, id)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	for _, id := range backfill {
		_, err = tx.Exec("UPDATE templates SET metadata = '{}' WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("backfilling row %s : %w", id, err)
		}
	}
	return nil
}

func downTemplateMetadata(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE templates DROP COLUMN metadata`)
	if err != nil {
		return fmt.Errorf("dropping metadata column : %w", err)
	}
	return nil
}
