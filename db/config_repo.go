package db

import (
	"fmt"

	"github.com/tfkr-ae/ptatemp/domain"
)

var _ domain.ConfigRepository = (*Repository)(nil)

// GetDefaultJournal implements the domain.ConfigRepository interface.
// It retrieves the default journal file from the 'app' table.
func (repo *Repository) GetDefaultJournal() (string, error) {
	var journal string
	query := `SELECT default_journal FROM app LIMIT 1`

	err := repo.dbConn.Get(&journal, query)
	if err != nil {
		return "", fmt.Errorf("getting default journal: %w", err)
	}

	return journal, nil
}

// SetDefaultJournal implements the domain.ConfigRepository interface.
// It updates the default journal file in the 'app' table.
func (repo *Repository) SetDefaultJournal(journal string) error {
	query := `UPDATE app SET default_journal = ?`

	_, err := repo.dbConn.Exec(query, journal)
	if err != nil {
		return fmt.Errorf("updating default journal %s: %w", journal, err)
	}

	return nil
}

// GetCurrency implements the domain.ConfigRepository interface.
// It retrieves the currency symbol from the 'app' table.
func (repo *Repository) GetCurrency() (string, error) {
	var currency string
	query := `SELECT currency FROM app LIMIT 1`

	err := repo.dbConn.Get(&currency, query)
	if err != nil {
		return "", fmt.Errorf("getting currency: %w", err)
	}

	return currency, nil
}

// SetCurrency implements the domain.ConfigRepository interface.
// It updates the currency symbol in the 'app' table.
func (repo *Repository) SetCurrency(currency string) error {
	query := `UPDATE app SET currency = ?`

	_, err := repo.dbConn.Exec(query, currency)
	if err != nil {
		return fmt.Errorf("updating currency %s: %w", currency, err)
	}

	return nil
}
