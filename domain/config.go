package domain

// ConfigRepository defines the interface for managing application-level settings
// that live alongside the data rather than in the YAML config file.
type ConfigRepository interface {
	// GetDefaultJournal retrieves the journal file used when neither the
	// journal flag nor the LEDGER_FILE environment variable is set.
	GetDefaultJournal() (string, error)

	// SetDefaultJournal updates the default journal file.
	SetDefaultJournal(journal string) error

	// GetCurrency retrieves the currency symbol used when rendering amounts.
	GetCurrency() (string, error)

	// SetCurrency updates the currency symbol.
	SetCurrency(currency string) error
}
