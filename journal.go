package ptatemp

import (
	"errors"
	"fmt"
	"os"

	"github.com/tfkr-ae/ptatemp/domain"
)

// ErrNoJournal is returned when no journal file can be resolved from the
// flag, the environment, or the stored default.
var ErrNoJournal = errors.New("no journal file configured")

// ResolveJournal picks the journal file for an operation. The explicit flag
// wins, then the engine-level override, then the LEDGER_FILE environment
// variable, then the default stored in the repository.
func (engine *Engine) ResolveJournal(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if engine.Journal != "" {
		return engine.Journal, nil
	}
	if fromEnv := os.Getenv("LEDGER_FILE"); fromEnv != "" {
		return fromEnv, nil
	}
	if engine.Repo != nil {
		journal, err := engine.Repo.GetDefaultJournal()
		if err != nil {
			return "", fmt.Errorf("getting default journal : %w", err)
		}
		if journal != "" {
			return journal, nil
		}
	}
	return "", ErrNoJournal
}

// SetDefaultJournal stores the journal used when neither the flag nor
// LEDGER_FILE is present, both in the repository and in the YAML config.
func (engine *Engine) SetDefaultJournal(journal string) error {
	if engine.Repo != nil {
		if err := engine.Repo.SetDefaultJournal(journal); err != nil {
			return fmt.Errorf("storing default journal : %w", err)
		}
	}
	if engine.Config != nil {
		if err := engine.Config.SetDefaultJournal(journal); err != nil {
			return fmt.Errorf("saving default journal to config : %w", err)
		}
	}
	return nil
}

// Post appends a balanced transaction to the journal file, creating the file
// if it does not exist. Entries are separated by a blank line.
func (engine *Engine) Post(transaction *domain.Transaction, journal string) error {
	if err := transaction.Check(); err != nil {
		return fmt.Errorf("checking transaction before posting : %w", err)
	}

	separator := ""
	if info, err := os.Stat(journal); err == nil && info.Size() > 0 {
		separator = "\n"
	}

	file, err := os.OpenFile(journal, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening journal %s : %w", journal, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s%s\n", separator, transaction.Render(engine.Currency())); err != nil {
		return fmt.Errorf("appending to journal %s : %w", journal, err)
	}

	return nil
}
