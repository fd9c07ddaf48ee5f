// Package ptatemp provides a template engine for plaintext accounting journal
// entries, with Lua extension support and SQLite-backed storage. It is designed
// to be decoupled from any particular frontend and exposes the render and post
// operations as a library consumed by the ptatemp CLI.
//
// The core functionality includes:
//   - Jinja2-style template rendering of journal entries
//   - Balance interpolation against a live ledger (hledger or ledger)
//   - Transaction balancing with independent real and virtual posting sums
//   - Lua-based extension system for template filters and transaction hooks
//   - SQLite storage for templates, render history, extensions, and logs
//   - Scope-based account validation
package ptatemp

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/extensions"
	"github.com/tfkr-ae/ptatemp/scope"
)

// Repository defines the storage methods consumed by the engine. It composes
// the per-concern repository interfaces from the domain package; the db
// package implements all of them over a single SQLite connection.
type Repository interface {
	domain.TemplateRepository
	domain.RecordRepository
	domain.LogRepository
	domain.ExtensionRepository
	domain.ConfigRepository
	Close() error
}

// Engine is the main struct that orchestrates rendering, storage, extensions,
// and journal access. It serves as the central coordinator for the ptatemp
// template engine.
type Engine struct {
	ConfigDir    string                // The configuration directory (defaults to the ptatemp folder under the user configuration directory)
	Config       *Config               // The engine configuration (viper-backed YAML)
	Repo         Repository            // Storage repository interface
	WriteChannel chan any              // Async store write channel, drained by WriteToStore
	Scope        *scope.Scope          // Account scope used to validate rendered postings
	Extensions   []*extensions.Runtime // Slice of loaded extension runtimes
	Runner       LedgerRunner          // Ledger runner used for balance interpolation
	Journal      string                // Journal override set through WithJournal, wins over LEDGER_FILE and the stored default
	OnLog        func(log *domain.Log) error
}

// New creates a new Engine instance with default configuration and applies any
// provided options. It initializes the write channel, extension slice, scope,
// and the default ledger runner.
func New(options ...func(*Engine) error) (*Engine, error) {
	engine := &Engine{
		WriteChannel: make(chan any, 10),
		Extensions:   make([]*extensions.Runtime, 0),
		Scope:        scope.NewScope(true),
		Runner:       NewExecRunner(),
	}
	err := engine.WithOptions(options...)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// GetExtension returns the loaded extension runtime with the given name.
func (engine *Engine) GetExtension(name string) (*extensions.Runtime, bool) {
	for _, ext := range engine.Extensions {
		if ext.Data.Name == name {
			return ext, true
		}
	}
	return nil, false
}

// WriteToStore drains the write channel and persists each item. It is meant
// to run as a dedicated goroutine for the lifetime of the engine.
func (engine *Engine) WriteToStore() {
	for item := range engine.WriteChannel {
		switch castItem := item.(type) {
		case *domain.Log:
			if engine.Repo != nil {
				err := engine.Repo.InsertLog(castItem)
				if err != nil {
					log.Print(err)
				}
			}
			if engine.OnLog != nil {
				if err := engine.OnLog(castItem); err != nil {
					log.Print(err)
				}
			}
		case *domain.Record:
			if engine.Repo != nil {
				err := engine.Repo.InsertRecord(castItem)
				if err != nil {
					log.Print(err)
				}
			}
		default:
			log.Print(castItem)
		}
	}
}

// WriteLog validates the level, stamps a UUIDv7 id and timestamp, applies the
// log options, and queues the entry on the write channel.
func (engine *Engine) WriteLog(level string, message string, options ...func(log *domain.Log) error) error {
	switch level {
	case "DEBUG":
	case "INFO":
	case "WARN":
	case "ERROR":
	case "FATAL":
	default:
		return fmt.Errorf("level should be either: debug, info, warn, error, fatal")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating new uuid : %w", err)
	}
	entry := &domain.Log{
		ID:        id,
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	for _, option := range options {
		err := option(entry)
		if err != nil {
			return fmt.Errorf("applying log option : %w", err)
		}
	}
	engine.WriteChannel <- entry
	return nil
}

// GetConfigDir returns the engine's configuration directory.
func (engine *Engine) GetConfigDir() (string, error) {
	if engine.ConfigDir == "" {
		return "", fmt.Errorf("config dir is not set")
	}
	return engine.ConfigDir, nil
}

// GetScope returns the engine's account scope.
func (engine *Engine) GetScope() (*scope.Scope, error) {
	if engine.Scope == nil {
		return nil, fmt.Errorf("scope is not set")
	}
	return engine.Scope, nil
}

// GetJournal resolves the journal file the engine operates on.
func (engine *Engine) GetJournal() (string, error) {
	return engine.ResolveJournal("")
}

// GetBalance queries the resolved journal for an account's balance in cents.
func (engine *Engine) GetBalance(account string) (int64, error) {
	journal, err := engine.GetJournal()
	if err != nil {
		return 0, fmt.Errorf("resolving journal : %w", err)
	}
	cents, err := engine.Runner.Balance(journal, account)
	if err != nil {
		return 0, fmt.Errorf("getting balance for %s : %w", account, err)
	}
	return cents, nil
}

// Currency resolves the currency symbol used when formatting amounts: the
// stored app setting first, then the config file, then the dollar default.
func (engine *Engine) Currency() string {
	if engine.Repo != nil {
		if currency, err := engine.Repo.GetCurrency(); err == nil && currency != "" {
			return currency
		}
	}
	if engine.Config != nil && engine.Config.Currency != "" {
		return engine.Config.Currency
	}
	return "$"
}

// SetCurrency stores a new currency symbol, both in the repository and in the
// YAML config.
func (engine *Engine) SetCurrency(currency string) error {
	if engine.Repo != nil {
		if err := engine.Repo.SetCurrency(currency); err != nil {
			return fmt.Errorf("storing currency : %w", err)
		}
	}
	if engine.Config != nil {
		if err := engine.Config.SetCurrency(currency); err != nil {
			return fmt.Errorf("saving currency to config : %w", err)
		}
	}
	return nil
}

// GetExtensionRepo returns the extension repository.
func (engine *Engine) GetExtensionRepo() (domain.ExtensionRepository, error) {
	if engine.Repo == nil {
		return nil, fmt.Errorf("repo is not set")
	}
	return engine.Repo, nil
}

// GetTemplateRepo returns the template repository.
func (engine *Engine) GetTemplateRepo() (domain.TemplateRepository, error) {
	if engine.Repo == nil {
		return nil, fmt.Errorf("repo is not set")
	}
	return engine.Repo, nil
}

// GetRecordRepo returns the render record repository.
func (engine *Engine) GetRecordRepo() (domain.RecordRepository, error) {
	if engine.Repo == nil {
		return nil, fmt.Errorf("repo is not set")
	}
	return engine.Repo, nil
}

// Close releases the engine's resources, closing the write channel and the
// repository connection.
func (engine *Engine) Close() error {
	close(engine.WriteChannel)
	if engine.Repo != nil {
		if err := engine.Repo.Close(); err != nil {
			return fmt.Errorf("closing repo : %w", err)
		}
	}
	return nil
}
