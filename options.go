package ptatemp

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/extensions"
	"github.com/tfkr-ae/ptatemp/scope"
)

// WithOptions applies a series of configuration functions to the engine
// instance. Each option function can modify the engine configuration and
// return an error if it fails.
func (engine *Engine) WithOptions(options ...func(*Engine) error) error {
	for _, option := range options {
		err := option(engine)
		if err != nil {
			return fmt.Errorf("applying option on ptatemp : %w", err)
		}
	}
	return nil
}

// WithConfigDir configures the engine to use the specified configuration
// directory. It creates the directory if it doesn't exist and initializes the
// configuration file using Viper.
func WithConfigDir(appConfigDir string) func(*Engine) error {
	return func(engine *Engine) error {
		_, err := os.ReadDir(appConfigDir)
		if err != nil {
			if os.IsNotExist(err) {
				log.Println("[*] creating config dir")
				err := os.MkdirAll(appConfigDir, 0700)
				if err != nil {
					return fmt.Errorf("creating config dir %s: %w", appConfigDir, err)
				}
			} else {
				return fmt.Errorf("checking if directory exists %s: %w", appConfigDir, err)
			}
		}
		// At this point, the directory exists or was created successfully
		engine.ConfigDir = appConfigDir

		// VIPER
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appConfigDir)
		viper.SetDefault("first_run", true)
		viper.SetDefault("default_journal", "")
		viper.SetDefault("currency", "$")
		viper.SetDefault("ledger_binaries", []string{"hledger", "ledger"})
		err = viper.ReadInConfig()
		if err != nil {
			// need to check if the error is config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// Config file is not found
				err = viper.SafeWriteConfig()
				if err != nil {
					return fmt.Errorf("writing config file : %w", err)
				}
			} else {
				return fmt.Errorf("reading config file : %w", err)
			}
		}
		if err := viper.Unmarshal(&engine.Config); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}
		engine.Config.viper = viper.GetViper()
		engine.Config.ConfigDir = appConfigDir

		// The configured binary order carries over to the default runner
		if runner, ok := engine.Runner.(*ExecRunner); ok && len(engine.Config.LedgerBinaries) > 0 {
			runner.Binaries = engine.Config.LedgerBinaries
		}

		// Rewrite entire file from struct
		err = viper.WriteConfig()
		if err != nil {
			return fmt.Errorf("writing config after unmarshalling : %w", err)
		}
		return nil
	}
}

// WithExtension loads a single extension runtime into the engine and bridges
// its registered filters into the template renderer.
func WithExtension(extension *domain.Extension, options ...func(runtime *extensions.Runtime) error) func(*Engine) error {
	return func(engine *Engine) error {
		// Skip if an extension with the same name is already loaded
		if _, ok := engine.GetExtension(extension.Name); ok {
			return nil
		}
		runtime := &extensions.Runtime{Data: extension}
		err := runtime.PrepareState(engine, options)
		if err != nil {
			return fmt.Errorf("preparing extension %s : %w", extension.Name, err)
		}
		if err := registerTemplateFilters(runtime); err != nil {
			return fmt.Errorf("registering filters for %s : %w", extension.Name, err)
		}
		engine.Extensions = append(engine.Extensions, runtime)
		return nil
	}
}

// WithExtensions loads every enabled extension from the given slice. Disabled
// extensions are skipped.
func WithExtensions(exts []*domain.Extension, options ...func(runtime *extensions.Runtime) error) func(*Engine) error {
	return func(engine *Engine) error {
		for _, extension := range exts {
			if !extension.Enabled {
				continue
			}
			if err := WithExtension(extension, options...)(engine); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithLogHandler takes a handler function that will be executed on each Log
func WithLogHandler(handler func(log *domain.Log) error) func(*Engine) error {
	return func(engine *Engine) error {
		if engine.OnLog != nil {
			return errors.New("engine already has a log handler defined")
		}
		engine.OnLog = handler
		return nil
	}
}

// WithJournal sets an engine-level journal override. It takes precedence over
// the LEDGER_FILE environment variable and the stored default.
func WithJournal(journal string) func(*Engine) error {
	return func(engine *Engine) error {
		engine.Journal = journal
		return nil
	}
}

// WithLedgerRunner replaces the ledger runner used for balance queries.
func WithLedgerRunner(runner LedgerRunner) func(*Engine) error {
	return func(engine *Engine) error {
		if runner == nil {
			return errors.New("ledger runner cannot be nil")
		}
		engine.Runner = runner
		return nil
	}
}

// WithScope replaces the account scope used to validate rendered postings.
func WithScope(accountScope *scope.Scope) func(*Engine) error {
	return func(engine *Engine) error {
		if accountScope == nil {
			return errors.New("scope cannot be nil")
		}
		engine.Scope = accountScope
		return nil
	}
}

// WithRepo will take the Repository interface, closing any previously
// configured repository first.
func WithRepo(repo Repository) func(*Engine) error {
	return func(engine *Engine) error {
		// First we need to check if there is a repo
		if engine.Repo != nil {
			if err := engine.Repo.Close(); err != nil {
				return err
			}
			engine.Repo = nil
		}
		engine.Repo = repo
		return nil
	}
}
