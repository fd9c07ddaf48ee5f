package ptatemp

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the viper-backed engine configuration, persisted as YAML in the
// configuration directory.
type Config struct {
	viper          *viper.Viper
	ConfigDir      string   `mapstructure:"config_dir"`      // Current config dir
	DefaultJournal string   `mapstructure:"default_journal"` // Journal used when neither the flag nor LEDGER_FILE is set
	Currency       string   `mapstructure:"currency"`        // Currency symbol used when formatting amounts
	LedgerBinaries []string `mapstructure:"ledger_binaries"` // Ledger binaries tried in order for balance queries
	FirstRun       bool     `mapstructure:"first_run"`       // Whether this is the first launch
}

// SetDefaultJournal persists a new default journal path to the configuration
// file.
func (cfg *Config) SetDefaultJournal(journal string) error {
	cfg.viper.Set("default_journal", journal)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}

// SetCurrency persists a new currency symbol to the configuration file.
func (cfg *Config) SetCurrency(currency string) error {
	cfg.viper.Set("currency", currency)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}

// SetFirstRun persists the first-run flag.
func (cfg *Config) SetFirstRun(firstRun bool) error {
	cfg.viper.Set("first_run", firstRun)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}
