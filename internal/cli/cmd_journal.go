package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJournalCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Default journal management",
	}
	cmd.AddCommand(
		newJournalShowCommand(deps),
		newJournalSetCommand(deps),
	)
	return cmd
}

func newJournalShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the journal file that would be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			journal, err := engine.ResolveJournal("")
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.out, journal)
			return nil
		},
	}
}

func newJournalSetCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file>",
		Short: "Store the default journal file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("journal set requires exactly one file path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.SetDefaultJournal(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(deps.out, "default journal set to %s\n", args[0])
			return nil
		},
	}
}
