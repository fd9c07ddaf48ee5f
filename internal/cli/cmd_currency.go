package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCurrencyCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Currency symbol management",
	}
	cmd.AddCommand(
		newCurrencyShowCommand(deps),
		newCurrencySetCommand(deps),
	)
	return cmd
}

func newCurrencyShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the currency symbol used for amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			fmt.Fprintln(deps.out, engine.Currency())
			return nil
		},
	}
}

func newCurrencySetCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <symbol>",
		Short: "Store the currency symbol used for amounts",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("currency set requires exactly one symbol")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.SetCurrency(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(deps.out, "currency set to %s\n", args[0])
			return nil
		},
	}
}
