package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newHistoryCommand(deps commandDeps) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the render history",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			records, err := engine.Repo.GetRecords(limit)
			if err != nil {
				return fmt.Errorf("loading history : %w", err)
			}
			for _, record := range records {
				marker := " "
				if record.Posted {
					marker = "*"
				}
				fmt.Fprintf(deps.out, "%s %s  %s  %s  %s\n",
					marker,
					record.ID,
					record.EntryDate.Format("2006-01-02"),
					record.TemplateName,
					record.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records to show (0 shows everything)")
	cmd.AddCommand(newHistoryShowCommand(deps))
	return cmd
}

func newHistoryShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a history record's rendered entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("history show requires exactly one record id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return usageErrorf("invalid record id %s", args[0])
			}

			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			record, err := engine.Repo.GetRecord(id)
			if err != nil {
				return fmt.Errorf("loading record %s : %w", id, err)
			}
			fmt.Fprintln(deps.out, record.Rendered)
			if record.Posted {
				fmt.Fprintf(deps.out, "\nposted to %s\n", record.Journal)
			}
			return nil
		},
	}
}
