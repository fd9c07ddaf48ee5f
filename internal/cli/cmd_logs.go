package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogsCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Show the engine log, including render warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			logs, err := engine.Repo.GetLogs()
			if err != nil {
				return fmt.Errorf("loading logs : %w", err)
			}
			for _, entry := range logs {
				fmt.Fprintf(deps.out, "%s %-5s %s\n",
					entry.Timestamp.Format("2006-01-02 15:04:05"),
					entry.Level,
					entry.Message,
				)
			}
			return nil
		},
	}
}
