package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ptatemp"
)

func newRenderCommand(deps commandDeps) *cobra.Command {
	var (
		template    string
		description string
		date        string
		varFlags    []string
		overrides   []string
		journal     string
		post        bool
	)

	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template into a balanced journal entry",
		Long: `Render a template into a balanced journal entry.

The template argument is a stored template name or a file path. Variables are
passed with repeated -v name=value flags and postings can be overridden with
repeated -o "Account  amount" flags. With --post, the rendered entry is
appended to the journal and its history record is marked as posted.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("render accepts at most one template argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				template = args[0]
			}
			if template == "" {
				return usageErrorf("render requires a template name or path")
			}
			if description == "" {
				return usageErrorf("render requires --desc")
			}

			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			parsedOverrides, err := ptatemp.ParseOverrides(overrides)
			if err != nil {
				return err
			}

			result, err := engine.Render(ptatemp.RenderParams{
				TemplateName: template,
				Description:  description,
				Date:         ptatemp.ParseDate(date),
				Vars:         engine.ParseVars(varFlags),
				Overrides:    parsedOverrides,
				Journal:      journal,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(deps.out, result.Transaction.Render(engine.Currency()))

			if !post {
				return nil
			}

			resolved, err := engine.ResolveJournal(journal)
			if err != nil {
				return err
			}
			if err := engine.Post(result.Transaction, resolved); err != nil {
				return err
			}
			if result.Record != nil {
				if err := engine.Repo.MarkRecordPosted(result.Record.ID, resolved); err != nil {
					return fmt.Errorf("marking record posted : %w", err)
				}
			}
			fmt.Fprintf(deps.out, "posted to %s\n", resolved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Template name or path (alternative to the positional argument)")
	cmd.Flags().StringVarP(&description, "desc", "D", "", "Transaction description")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Transaction date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringArrayVarP(&varFlags, "var", "v", nil, "Template variable as name=value (repeatable)")
	cmd.Flags().StringArrayVarP(&overrides, "override", "o", nil, "Posting override as \"Account  amount\" (repeatable)")
	cmd.Flags().StringVarP(&journal, "journal", "f", "", "Journal file (overrides LEDGER_FILE and the stored default)")
	cmd.Flags().BoolVar(&post, "post", false, "Append the rendered entry to the journal")
	return cmd
}
