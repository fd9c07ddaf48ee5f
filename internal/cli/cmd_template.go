package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ptatemp/domain"
)

func newTemplateCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Template library management",
	}
	cmd.AddCommand(
		newTemplateListCommand(deps),
		newTemplateAddCommand(deps),
		newTemplateShowCommand(deps),
		newTemplateRemoveCommand(deps),
	)
	return cmd
}

func newTemplateListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			templates, err := engine.Repo.GetTemplates()
			if err != nil {
				return fmt.Errorf("listing templates : %w", err)
			}
			for _, template := range templates {
				if template.Description != "" {
					fmt.Fprintf(deps.out, "%s\t%s\n", template.Name, template.Description)
				} else {
					fmt.Fprintln(deps.out, template.Name)
				}
			}
			return nil
		},
	}
}

func newTemplateAddCommand(deps commandDeps) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name> <file>",
		Short: "Add a template from a file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageErrorf("template add requires a name and a file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading template file %s : %w", args[1], err)
			}

			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generating template id : %w", err)
			}
			err = engine.Repo.CreateTemplate(&domain.Template{
				ID:          id,
				Name:        args[0],
				Description: description,
				Content:     string(content),
			})
			if err != nil {
				return fmt.Errorf("storing template %s : %w", args[0], err)
			}
			fmt.Fprintf(deps.out, "added template %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "D", "", "Template description")
	return cmd
}

func newTemplateShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's source",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("template show requires exactly one template name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			template, err := engine.Repo.GetTemplateByName(args[0])
			if err != nil {
				return fmt.Errorf("loading template %s : %w", args[0], err)
			}
			fmt.Fprintln(deps.out, template.Content)
			return nil
		},
	}
}

func newTemplateRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored template",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("template rm requires exactly one template name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.Repo.DeleteTemplate(args[0]); err != nil {
				return fmt.Errorf("removing template %s : %w", args[0], err)
			}
			fmt.Fprintf(deps.out, "removed template %s\n", args[0])
			return nil
		},
	}
}
