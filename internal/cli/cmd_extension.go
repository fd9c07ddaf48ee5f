package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ptatemp/domain"
)

func newExtensionCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extension",
		Short: "Lua extension management",
	}
	cmd.AddCommand(
		newExtensionListCommand(deps),
		newExtensionInstallCommand(deps),
		newExtensionEnableCommand(deps, true),
		newExtensionEnableCommand(deps, false),
		newExtensionRemoveCommand(deps),
	)
	return cmd
}

func newExtensionListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List installed extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			extensions, err := engine.Repo.GetExtensions()
			if err != nil {
				return fmt.Errorf("listing extensions : %w", err)
			}
			for _, extension := range extensions {
				state := "disabled"
				if extension.Enabled {
					state = "enabled"
				}
				fmt.Fprintf(deps.out, "%s\t%s\t%s\n", extension.Name, state, extension.Description)
			}
			return nil
		},
	}
}

func newExtensionInstallCommand(deps commandDeps) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "install <name> <file.lua>",
		Short: "Install an extension from a Lua file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageErrorf("extension install requires a name and a Lua file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			luaContent, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading extension file %s : %w", args[1], err)
			}

			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generating extension id : %w", err)
			}
			err = engine.Repo.CreateExtension(&domain.Extension{
				ID:          id,
				Name:        args[0],
				Description: description,
				LuaContent:  string(luaContent),
				Enabled:     true,
			})
			if err != nil {
				return fmt.Errorf("installing extension %s : %w", args[0], err)
			}
			fmt.Fprintf(deps.out, "installed extension %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "D", "", "Extension description")
	return cmd
}

func newExtensionEnableCommand(deps commandDeps, enable bool) *cobra.Command {
	use, past, short := "enable", "enabled", "Enable an extension"
	if !enable {
		use, past, short = "disable", "disabled", "Disable an extension"
	}

	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("extension %s requires exactly one extension name", use)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.Repo.SetExtensionEnabled(args[0], enable); err != nil {
				return fmt.Errorf("updating extension %s : %w", args[0], err)
			}
			fmt.Fprintf(deps.out, "%s extension %s\n", past, args[0])
			return nil
		},
	}
}

func newExtensionRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an installed extension",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("extension rm requires exactly one extension name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.Repo.DeleteExtension(args[0]); err != nil {
				return fmt.Errorf("removing extension %s : %w", args[0], err)
			}
			fmt.Fprintf(deps.out, "removed extension %s\n", args[0])
			return nil
		},
	}
}
