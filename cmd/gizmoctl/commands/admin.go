package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func migrateCommand(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				if err := env.Migrate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated.")
				return nil
			})
		},
	}
}

func seedCommand(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the DNS types and providers reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				if err := env.Seed(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Reference data seeded.")
				return nil
			})
		},
	}
}

func providersCommand(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported DNS providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Provider"})
				for _, name := range env.Service.Registry().Names(cmd.Context()) {
					table.Append([]string{name})
				}
				table.Render()
				return nil
			})
		},
	}
}
