package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var dir string
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data from CSV files",
		Long:  "Loads users, clients, missions and time entries from a CSV directory. Without --reset the command is a no-op when accounts already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if reset {
				if err := app.Seeder.Reset(ctx, dir); err != nil {
					return err
				}
				fmt.Println("Database reset and reseeded.")
				return nil
			}

			if err := app.Seeder.SeedIfEmpty(ctx, dir); err != nil {
				return err
			}
			fmt.Println("Seed complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "demo_data", "Directory holding the seed CSV files")
	cmd.Flags().BoolVar(&reset, "reset", false, "Wipe all data before reseeding")

	return cmd
}
