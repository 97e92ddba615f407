package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/cli/formatter"
	"github.com/alexisferrand/cockpit/internal/service"
)

func newCapacityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Inspect load against capacity and set overrides",
	}

	cmd.AddCommand(
		newCapacityGridCmd(app),
		newCapacitySetCmd(app),
	)

	return cmd
}

func newCapacityGridCmd(app *App) *cobra.Command {
	var period, ref string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the per-day load grid for visible users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			refDay, err := parseDay(ref, time.Now())
			if err != nil {
				return fmt.Errorf("invalid reference date %q: %w", ref, err)
			}
			from, to, err := periodBounds(period, refDay)
			if err != nil {
				return err
			}

			grid, err := app.Capacity.Grid(ctx, sc, from, to)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatCapacityGrid(grid))
			if len(grid) > 0 {
				fmt.Println()
				fmt.Print(formatter.FormatCapacityTotals(service.Totals(grid)))
			}
			return nil
		},
	}

	addPeriodFlag(cmd.Flags(), &period)
	cmd.Flags().StringVar(&ref, "date", "", "Reference day YYYY-MM-DD (default today)")

	return cmd
}

func newCapacitySetCmd(app *App) *cobra.Command {
	var username, date, reason string
	var hours int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Override a user's capacity for one day (admin or lead)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			day, err := parseDay(date, time.Now())
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", date, err)
			}

			target, err := app.Users.GetByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("resolving user %q: %w", username, err)
			}

			in := service.SetOverrideInput{
				TargetUserID: target.ID,
				Date:         day,
				CapacityH:    hours,
				Reason:       reason,
			}
			if err := app.Capacity.SetOverride(ctx, sc, in); err != nil {
				return err
			}

			fmt.Printf("Capacity of %s set to %dh on %s\n", username, hours, day.Format(dayLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Target username")
	cmd.Flags().StringVar(&date, "date", "", "Day YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&hours, "hours", 0, "Capacity in hours (0 to 24)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the override")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
