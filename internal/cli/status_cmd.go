package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the synthesis dashboard for your perimeter",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			overview, err := app.Status.Overview(ctx, sc)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatOverview(overview))
			return nil
		},
	}
}

func newAlertsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show budget and overload alerts for your perimeter",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			missions, err := app.Status.MissionAlerts(ctx, sc)
			if err != nil {
				return err
			}
			overloads, err := app.Status.OverloadAlerts(ctx, sc)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header("Missions à risque"))
			fmt.Print(formatter.FormatMissionAlerts(missions))
			fmt.Println()
			fmt.Print(formatter.FormatCapacityAlerts(overloads))
			return nil
		},
	}
}
