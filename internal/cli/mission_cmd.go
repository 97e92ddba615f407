package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/cli/formatter"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/service"
)

func newMissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Manage the mission portfolio",
	}

	cmd.AddCommand(
		newMissionListCmd(app),
		newMissionAddCmd(app),
		newMissionAssignCmd(app),
	)

	return cmd
}

func newMissionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List visible missions with consumption and risk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			portfolio, err := app.Missions.Portfolio(ctx, sc)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatPortfolio(portfolio))
			return nil
		},
	}
}

func newMissionAddCmd(app *App) *cobra.Command {
	var client, code, name, status, start, end, lead, notes string
	var soldDays, soldAmount, dailyCost float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a mission (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			startDate, err := parseDay(start, time.Now())
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			in := service.CreateMissionInput{
				ClientName:    client,
				Code:          code,
				Name:          name,
				Status:        domain.MissionStatus(status),
				StartDate:     startDate,
				SoldDays:      soldDays,
				SoldAmountEUR: soldAmount,
				DailyCostEUR:  dailyCost,
				Notes:         notes,
				LeadUsername:  lead,
			}
			if end != "" {
				endDate, err := parseDay(end, time.Time{})
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				in.EndDate = &endDate
			}

			m, err := app.Missions.Create(ctx, sc, in)
			if err != nil {
				return err
			}

			fmt.Printf("Created mission %s [%s]\n", m.Name, m.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Client name (created if unknown)")
	cmd.Flags().StringVar(&code, "code", "", "Mission code (M-YYYY-NNN)")
	cmd.Flags().StringVar(&name, "name", "", "Mission name")
	cmd.Flags().StringVar(&status, "status", string(domain.MissionOngoing), "Status (pipeline|ongoing|paused|done|cancelled)")
	cmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date YYYY-MM-DD")
	cmd.Flags().Float64Var(&soldDays, "sold-days", 0, "Sold load in days")
	cmd.Flags().Float64Var(&soldAmount, "sold-amount", 0, "Sold amount in euros")
	cmd.Flags().Float64Var(&dailyCost, "daily-cost", 0, "Average daily cost in euros")
	cmd.Flags().StringVar(&lead, "lead", "", "Username of the mission lead")
	cmd.Flags().StringVar(&notes, "notes", "", "Free notes")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newMissionAssignCmd(app *App) *cobra.Command {
	var code, username, start string
	var pct int

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a consultant to a mission (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			startDate, err := parseDay(start, time.Now())
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			if err := app.Missions.Assign(ctx, sc, code, username, pct, startDate); err != nil {
				return err
			}

			fmt.Printf("Assigned %s to %s at %d%%\n", username, code, pct)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "mission", "", "Mission code")
	cmd.Flags().StringVar(&username, "user", "", "Consultant username")
	cmd.Flags().IntVar(&pct, "pct", 100, "Allocation percentage")
	cmd.Flags().StringVar(&start, "start", "", "Assignment start date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("mission")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
