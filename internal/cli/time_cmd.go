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

func newTimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Record and list time entries",
	}

	cmd.AddCommand(
		newTimeLogCmd(app),
		newTimeListCmd(app),
	)

	return cmd
}

func newTimeLogCmd(app *App) *cobra.Command {
	var date, mission, category, note, forUser string
	var hours int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a time entry (1, 4 or 8 hours)",
		Example: `  cockpit time log --mission M-2026-001 --hours 8
  cockpit time log --category internal --hours 4 --note "formation"
  cockpit time log --for karim --mission M-2026-001 --hours 8 --date 2026-03-02`,
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

			in := service.LogTimeInput{
				Date:        day,
				MissionCode: mission,
				Category:    domain.TimeCategory(category),
				Hours:       hours,
				Description: note,
			}
			if forUser != "" {
				target, err := app.Users.GetByUsername(ctx, forUser)
				if err != nil {
					return fmt.Errorf("resolving user %q: %w", forUser, err)
				}
				in.TargetUserID = target.ID
			}

			inserted, err := app.Time.Log(ctx, sc, in)
			if err != nil {
				return err
			}
			if !inserted {
				fmt.Println("Entry already recorded for that day, mission and category.")
				return nil
			}

			fmt.Printf("Logged %dh (%s) on %s\n", hours, category, day.Format(dayLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&mission, "mission", "", "Mission code (required unless internal)")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryBillable), "Category (billable|non_billable_client|internal)")
	cmd.Flags().IntVar(&hours, "hours", 8, "Duration in hours (1, 4 or 8)")
	cmd.Flags().StringVar(&note, "note", "", "Free description")
	cmd.Flags().StringVar(&forUser, "for", "", "Log for another user (admin only)")

	return cmd
}

func newTimeListCmd(app *App) *cobra.Command {
	var period, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time entries over a period for visible users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			var fromDay, toDay time.Time
			if from != "" || to != "" {
				var err error
				if fromDay, err = parseDay(from, time.Now()); err != nil {
					return fmt.Errorf("invalid from date %q: %w", from, err)
				}
				if toDay, err = parseDay(to, time.Now()); err != nil {
					return fmt.Errorf("invalid to date %q: %w", to, err)
				}
			} else {
				var err error
				if fromDay, toDay, err = periodBounds(period, time.Now()); err != nil {
					return err
				}
			}

			entries, err := app.Time.History(ctx, sc, fromDay, toDay)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatTimeEntries(entries))
			return nil
		},
	}

	addPeriodFlag(cmd.Flags(), &period)
	cmd.Flags().StringVar(&from, "from", "", "Period start YYYY-MM-DD (overrides --period)")
	cmd.Flags().StringVar(&to, "to", "", "Period end YYYY-MM-DD (overrides --period)")

	return cmd
}
