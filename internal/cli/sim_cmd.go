package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisferrand/cockpit/internal/cli/formatter"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
)

func newSimCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Manage quote simulations (board and admin only)",
	}

	cmd.AddCommand(
		newSimListCmd(app),
		newSimShowCmd(app),
		newSimSaveCmd(app),
		newSimArchiveCmd(app),
		newSimRemoveCmd(app),
	)

	return cmd
}

// simulationFile is the YAML document accepted by "sim save".
type simulationFile struct {
	Client  string  `yaml:"client"`
	Project string  `yaml:"project"`
	Mission string  `yaml:"mission"`
	Sector  string  `yaml:"sector"`
	Status  string  `yaml:"status"`
	Start   string  `yaml:"start"`
	End     string  `yaml:"end"`
	Notes   string  `yaml:"notes"`

	Internal []struct {
		Name             string  `yaml:"name"`
		Grade            string  `yaml:"grade"`
		RatePerHour      float64 `yaml:"rate_per_hour"`
		CostPerHour      float64 `yaml:"cost_per_hour"`
		Days             float64 `yaml:"days"`
		HoursPerDay      float64 `yaml:"hours_per_day"`
		BillableRatio    float64 `yaml:"billable_ratio"`
		NonBillableHours float64 `yaml:"non_billable_hours"`
	} `yaml:"internal"`

	External []struct {
		Provider    string  `yaml:"provider"`
		Role        string  `yaml:"role"`
		BuyPerDay   float64 `yaml:"buy_per_day"`
		SellPerDay  float64 `yaml:"sell_per_day"`
		Days        float64 `yaml:"days"`
		HoursPerDay float64 `yaml:"hours_per_day"`
	} `yaml:"external"`

	Costs []struct {
		Type       string  `yaml:"type"`
		Label      string  `yaml:"label"`
		Amount     float64 `yaml:"amount"`
		Refactured float64 `yaml:"refactured"`
	} `yaml:"costs"`
}

func newSimListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List simulations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			sims, err := app.Simulations.List(ctx, sc)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatSimulationList(sims))
			return nil
		},
	}
}

func newSimShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a simulation with its summary and lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			id, err := resolveSimulationID(ctx, app, sc, args[0])
			if err != nil {
				return err
			}

			detail, err := app.Simulations.Get(ctx, sc, id)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatSimulationDetail(detail))
			return nil
		},
	}
}

func newSimSaveCmd(app *App) *cobra.Command {
	var file, id string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a simulation from a YAML file",
		Example: `  cockpit sim save --file quote.yaml
  cockpit sim save --file quote.yaml --id 7f3a2c18`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var doc simulationFile
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}

			sim := domain.Simulation{
				ClientName:  doc.Client,
				ProjectName: doc.Project,
				Status:      domain.SimulationStatus(doc.Status),
			}
			if id != "" {
				resolved, err := resolveSimulationID(ctx, app, sc, id)
				if err != nil {
					return err
				}
				existing, err := app.Simulations.Get(ctx, sc, resolved)
				if err != nil {
					return err
				}
				sim.ID = resolved
				sim.AuthorUserID = existing.Simulation.AuthorUserID
				sim.CreatedAt = existing.Simulation.CreatedAt
				if sim.Status == "" {
					sim.Status = existing.Simulation.Status
				}
			}
			if doc.Mission != "" {
				mission, err := app.Missions.GetByCode(ctx, doc.Mission)
				if err != nil {
					return fmt.Errorf("linked mission %q: %w", doc.Mission, err)
				}
				sim.MissionID = &mission.ID
			}
			if doc.Sector != "" {
				sim.Sector = &doc.Sector
			}
			if doc.Notes != "" {
				sim.Notes = &doc.Notes
			}
			if doc.Start != "" {
				start, err := parseDay(doc.Start, time.Time{})
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", doc.Start, err)
				}
				sim.StartDate = &start
			}
			if doc.End != "" {
				end, err := parseDay(doc.End, time.Time{})
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", doc.End, err)
				}
				sim.EndDate = &end
			}

			lines, err := linesFromFile(&doc)
			if err != nil {
				return err
			}

			if err := app.Simulations.Save(ctx, sc, &sim, lines); err != nil {
				return err
			}

			fmt.Printf("Saved simulation %s [%s]\n", sim.ProjectName, sim.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML simulation file")
	cmd.Flags().StringVar(&id, "id", "", "Existing simulation to update")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func linesFromFile(doc *simulationFile) (*repository.SimulationLines, error) {
	lines := &repository.SimulationLines{}

	for _, r := range doc.Internal {
		res := domain.SimulationInternalResource{
			ID:               uuid.New().String(),
			StdRatePerHour:   r.RatePerHour,
			StdCostPerHour:   r.CostPerHour,
			PlannedDays:      r.Days,
			HoursPerDay:      r.HoursPerDay,
			BillableRatio:    r.BillableRatio,
			NonBillableHours: r.NonBillableHours,
		}
		if res.HoursPerDay == 0 {
			res.HoursPerDay = 8
		}
		if r.Name != "" {
			name := r.Name
			res.ResourceName = &name
		}
		if r.Grade != "" {
			grade := r.Grade
			res.Grade = &grade
		}
		lines.Internal = append(lines.Internal, res)
	}

	for _, r := range doc.External {
		res := domain.SimulationExternalResource{
			ID:             uuid.New().String(),
			BuyRatePerDay:  r.BuyPerDay,
			SellRatePerDay: r.SellPerDay,
			PlannedDays:    r.Days,
			HoursPerDay:    r.HoursPerDay,
		}
		if res.HoursPerDay == 0 {
			res.HoursPerDay = 8
		}
		if r.Provider != "" {
			provider := r.Provider
			res.ProviderName = &provider
		}
		if r.Role != "" {
			role := r.Role
			res.Role = &role
		}
		lines.External = append(lines.External, res)
	}

	for _, c := range doc.Costs {
		if !domain.ValidCostTypes[c.Type] {
			return nil, fmt.Errorf("unknown cost type %q", c.Type)
		}
		cost := domain.SimulationCost{
			ID:               uuid.New().String(),
			CostType:         domain.CostType(c.Type),
			CostAmount:       c.Amount,
			RefacturedAmount: c.Refactured,
		}
		if c.Label != "" {
			label := c.Label
			cost.Label = &label
		}
		lines.Costs = append(lines.Costs, cost)
	}

	return lines, nil
}

func newSimArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a simulation so listings skip it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			id, err := resolveSimulationID(ctx, app, sc, args[0])
			if err != nil {
				return err
			}

			if err := app.Simulations.Archive(ctx, sc, id); err != nil {
				return err
			}

			fmt.Printf("Archived simulation %s\n", id[:8])
			return nil
		},
	}
}

func newSimRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a simulation and its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			id, err := resolveSimulationID(ctx, app, sc, args[0])
			if err != nil {
				return err
			}

			if err := app.Simulations.Delete(ctx, sc, id); err != nil {
				return err
			}

			fmt.Printf("Deleted simulation %s\n", id[:8])
			return nil
		},
	}
}

// resolveSimulationID accepts a full UUID or a unique prefix as printed
// by "sim list".
func resolveSimulationID(ctx context.Context, app *App, sc scope.Scope, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("simulation ID is required")
	}

	sims, err := app.Simulations.List(ctx, sc)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range sims {
		if s.SimulationID == input {
			return s.SimulationID, nil
		}
		if strings.HasPrefix(s.SimulationID, input) {
			matches = append(matches, s.SimulationID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("simulation not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("simulation ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
