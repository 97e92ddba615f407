package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/chatbot"
	"github.com/alexisferrand/cockpit/internal/config"
	"github.com/alexisferrand/cockpit/internal/importer"
	"github.com/alexisferrand/cockpit/internal/scope"
	"github.com/alexisferrand/cockpit/internal/service"
)

// App holds references to all services used by CLI commands.
type App struct {
	Settings    *config.Settings
	Users       *service.UserService
	Time        *service.TimeEntryService
	Capacity    *service.CapacityService
	Status      *service.StatusService
	Missions    *service.MissionService
	Simulations *service.SimulationService
	Chat        *chatbot.Answerer
	Scopes      *scope.Resolver
	Seeder      *importer.Seeder

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// actingUser is the --as persistent flag value.
	actingUser string
}

// NewRootCmd creates the top-level "cockpit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cockpit",
		Short: "Mission cockpit for a consulting firm",
		Long:  "Role-scoped dashboards, time tracking, capacity, quote simulations and a chat assistant over a consulting mission portfolio.",
	}

	root.PersistentFlags().StringVar(&app.actingUser, "as", "", "Acting username (defaults to COCKPIT_USER)")

	root.AddCommand(
		newAskCmd(app),
		newStatusCmd(app),
		newAlertsCmd(app),
		newMissionCmd(app),
		newTimeCmd(app),
		newCapacityCmd(app),
		newSimCmd(app),
		newUserCmd(app),
		newSeedCmd(app),
	)

	return root
}

// actingScope resolves the acting user (--as flag, then COCKPIT_USER)
// into a visibility scope. Every role-gated command starts here.
func (app *App) actingScope(ctx context.Context) (scope.Scope, error) {
	username := app.actingUser
	if username == "" {
		username = app.Settings.ActingUser
	}
	if username == "" {
		return scope.Scope{}, fmt.Errorf("no acting user: pass --as <username> or set COCKPIT_USER")
	}

	u, err := app.Users.GetByUsername(ctx, username)
	if err != nil {
		return scope.Scope{}, fmt.Errorf("resolving acting user %q: %w", username, err)
	}
	if !u.IsActive {
		return scope.Scope{}, fmt.Errorf("account %q is deactivated", username)
	}

	return app.Scopes.Resolve(ctx, *u)
}
