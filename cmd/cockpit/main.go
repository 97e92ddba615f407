package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexisferrand/cockpit/internal/chatbot"
	"github.com/alexisferrand/cockpit/internal/cli"
	"github.com/alexisferrand/cockpit/internal/config"
	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/importer"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
	"github.com/alexisferrand/cockpit/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(settings.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	clientRepo := repository.NewSQLiteClientRepo(database)
	missionRepo := repository.NewSQLiteMissionRepo(database)
	entryRepo := repository.NewSQLiteTimeEntryRepo(database)
	capacityRepo := repository.NewSQLiteCapacityRepo(database)
	simRepo := repository.NewSQLiteSimulationRepo(database)
	kpiRepo := repository.NewSQLiteKPIRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Settings:    settings,
		Users:       service.NewUserService(userRepo, settings.BcryptRounds),
		Time:        service.NewTimeEntryService(entryRepo, missionRepo),
		Capacity:    service.NewCapacityService(userRepo, capacityRepo, kpiRepo),
		Status:      service.NewStatusService(kpiRepo),
		Missions:    service.NewMissionService(missionRepo, clientRepo, userRepo, kpiRepo),
		Simulations: service.NewSimulationService(uow, simRepo, missionRepo, kpiRepo),
		Chat:        chatbot.NewAnswerer(missionRepo, kpiRepo),
		Scopes:      scope.NewResolver(database),
		Seeder:      importer.NewSeeder(database, uow, settings.BcryptRounds, settings.DemoPassword),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
