package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/testutil"
)

func newSimulationService(f *serviceFixture) *SimulationService {
	return NewSimulationService(
		testutil.NewTestUoW(f.db),
		repository.NewSQLiteSimulationRepo(f.db),
		repository.NewSQLiteMissionRepo(f.db),
		repository.NewSQLiteKPIRepo(f.db),
	)
}

func draftSimulation(missionID *string) *domain.Simulation {
	return &domain.Simulation{
		MissionID:   missionID,
		ClientName:  "Acme",
		ProjectName: "Refonte SI - Devis",
	}
}

func sampleLines() *repository.SimulationLines {
	return &repository.SimulationLines{
		Internal: []domain.SimulationInternalResource{{
			StdRatePerHour: 150,
			StdCostPerHour: 60,
			PlannedDays:    10,
			HoursPerDay:    8,
			BillableRatio:  1,
		}},
		External: []domain.SimulationExternalResource{{
			BuyRatePerDay:  600,
			SellRatePerDay: 900,
			PlannedDays:    5,
			HoursPerDay:    8,
		}},
		Costs: []domain.SimulationCost{{
			CostType:         domain.CostExpenses,
			CostAmount:       1000,
			RefacturedAmount: 400,
		}},
	}
}

func TestSimulationSave_CreatesHeaderAndLines(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)
	sc := f.scopeFor(t, f.admin)
	ctx := context.Background()

	sim := draftSimulation(&f.mission.ID)
	require.NoError(t, svc.Save(ctx, sc, sim, sampleLines()))
	require.NotEmpty(t, sim.ID)
	assert.Equal(t, domain.SimulationDraft, sim.Status)
	assert.Equal(t, f.admin.ID, sim.AuthorUserID)

	detail, err := svc.Get(ctx, sc, sim.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Summary)
	// Internal: 80h planned, all billable at 150/h = 12 000 revenue, 4 800 cost.
	// External: 4 500 revenue, 3 000 cost. Costs: 400 refactured, 1 000 spent.
	assert.Equal(t, 80.0, detail.Summary.PlannedHours)
	assert.Equal(t, 80.0, detail.Summary.BillableHours)
	assert.Equal(t, 16900.0, detail.Summary.RevenueTotal)
	assert.Equal(t, 8800.0, detail.Summary.CostTotal)
	assert.Equal(t, 8100.0, detail.Summary.MarginTotal)
	require.NotNil(t, detail.Summary.MarginPct)
	assert.InDelta(t, 47.9, *detail.Summary.MarginPct, 0.05)
	assert.Len(t, detail.Lines.Internal, 1)
	assert.Len(t, detail.Lines.External, 1)
	assert.Len(t, detail.Lines.Costs, 1)
}

func TestSimulationSave_UpdateReplacesLines(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)
	sc := f.scopeFor(t, f.board)
	ctx := context.Background()

	sim := draftSimulation(nil)
	require.NoError(t, svc.Save(ctx, sc, sim, sampleLines()))

	sim.Status = domain.SimulationValidated
	newLines := &repository.SimulationLines{
		Costs: []domain.SimulationCost{{CostType: domain.CostFees, CostAmount: 500}},
	}
	require.NoError(t, svc.Save(ctx, sc, sim, newLines))

	detail, err := svc.Get(ctx, sc, sim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SimulationValidated, detail.Simulation.Status)
	assert.Empty(t, detail.Lines.Internal)
	assert.Empty(t, detail.Lines.External)
	require.Len(t, detail.Lines.Costs, 1)
	assert.Equal(t, 500.0, detail.Lines.Costs[0].CostAmount)
	assert.Equal(t, -500.0, detail.Summary.MarginTotal)
	// No revenue at all: the margin rate is undefined.
	assert.Nil(t, detail.Summary.MarginPct)
}

func TestSimulationSave_ForbiddenForNonBoard(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)

	err := svc.Save(context.Background(), f.scopeFor(t, f.consultant), draftSimulation(nil), nil)
	require.ErrorIs(t, err, ErrForbidden)
	err = svc.Save(context.Background(), f.scopeFor(t, f.lead), draftSimulation(nil), nil)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSimulationSave_UnknownMissionRejected(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)
	ghost := "no-such-mission"

	err := svc.Save(context.Background(), f.scopeFor(t, f.admin), draftSimulation(&ghost), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
}

// A failure while rewriting lines must leave the previous lines intact.
func TestSimulationSave_LineFailureRollsBackEverything(t *testing.T) {
	f := setupFixture(t)
	sc := f.scopeFor(t, f.admin)
	ctx := context.Background()

	svc := newSimulationService(f)
	sim := draftSimulation(nil)
	require.NoError(t, svc.Save(ctx, sc, sim, sampleLines()))

	// Exec order inside the transaction: header update, three line-table
	// deletes, then the cost insert. Fail on the insert.
	boom := errors.New("disk full")
	failing := NewSimulationService(
		&testutil.FailOnNthExecUoW{DB: f.db, FailOn: 5, Err: boom},
		repository.NewSQLiteSimulationRepo(f.db),
		repository.NewSQLiteMissionRepo(f.db),
		repository.NewSQLiteKPIRepo(f.db),
	)

	sim.ProjectName = "Refonte SI - Devis v2"
	err := failing.Save(ctx, sc, sim, &repository.SimulationLines{
		Costs: []domain.SimulationCost{{CostType: domain.CostFees, CostAmount: 999}},
	})
	require.ErrorIs(t, err, boom)

	detail, err := svc.Get(ctx, sc, sim.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refonte SI - Devis", detail.Simulation.ProjectName)
	assert.Len(t, detail.Lines.Internal, 1)
	assert.Len(t, detail.Lines.Costs, 1)
	assert.Equal(t, 1000.0, detail.Lines.Costs[0].CostAmount)
}

func TestSimulationArchive_HiddenFromDefaultListings(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)
	sc := f.scopeFor(t, f.admin)
	ctx := context.Background()

	sim := draftSimulation(&f.mission.ID)
	require.NoError(t, svc.Save(ctx, sc, sim, sampleLines()))
	require.NoError(t, svc.Archive(ctx, sc, sim.ID))

	kpi := repository.NewSQLiteKPIRepo(f.db)
	visible, err := kpi.SimulationSummaries(ctx, []string{f.mission.ID}, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := kpi.SimulationSummaries(ctx, []string{f.mission.ID}, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSimulationDelete_RemovesLines(t *testing.T) {
	f := setupFixture(t)
	svc := newSimulationService(f)
	sc := f.scopeFor(t, f.admin)
	ctx := context.Background()

	sim := draftSimulation(nil)
	require.NoError(t, svc.Save(ctx, sc, sim, sampleLines()))
	require.NoError(t, svc.Delete(ctx, sc, sim.ID))

	_, err := svc.Get(ctx, sc, sim.ID)
	require.Error(t, err)

	var n int
	require.NoError(t, f.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM simulation_internal_resources").Scan(&n))
	assert.Zero(t, n)
}
