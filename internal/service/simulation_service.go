package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
)

// SimulationDetail is a simulation header with its computed summary and
// line items.
type SimulationDetail struct {
	Simulation domain.Simulation
	Summary    *repository.SimulationSummaryRow
	Lines      *repository.SimulationLines
}

// SimulationService manages quote simulations. All operations are
// restricted to roles with finance access.
type SimulationService struct {
	uow      db.UnitOfWork
	sims     repository.SimulationRepo
	missions repository.MissionRepo
	kpi      repository.KPIRepo
}

func NewSimulationService(uow db.UnitOfWork, sims repository.SimulationRepo, missions repository.MissionRepo, kpi repository.KPIRepo) *SimulationService {
	return &SimulationService{uow: uow, sims: sims, missions: missions, kpi: kpi}
}

func (s *SimulationService) authorize(sc scope.Scope) error {
	if !sc.CanSeeFinance() {
		return fmt.Errorf("%w: simulations are board/admin only", ErrForbidden)
	}
	return nil
}

// Save creates or updates a simulation header and replaces its line
// items, as a single transaction. A failure in any line leaves the
// stored simulation untouched.
func (s *SimulationService) Save(ctx context.Context, sc scope.Scope, sim *domain.Simulation, lines *repository.SimulationLines) error {
	if err := s.authorize(sc); err != nil {
		return err
	}
	if sim.ClientName == "" || sim.ProjectName == "" {
		return fmt.Errorf("a simulation needs a client name and a project name")
	}
	if sim.MissionID != nil {
		if _, err := s.missions.GetByID(ctx, *sim.MissionID); err != nil {
			return fmt.Errorf("linked mission: %w", err)
		}
	}
	if sim.Status == "" {
		sim.Status = domain.SimulationDraft
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSims := repository.NewSQLiteSimulationRepo(tx)
		if sim.ID == "" {
			sim.ID = uuid.New().String()
			sim.AuthorUserID = sc.User.ID
			sim.CreatedAt = time.Now().UTC()
			if err := txSims.Create(ctx, sim); err != nil {
				return err
			}
		} else {
			if _, err := txSims.GetByID(ctx, sim.ID); err != nil {
				return err
			}
			if err := txSims.Update(ctx, sim); err != nil {
				return err
			}
		}
		return txSims.ReplaceLines(ctx, sim.ID, lines)
	})
}

// Get returns a simulation with its summary and lines.
func (s *SimulationService) Get(ctx context.Context, sc scope.Scope, id string) (*SimulationDetail, error) {
	if err := s.authorize(sc); err != nil {
		return nil, err
	}
	sim, err := s.sims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary, err := s.kpi.SimulationSummaryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.sims.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SimulationDetail{Simulation: *sim, Summary: summary, Lines: lines}, nil
}

// List returns all simulation summaries, newest first.
func (s *SimulationService) List(ctx context.Context, sc scope.Scope) ([]repository.SimulationSummaryRow, error) {
	if err := s.authorize(sc); err != nil {
		return nil, err
	}
	return s.kpi.AllSimulationSummaries(ctx)
}

// Archive marks a simulation archived so listings skip it by default.
func (s *SimulationService) Archive(ctx context.Context, sc scope.Scope, id string) error {
	if err := s.authorize(sc); err != nil {
		return err
	}
	sim, err := s.sims.GetByID(ctx, id)
	if err != nil {
		return err
	}
	sim.Status = domain.SimulationArchived
	return s.sims.Update(ctx, sim)
}

// Delete removes a simulation and its lines.
func (s *SimulationService) Delete(ctx context.Context, sc scope.Scope, id string) error {
	if err := s.authorize(sc); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSims := repository.NewSQLiteSimulationRepo(tx)
		if err := txSims.ReplaceLines(ctx, id, nil); err != nil {
			return err
		}
		return txSims.Delete(ctx, id)
	})
}
