package repository

import (
	"context"
	"time"

	"github.com/alexisferrand/cockpit/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Client, error)
}

type MissionRepo interface {
	Create(ctx context.Context, m *domain.Mission) error
	GetByID(ctx context.Context, id string) (*domain.Mission, error)
	GetByCode(ctx context.Context, code string) (*domain.Mission, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Mission, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Mission, error)
	AddLead(ctx context.Context, missionID, userID string) error
	AddAssignment(ctx context.Context, a *domain.MissionAssignment) error
}

type TimeEntryRepo interface {
	// Create inserts the entry, ignoring duplicates on the
	// (date, user, mission, category) uniqueness tuple.
	// Returns false when the entry was a duplicate.
	Create(ctx context.Context, e *domain.TimeEntry) (bool, error)
	ListRange(ctx context.Context, userIDs []string, from, to time.Time) ([]TimeEntryDetail, error)
}

type CapacityRepo interface {
	Upsert(ctx context.Context, o *domain.CapacityOverride) error
	Get(ctx context.Context, userID string, day time.Time) (*domain.CapacityOverride, error)
}

// SimulationLines bundles the three child collections replaced as one unit.
type SimulationLines struct {
	Internal []domain.SimulationInternalResource
	External []domain.SimulationExternalResource
	Costs    []domain.SimulationCost
}

type SimulationRepo interface {
	Create(ctx context.Context, s *domain.Simulation) error
	GetByID(ctx context.Context, id string) (*domain.Simulation, error)
	Update(ctx context.Context, s *domain.Simulation) error
	Delete(ctx context.Context, id string) error
	ListLines(ctx context.Context, simulationID string) (*SimulationLines, error)
	// ReplaceLines deletes and reinserts all line items. Callers run it
	// inside a UnitOfWork so the delete+insert is atomic.
	ReplaceLines(ctx context.Context, simulationID string, lines *SimulationLines) error
}

// TimeEntryDetail is a joined listing row (entry with user and mission labels).
type TimeEntryDetail struct {
	EntryDate   time.Time
	UserName    string
	MissionCode string
	MissionName string
	Category    domain.TimeCategory
	Hours       int
	Description string
}
