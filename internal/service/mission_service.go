package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
)

// CreateMissionInput describes a mission to open. The client is matched
// by name and created when unknown.
type CreateMissionInput struct {
	ClientName    string
	Code          string
	Name          string
	Status        domain.MissionStatus
	StartDate     time.Time
	EndDate       *time.Time
	SoldDays      float64
	SoldAmountEUR float64
	DailyCostEUR  float64
	Notes         string
	LeadUsername  string
}

// MissionPortfolio is the mission listing for a scope: operational rows
// always, finance rows only for board/admin.
type MissionPortfolio struct {
	Missions []repository.MissionHoursRow
	Finance  []repository.MissionFinanceRow
}

// MissionService covers mission administration and the portfolio view.
type MissionService struct {
	missions repository.MissionRepo
	clients  repository.ClientRepo
	users    repository.UserRepo
	kpi      repository.KPIRepo
}

func NewMissionService(missions repository.MissionRepo, clients repository.ClientRepo, users repository.UserRepo, kpi repository.KPIRepo) *MissionService {
	return &MissionService{missions: missions, clients: clients, users: users, kpi: kpi}
}

// Create opens a mission. Admin only.
func (s *MissionService) Create(ctx context.Context, sc scope.Scope, in CreateMissionInput) (*domain.Mission, error) {
	if sc.User.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins create missions", ErrForbidden)
	}
	if in.ClientName == "" {
		return nil, fmt.Errorf("a mission needs a client name")
	}

	client, err := s.clients.GetByName(ctx, in.ClientName)
	if errors.Is(err, repository.ErrNotFound) {
		client = &domain.Client{ID: uuid.New().String(), Name: in.ClientName, IsActive: true}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.MissionOngoing
	}
	if !domain.ValidMissionStatuses[string(status)] {
		return nil, fmt.Errorf("unknown mission status %q", status)
	}

	m := &domain.Mission{
		ID:            uuid.New().String(),
		ClientID:      client.ID,
		Code:          in.Code,
		Name:          in.Name,
		Status:        status,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		SoldDays:      in.SoldDays,
		SoldAmountEUR: in.SoldAmountEUR,
		DailyCostEUR:  in.DailyCostEUR,
		IsActive:      true,
	}
	if in.Notes != "" {
		m.Notes = &in.Notes
	}
	if err := m.ValidateCode(); err != nil {
		return nil, err
	}
	if err := s.missions.Create(ctx, m); err != nil {
		return nil, err
	}

	if in.LeadUsername != "" {
		lead, err := s.users.GetByUsername(ctx, in.LeadUsername)
		if err != nil {
			return nil, fmt.Errorf("mission lead: %w", err)
		}
		if err := s.missions.AddLead(ctx, m.ID, lead.ID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Assign adds a consultant to a mission. Admin only.
func (s *MissionService) Assign(ctx context.Context, sc scope.Scope, missionCode, username string, allocationPct int, startDate time.Time) error {
	if sc.User.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins assign consultants", ErrForbidden)
	}
	mission, err := s.missions.GetByCode(ctx, missionCode)
	if err != nil {
		return err
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.missions.AddAssignment(ctx, &domain.MissionAssignment{
		ID:            uuid.New().String(),
		MissionID:     mission.ID,
		UserID:        user.ID,
		StartDate:     startDate,
		AllocationPct: allocationPct,
	})
}

// GetByCode returns a mission by its canonical code.
func (s *MissionService) GetByCode(ctx context.Context, code string) (*domain.Mission, error) {
	return s.missions.GetByCode(ctx, code)
}

// Portfolio lists the visible missions with their consumption, plus the
// finance columns when the role allows.
func (s *MissionService) Portfolio(ctx context.Context, sc scope.Scope) (*MissionPortfolio, error) {
	hours, err := s.kpi.MissionHours(ctx, sc.MissionIDs)
	if err != nil {
		return nil, err
	}
	p := &MissionPortfolio{Missions: hours}
	if sc.CanSeeFinance() {
		p.Finance, err = s.kpi.FinanceByMission(ctx, sc.MissionIDs)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}
