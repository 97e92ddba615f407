package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
)

const defaultDailyCapacityH = 8

// CapacityDay is one cell of the capacity grid: a user on a day, with
// the effective capacity (override or default) and the hours logged.
type CapacityDay struct {
	Day         time.Time
	UserID      string
	UserName    string
	CapacityH   float64
	LoggedHours float64
	DeltaH      float64
}

// CapacityTotal is a per-user aggregate over a period.
type CapacityTotal struct {
	UserID      string
	UserName    string
	CapacityH   float64
	LoggedHours float64
	DeltaH      float64
}

// SetOverrideInput changes a user's capacity for one day.
type SetOverrideInput struct {
	TargetUserID string
	Date         time.Time
	CapacityH    int
	Reason       string
}

// CapacityService maintains per-day capacity overrides and computes
// load against capacity for the visible users.
type CapacityService struct {
	users      repository.UserRepo
	capacities repository.CapacityRepo
	kpi        repository.KPIRepo
}

func NewCapacityService(users repository.UserRepo, capacities repository.CapacityRepo, kpi repository.KPIRepo) *CapacityService {
	return &CapacityService{users: users, capacities: capacities, kpi: kpi}
}

// SetOverride records a capacity override. Only admins and leads may do
// so, and only for users inside their scope.
func (s *CapacityService) SetOverride(ctx context.Context, sc scope.Scope, in SetOverrideInput) error {
	if sc.User.Role != domain.RoleAdmin && sc.User.Role != domain.RoleLead {
		return fmt.Errorf("%w: only admins and leads change capacity overrides", ErrForbidden)
	}
	targetID := in.TargetUserID
	if targetID == "" {
		targetID = sc.User.ID
	}
	if !containsID(sc.UserIDs, targetID) {
		return fmt.Errorf("%w: user is outside your perimeter", ErrForbidden)
	}
	if in.CapacityH < 0 || in.CapacityH > 24 {
		return fmt.Errorf("capacity must be between 0 and 24 hours (got %d)", in.CapacityH)
	}

	o := &domain.CapacityOverride{
		ID:        uuid.New().String(),
		UserID:    targetID,
		Date:      in.Date,
		CapacityH: in.CapacityH,
	}
	if in.Reason != "" {
		o.Reason = &in.Reason
	}
	return s.capacities.Upsert(ctx, o)
}

// Grid returns one row per visible user per day in [from, to], whether
// or not time was logged that day.
func (s *CapacityService) Grid(ctx context.Context, sc scope.Scope, from, to time.Time) ([]CapacityDay, error) {
	users, err := s.users.ListByIDs(ctx, sc.UserIDs)
	if err != nil {
		return nil, err
	}

	logged, err := s.kpi.CapacityDaily(ctx, sc.UserIDs, from, to)
	if err != nil {
		return nil, err
	}
	loggedByCell := make(map[string]float64, len(logged))
	for _, l := range logged {
		loggedByCell[l.UserID+"|"+l.Day.Format("2006-01-02")] = l.LoggedHours
	}

	var grid []CapacityDay
	for _, u := range users {
		for day := truncateDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
			capacity := float64(defaultDailyCapacityH)
			override, err := s.capacities.Get(ctx, u.ID, day)
			if err != nil {
				return nil, err
			}
			if override != nil {
				capacity = float64(override.CapacityH)
			}
			hours := loggedByCell[u.ID+"|"+day.Format("2006-01-02")]
			grid = append(grid, CapacityDay{
				Day:         day,
				UserID:      u.ID,
				UserName:    u.FullName,
				CapacityH:   capacity,
				LoggedHours: hours,
				DeltaH:      capacity - hours,
			})
		}
	}
	return grid, nil
}

// Totals aggregates a grid per user, keeping the grid's user order.
func Totals(grid []CapacityDay) []CapacityTotal {
	index := make(map[string]int)
	var totals []CapacityTotal
	for _, cell := range grid {
		i, ok := index[cell.UserID]
		if !ok {
			i = len(totals)
			index[cell.UserID] = i
			totals = append(totals, CapacityTotal{UserID: cell.UserID, UserName: cell.UserName})
		}
		totals[i].CapacityH += cell.CapacityH
		totals[i].LoggedHours += cell.LoggedHours
		totals[i].DeltaH += cell.DeltaH
	}
	return totals
}
