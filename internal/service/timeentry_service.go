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

// LogTimeInput is one time entry to record. TargetUserID empty means the
// acting user logs for themselves. MissionCode is empty for internal time.
type LogTimeInput struct {
	TargetUserID string
	Date         time.Time
	MissionCode  string
	Category     domain.TimeCategory
	Hours        int
	Description  string
}

// TimeEntryService records and lists time entries within a scope.
type TimeEntryService struct {
	entries  repository.TimeEntryRepo
	missions repository.MissionRepo
}

func NewTimeEntryService(entries repository.TimeEntryRepo, missions repository.MissionRepo) *TimeEntryService {
	return &TimeEntryService{entries: entries, missions: missions}
}

// Log records one entry. Consultants log only for themselves; admins may
// log for anyone. Client-facing categories need a mission inside the
// caller's scope. Returns false when the entry duplicated an existing
// one for the same day, user, mission and category.
func (s *TimeEntryService) Log(ctx context.Context, sc scope.Scope, in LogTimeInput) (bool, error) {
	targetID := in.TargetUserID
	if targetID == "" {
		targetID = sc.User.ID
	}

	switch sc.User.Role {
	case domain.RoleAdmin:
		// may log for anyone
	case domain.RoleConsultant:
		if targetID != sc.User.ID {
			return false, fmt.Errorf("%w: consultants log time only for themselves", ErrForbidden)
		}
	default:
		return false, fmt.Errorf("%w: role %s cannot record time entries", ErrForbidden, sc.User.Role)
	}

	e := &domain.TimeEntry{
		ID:        uuid.New().String(),
		EntryDate: in.Date,
		UserID:    targetID,
		Category:  in.Category,
		Hours:     in.Hours,
		CreatedAt: time.Now().UTC(),
	}
	if in.Description != "" {
		e.Description = &in.Description
	}

	if in.MissionCode != "" {
		mission, err := s.missions.GetByCode(ctx, in.MissionCode)
		if err != nil {
			return false, err
		}
		if sc.User.Role != domain.RoleAdmin && !containsID(sc.MissionIDs, mission.ID) {
			return false, fmt.Errorf("%w: mission %s is outside your perimeter", ErrForbidden, in.MissionCode)
		}
		e.MissionID = &mission.ID
	}

	return s.entries.Create(ctx, e)
}

// History lists the entries of the scope's visible users over a period.
func (s *TimeEntryService) History(ctx context.Context, sc scope.Scope, from, to time.Time) ([]repository.TimeEntryDetail, error) {
	return s.entries.ListRange(ctx, sc.UserIDs, from, to)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
