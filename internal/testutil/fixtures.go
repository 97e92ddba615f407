package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
)

var missionSeqCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithFullName(name string) UserOption {
	return func(u *domain.User) {
		u.FullName = name
	}
}

func WithInactiveUser() UserOption {
	return func(u *domain.User) {
		u.IsActive = false
	}
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "x",
		Role:         domain.RoleConsultant,
		FullName:     username,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Mission options
type MissionOption func(*domain.Mission)

func WithMissionCode(code string) MissionOption {
	return func(m *domain.Mission) {
		m.Code = code
	}
}

func WithSoldDays(days float64) MissionOption {
	return func(m *domain.Mission) {
		m.SoldDays = days
	}
}

func WithFinance(soldAmountEUR, dailyCostEUR float64) MissionOption {
	return func(m *domain.Mission) {
		m.SoldAmountEUR = soldAmountEUR
		m.DailyCostEUR = dailyCostEUR
	}
}

func WithMissionStatus(s domain.MissionStatus) MissionOption {
	return func(m *domain.Mission) {
		m.Status = s
	}
}

func WithInactiveMission() MissionOption {
	return func(m *domain.Mission) {
		m.IsActive = false
	}
}

func defaultMissionCode() string {
	n := missionSeqCounter.Add(1)
	return fmt.Sprintf("M-2026-%03d", n)
}

func NewTestMission(clientID, name string, opts ...MissionOption) *domain.Mission {
	m := &domain.Mission{
		ID:            uuid.New().String(),
		ClientID:      clientID,
		Code:          defaultMissionCode(),
		Name:          name,
		Status:        domain.MissionOngoing,
		StartDate:     time.Now().UTC().AddDate(0, -1, 0),
		SoldDays:      10,
		SoldAmountEUR: 10000,
		DailyCostEUR:  500,
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TimeEntry options
type EntryOption func(*domain.TimeEntry)

func WithCategory(c domain.TimeCategory) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Category = c
	}
}

func WithEntryDate(d time.Time) EntryOption {
	return func(e *domain.TimeEntry) {
		e.EntryDate = d
	}
}

func WithHours(h int) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Hours = h
	}
}

// NewTestEntry builds a billable entry; pass an empty missionID together
// with WithCategory(domain.CategoryInternal) for internal time.
func NewTestEntry(userID, missionID string, opts ...EntryOption) *domain.TimeEntry {
	e := &domain.TimeEntry{
		ID:        uuid.New().String(),
		EntryDate: time.Now().UTC().Truncate(24 * time.Hour),
		UserID:    userID,
		Category:  domain.CategoryBillable,
		Hours:     8,
		CreatedAt: time.Now().UTC(),
	}
	if missionID != "" {
		e.MissionID = &missionID
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Persistence helpers. Each one fatals the test on error so fixture
// setup stays a straight line in test bodies.

func MustCreateUser(t *testing.T, conn db.DBTX, u *domain.User) *domain.User {
	t.Helper()
	if err := repository.NewSQLiteUserRepo(conn).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create test user %s: %v", u.Username, err)
	}
	return u
}

func MustCreateClient(t *testing.T, conn db.DBTX, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{ID: uuid.New().String(), Name: name, IsActive: true}
	if err := repository.NewSQLiteClientRepo(conn).Create(context.Background(), c); err != nil {
		t.Fatalf("failed to create test client %s: %v", name, err)
	}
	return c
}

func MustCreateMission(t *testing.T, conn db.DBTX, m *domain.Mission) *domain.Mission {
	t.Helper()
	if err := repository.NewSQLiteMissionRepo(conn).Create(context.Background(), m); err != nil {
		t.Fatalf("failed to create test mission %s: %v", m.Code, err)
	}
	return m
}

func MustAddLead(t *testing.T, conn db.DBTX, missionID, userID string) {
	t.Helper()
	if err := repository.NewSQLiteMissionRepo(conn).AddLead(context.Background(), missionID, userID); err != nil {
		t.Fatalf("failed to add mission lead: %v", err)
	}
}

func MustAddAssignment(t *testing.T, conn db.DBTX, missionID, userID string) {
	t.Helper()
	a := &domain.MissionAssignment{
		ID:            uuid.New().String(),
		MissionID:     missionID,
		UserID:        userID,
		StartDate:     time.Now().UTC().AddDate(0, -1, 0),
		AllocationPct: 100,
	}
	if err := repository.NewSQLiteMissionRepo(conn).AddAssignment(context.Background(), a); err != nil {
		t.Fatalf("failed to add mission assignment: %v", err)
	}
}

func MustLogTime(t *testing.T, conn db.DBTX, e *domain.TimeEntry) {
	t.Helper()
	inserted, err := repository.NewSQLiteTimeEntryRepo(conn).Create(context.Background(), e)
	if err != nil {
		t.Fatalf("failed to log test time entry: %v", err)
	}
	if !inserted {
		t.Fatalf("test time entry was deduplicated, adjust fixture dates")
	}
}
