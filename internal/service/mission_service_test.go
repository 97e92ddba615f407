package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
)

func newMissionService(f *serviceFixture) *MissionService {
	return NewMissionService(
		repository.NewSQLiteMissionRepo(f.db),
		repository.NewSQLiteClientRepo(f.db),
		repository.NewSQLiteUserRepo(f.db),
		repository.NewSQLiteKPIRepo(f.db),
	)
}

func TestMissionCreate_AdminOnly(t *testing.T) {
	f := setupFixture(t)
	svc := newMissionService(f)

	in := CreateMissionInput{
		ClientName: "Globex",
		Code:       "M-2026-010",
		Name:       "Plan de transformation",
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		SoldDays:   20,
	}
	_, err := svc.Create(context.Background(), f.scopeFor(t, f.board), in)
	require.ErrorIs(t, err, ErrForbidden)

	m, err := svc.Create(context.Background(), f.scopeFor(t, f.admin), in)
	require.NoError(t, err)
	assert.Equal(t, domain.MissionOngoing, m.Status)

	// The unknown client was created on the fly.
	client, err := repository.NewSQLiteClientRepo(f.db).GetByName(context.Background(), "Globex")
	require.NoError(t, err)
	assert.Equal(t, client.ID, m.ClientID)
}

func TestMissionCreate_WithLead(t *testing.T) {
	f := setupFixture(t)
	svc := newMissionService(f)

	m, err := svc.Create(context.Background(), f.scopeFor(t, f.admin), CreateMissionInput{
		ClientName:   "Acme",
		Code:         "M-2026-011",
		Name:         "Cadrage produit",
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		LeadUsername: "lea",
	})
	require.NoError(t, err)

	// The lead now sees the new mission in their scope.
	sc := f.scopeFor(t, f.lead)
	assert.Contains(t, sc.MissionIDs, m.ID)
}

func TestMissionCreate_RejectsBadCode(t *testing.T) {
	f := setupFixture(t)
	svc := newMissionService(f)

	_, err := svc.Create(context.Background(), f.scopeFor(t, f.admin), CreateMissionInput{
		ClientName: "Acme",
		Code:       "MISSION-42",
		Name:       "Code invalide",
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "M-YYYY-NNN")
}

func TestMissionAssign_ExtendsConsultantScope(t *testing.T) {
	f := setupFixture(t)
	svc := newMissionService(f)

	err := svc.Assign(context.Background(), f.scopeFor(t, f.consultant), "M-2026-002", "karim", 50,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Assign(context.Background(), f.scopeFor(t, f.admin), "M-2026-002", "karim", 50,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	sc := f.scopeFor(t, f.consultant)
	assert.ElementsMatch(t, []string{f.mission.ID, f.other.ID}, sc.MissionIDs)
}

func TestPortfolio_FinanceOnlyForBoard(t *testing.T) {
	f := setupFixture(t)
	svc := newMissionService(f)

	board, err := svc.Portfolio(context.Background(), f.scopeFor(t, f.board))
	require.NoError(t, err)
	assert.Len(t, board.Missions, 2)
	assert.Len(t, board.Finance, 2)

	consultant, err := svc.Portfolio(context.Background(), f.scopeFor(t, f.consultant))
	require.NoError(t, err)
	assert.Len(t, consultant.Missions, 1)
	assert.Nil(t, consultant.Finance)
}
