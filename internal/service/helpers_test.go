package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/scope"
	"github.com/alexisferrand/cockpit/internal/testutil"
)

// serviceFixture wires a seeded database and its resolved scopes for
// the three roles the service gates care about.
type serviceFixture struct {
	db         *sql.DB
	admin      *domain.User
	board      *domain.User
	lead       *domain.User
	consultant *domain.User
	mission    *domain.Mission
	other      *domain.Mission
}

func setupFixture(t *testing.T) *serviceFixture {
	t.Helper()
	database := testutil.NewTestDB(t)

	admin := testutil.MustCreateUser(t, database, testutil.NewTestUser("admin", testutil.WithRole(domain.RoleAdmin), testutil.WithFullName("Ada Admin")))
	board := testutil.MustCreateUser(t, database, testutil.NewTestUser("claire", testutil.WithRole(domain.RoleBoard), testutil.WithFullName("Claire Board")))
	lead := testutil.MustCreateUser(t, database, testutil.NewTestUser("lea", testutil.WithRole(domain.RoleLead), testutil.WithFullName("Léa Lead")))
	consultant := testutil.MustCreateUser(t, database, testutil.NewTestUser("karim", testutil.WithFullName("Karim Conseil")))

	client := testutil.MustCreateClient(t, database, "Acme")
	mission := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Refonte SI", testutil.WithMissionCode("M-2026-001")))
	other := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Audit Data", testutil.WithMissionCode("M-2026-002")))

	testutil.MustAddLead(t, database, mission.ID, lead.ID)
	testutil.MustAddAssignment(t, database, mission.ID, consultant.ID)

	return &serviceFixture{db: database, admin: admin, board: board, lead: lead, consultant: consultant, mission: mission, other: other}
}

func (f *serviceFixture) scopeFor(t *testing.T, u *domain.User) scope.Scope {
	t.Helper()
	s, err := scope.NewResolver(f.db).Resolve(context.Background(), *u)
	require.NoError(t, err)
	return s
}
