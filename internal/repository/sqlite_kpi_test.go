package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/testutil"
)

// The alert view sorts by severity in SQL; that ordering must agree
// with RiskLevel.SeverityRank so every reader ranks alerts the same way.
func TestMissionRisk_OrderedBySeverity(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	consultant := testutil.MustCreateUser(t, database, testutil.NewTestUser("karim"))
	client := testutil.MustCreateClient(t, database, "Acme")
	overrun := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Refonte SI",
		testutil.WithMissionCode("M-2026-001"), testutil.WithSoldDays(5)))
	nearLimit := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Audit Data",
		testutil.WithMissionCode("M-2026-002"), testutil.WithSoldDays(10)))
	noSold := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Régie interne",
		testutil.WithMissionCode("M-2026-003"), testutil.WithSoldDays(0)))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	logDays := func(missionID string, days int) {
		for i := 0; i < days; i++ {
			testutil.MustLogTime(t, database, testutil.NewTestEntry(consultant.ID, missionID,
				testutil.WithEntryDate(day.AddDate(0, 0, i))))
		}
	}
	logDays(overrun.ID, 6)   // 48h against 40h sold
	logDays(nearLimit.ID, 9) // 72h against 80h sold
	logDays(noSold.ID, 1)

	kpi := repository.NewSQLiteKPIRepo(database)
	rows, err := kpi.MissionRisk(ctx, []string{noSold.ID, nearLimit.ID, overrun.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.RiskOverrun, rows[0].RiskLevel)
	assert.Equal(t, domain.RiskNearLimit, rows[1].RiskLevel)
	assert.Equal(t, domain.RiskNoSoldLoad, rows[2].RiskLevel)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].RiskLevel.SeverityRank(), rows[i].RiskLevel.SeverityRank())
	}
}

func TestMissionGetByCode_Unknown(t *testing.T) {
	database := testutil.NewTestDB(t)
	missions := repository.NewSQLiteMissionRepo(database)

	_, err := missions.GetByCode(context.Background(), "M-2099-999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
