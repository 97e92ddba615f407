package chatbot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/testutil"
)

type chatFixture struct {
	answerer   *Answerer
	board      *domain.User
	consultant *domain.User
	overrun    *domain.Mission
	healthy    *domain.Mission
}

// setupChat seeds two missions for one client: "Refonte SI" is overrun
// (5 sold days = 40h, 48h logged) and "Audit Data" is comfortably under
// budget (10 sold days = 80h, 8h logged).
func setupChat(t *testing.T) chatFixture {
	t.Helper()
	database := testutil.NewTestDB(t)

	board := testutil.MustCreateUser(t, database, testutil.NewTestUser("claire", testutil.WithRole(domain.RoleBoard), testutil.WithFullName("Claire Board")))
	consultant := testutil.MustCreateUser(t, database, testutil.NewTestUser("karim", testutil.WithFullName("Karim Conseil")))

	client := testutil.MustCreateClient(t, database, "Acme")
	overrun := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Refonte SI",
		testutil.WithMissionCode("M-2026-001"), testutil.WithSoldDays(5), testutil.WithFinance(20000, 600)))
	healthy := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Audit Data",
		testutil.WithMissionCode("M-2026-002"), testutil.WithSoldDays(10), testutil.WithFinance(15000, 500)))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		testutil.MustLogTime(t, database, testutil.NewTestEntry(consultant.ID, overrun.ID,
			testutil.WithEntryDate(day.AddDate(0, 0, i))))
	}
	testutil.MustLogTime(t, database, testutil.NewTestEntry(consultant.ID, healthy.ID,
		testutil.WithEntryDate(day), testutil.WithCategory(domain.CategoryNonBillableClient)))
	testutil.MustLogTime(t, database, testutil.NewTestEntry(consultant.ID, "",
		testutil.WithEntryDate(day), testutil.WithCategory(domain.CategoryInternal), testutil.WithHours(4)))

	answerer := NewAnswerer(
		repository.NewSQLiteMissionRepo(database),
		repository.NewSQLiteKPIRepo(database),
	)
	return chatFixture{answerer: answerer, board: board, consultant: consultant, overrun: overrun, healthy: healthy}
}

func (f chatFixture) boardContext() Context {
	return Context{
		Role:           domain.RoleBoard,
		UserID:         f.board.ID,
		MissionIDs:     []string{f.overrun.ID, f.healthy.ID},
		VisibleUserIDs: []string{f.board.ID, f.consultant.ID},
	}
}

func (f chatFixture) consultantContext() Context {
	return Context{
		Role:           domain.RoleConsultant,
		UserID:         f.consultant.ID,
		MissionIDs:     []string{f.overrun.ID, f.healthy.ID},
		VisibleUserIDs: []string{f.consultant.ID},
	}
}

func TestAnswer_StatusGlobal(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "Où en est-on cette semaine ?")
	require.NoError(t, err)

	assert.Contains(t, res.Text, "2 mission(s) visible(s)")
	assert.Contains(t, res.Text, "Heures consommées : 56 h")
	assert.Contains(t, res.Text, "Heures vendues : 120 h")
	require.Len(t, res.Tables, 1)
	assert.Equal(t, "Top dérives (heures)", res.Tables[0].Title)
	// Largest variance first.
	assert.Equal(t, "M-2026-001", res.Tables[0].Rows[0][0])
}

func TestAnswer_ProjectsRisk(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "Quels projets sont à risque ?")
	require.NoError(t, err)

	assert.Contains(t, res.Text, "1 projet(s) à risque")
	require.Len(t, res.Tables, 1)
	require.Len(t, res.Tables[0].Rows, 1)
	row := res.Tables[0].Rows[0]
	assert.Equal(t, "M-2026-001", row[0])
	assert.Equal(t, "overrun", row[6])
}

// A mission sold at zero days is always flagged no_sold_load, and the
// consumption ratio is undefined for it.
func TestAnswer_MissionWithoutSoldLoad(t *testing.T) {
	database := testutil.NewTestDB(t)
	board := testutil.MustCreateUser(t, database, testutil.NewTestUser("claire", testutil.WithRole(domain.RoleBoard)))
	consultant := testutil.MustCreateUser(t, database, testutil.NewTestUser("karim"))
	client := testutil.MustCreateClient(t, database, "Acme")
	regie := testutil.MustCreateMission(t, database, testutil.NewTestMission(client.ID, "Régie interne",
		testutil.WithMissionCode("M-2026-003"), testutil.WithSoldDays(0)))
	testutil.MustLogTime(t, database, testutil.NewTestEntry(consultant.ID, regie.ID,
		testutil.WithEntryDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))))

	answerer := NewAnswerer(
		repository.NewSQLiteMissionRepo(database),
		repository.NewSQLiteKPIRepo(database),
	)
	cc := Context{
		Role:           domain.RoleBoard,
		UserID:         board.ID,
		MissionIDs:     []string{regie.ID},
		VisibleUserIDs: []string{board.ID, consultant.ID},
	}

	risk, err := answerer.Answer(context.Background(), cc, "Quels projets sont à risque ?")
	require.NoError(t, err)
	require.Len(t, risk.Tables, 1)
	require.Len(t, risk.Tables[0].Rows, 1)
	assert.Equal(t, "M-2026-003", risk.Tables[0].Rows[0][0])
	assert.Equal(t, "no_sold_load", risk.Tables[0].Rows[0][6])

	focus, err := answerer.Answer(context.Background(), cc, "où en est M-2026-003 ?")
	require.NoError(t, err)
	assert.Contains(t, focus.Text, "Heures vendues : 0 h")
	assert.Contains(t, focus.Text, "Taux de conso : N/A")
}

func TestAnswer_WhoBusy(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "Qui est le plus chargé ?")
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Karim Conseil")
	assert.Contains(t, res.Text, "60 h")
	require.Len(t, res.Tables, 1)
	assert.Equal(t, "Karim Conseil", res.Tables[0].Rows[0][0])
}

func TestAnswer_TimeSplitPercentages(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.consultantContext(), "Répartition billable / internal ?")
	require.NoError(t, err)

	require.Len(t, res.Tables, 1)
	rows := res.Tables[0].Rows
	require.Len(t, rows, 3)
	// 48h billable, 8h non billable client, 4h internal.
	assert.Equal(t, []string{"billable", "48", "80.0"}, rows[0])
	assert.Equal(t, []string{"non_billable_client", "8", "13.3"}, rows[1])
	assert.Equal(t, []string{"internal", "4", "6.7"}, rows[2])
}

func TestAnswer_FinanceSummaryForBoard(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "Synthèse finance ?")
	require.NoError(t, err)

	// Sold 35 000; cost = 48/8*600 + 8/8*500 = 4 100; margin 30 900.
	assert.Contains(t, res.Text, "CA vendu : 35 000 €")
	assert.Contains(t, res.Text, "Coûts : 4 100 €")
	assert.Contains(t, res.Text, "Marge : 30 900 €")
	require.Len(t, res.Tables, 1)
	// Lowest margin first.
	assert.Equal(t, "M-2026-002", res.Tables[0].Rows[0][1])
}

func TestAnswer_FinanceRefusedForConsultant(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.consultantContext(), "Quelle est la marge ?")
	require.NoError(t, err)

	assert.Equal(t, msgFinanceForbidden, res.Text)
	assert.Empty(t, res.Tables)
}

func TestAnswer_MissionFocusByCode(t *testing.T) {
	f := setupChat(t)
	for _, q := range []string{
		"où en est M-2026-001 ?",
		"statut m2026-001",
		"focus M 2026 001",
	} {
		res, err := f.answerer.Answer(context.Background(), f.boardContext(), q)
		require.NoError(t, err)
		assert.Contains(t, res.Text, "Focus mission : M-2026-001 — Refonte SI (Acme)", "question: %q", q)
		assert.Contains(t, res.Text, "Heures vendues : 40 h")
		assert.Contains(t, res.Text, "Heures consommées : 48 h")
		assert.Contains(t, res.Text, "Taux de conso : 120.0 %")
	}
}

func TestAnswer_MissionFocusByName(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "où en est la mission Refonte SI ?")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Focus mission : M-2026-001")
}

func TestAnswer_MissionFocusHidesFinanceFromConsultant(t *testing.T) {
	f := setupChat(t)

	board, err := f.answerer.Answer(context.Background(), f.boardContext(), "où en est M-2026-001 ?")
	require.NoError(t, err)
	assert.Contains(t, board.Text, "Financier (Board/Admin)")
	assert.Contains(t, board.Text, "CA vendu : 20 000 €")

	consultant, err := f.answerer.Answer(context.Background(), f.consultantContext(), "où en est M-2026-001 ?")
	require.NoError(t, err)
	assert.NotContains(t, consultant.Text, "Financier")
	assert.NotContains(t, consultant.Text, "20 000")
}

func TestAnswer_MissionOutsideScopeIsInvisible(t *testing.T) {
	f := setupChat(t)
	cc := f.consultantContext()
	cc.MissionIDs = []string{f.healthy.ID}

	res, err := f.answerer.Answer(context.Background(), cc, "où en est M-2026-001 ?")
	require.NoError(t, err)
	// The code names a real mission, but not a visible one: the question
	// falls through to the global status over the visible perimeter.
	assert.NotContains(t, res.Text, "Focus mission")
	assert.Contains(t, res.Text, "1 mission(s) visible(s)")
}

func TestAnswer_EmptyScope(t *testing.T) {
	f := setupChat(t)
	cc := Context{Role: domain.RoleConsultant, UserID: f.consultant.ID}

	for _, q := range []string{"statut ?", "projets à risque ?", "marge ?"} {
		res, err := f.answerer.Answer(context.Background(), cc, q)
		require.NoError(t, err)
		assert.Equal(t, msgNoVisibleMissions, res.Text, "question: %q", q)
		assert.Empty(t, res.Tables)
	}

	// Help still answers without any visible mission.
	res, err := f.answerer.Answer(context.Background(), cc, "aide")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "lecture seule")
}

func TestAnswer_HelpListsFinanceOnlyForBoard(t *testing.T) {
	f := setupChat(t)

	board, err := f.answerer.Answer(context.Background(), f.boardContext(), "aide")
	require.NoError(t, err)
	assert.Contains(t, board.Text, "Synthèse finance")

	consultant, err := f.answerer.Answer(context.Background(), f.consultantContext(), "help")
	require.NoError(t, err)
	assert.NotContains(t, consultant.Text, "Synthèse finance")
}

func TestAnswer_SameQuestionSameAnswer(t *testing.T) {
	f := setupChat(t)
	cc := f.boardContext()

	for _, q := range []string{"Où en est-on ?", "projets à risque", "qui est chargé", "marge"} {
		first, err := f.answerer.Answer(context.Background(), cc, q)
		require.NoError(t, err)
		second, err := f.answerer.Answer(context.Background(), cc, q)
		require.NoError(t, err)
		assert.Equal(t, first, second, "question: %q", q)
	}
}

func TestFormatEUR(t *testing.T) {
	assert.Equal(t, "0", formatEUR(0))
	assert.Equal(t, "950", formatEUR(950))
	assert.Equal(t, "12 500", formatEUR(12500))
	assert.Equal(t, "1 234 568", formatEUR(1234567.6))
	assert.Equal(t, "-30 900", formatEUR(-30900))
}

func TestAnswer_TextsEndTrimmed(t *testing.T) {
	f := setupChat(t)
	res, err := f.answerer.Answer(context.Background(), f.boardContext(), "blabla incompréhensible")
	require.NoError(t, err)
	// No rule matches: falls back to the global status, never to an error.
	assert.True(t, strings.Contains(res.Text, "Statut global"))
}
