package service

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

func newCapacityService(f *serviceFixture) *CapacityService {
	return NewCapacityService(
		repository.NewSQLiteUserRepo(f.db),
		repository.NewSQLiteCapacityRepo(f.db),
		repository.NewSQLiteKPIRepo(f.db),
	)
}

func TestSetOverride_RoleGate(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	err := svc.SetOverride(context.Background(), f.scopeFor(t, f.consultant), SetOverrideInput{
		TargetUserID: f.consultant.ID, Date: day, CapacityH: 4,
	})
	require.ErrorIs(t, err, ErrForbidden)

	// A lead may change someone in their perimeter.
	err = svc.SetOverride(context.Background(), f.scopeFor(t, f.lead), SetOverrideInput{
		TargetUserID: f.consultant.ID, Date: day, CapacityH: 4, Reason: "Mi-temps",
	})
	require.NoError(t, err)

	override, err := repository.NewSQLiteCapacityRepo(f.db).Get(context.Background(), f.consultant.ID, day)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.Equal(t, 4, override.CapacityH)
}

func TestSetOverride_OutsidePerimeterRefused(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)

	// The admin is not on the lead's missions.
	err := svc.SetOverride(context.Background(), f.scopeFor(t, f.lead), SetOverrideInput{
		TargetUserID: f.admin.ID,
		Date:         time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		CapacityH:    4,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSetOverride_RangeChecked(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)
	sc := f.scopeFor(t, f.admin)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	err := svc.SetOverride(context.Background(), sc, SetOverrideInput{TargetUserID: f.consultant.ID, Date: day, CapacityH: 25})
	require.Error(t, err)
	err = svc.SetOverride(context.Background(), sc, SetOverrideInput{TargetUserID: f.consultant.ID, Date: day, CapacityH: -1})
	require.Error(t, err)
}

func TestSetOverride_UpsertsSameDay(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)
	sc := f.scopeFor(t, f.admin)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SetOverride(context.Background(), sc, SetOverrideInput{TargetUserID: f.consultant.ID, Date: day, CapacityH: 4}))
	require.NoError(t, svc.SetOverride(context.Background(), sc, SetOverrideInput{TargetUserID: f.consultant.ID, Date: day, CapacityH: 6}))

	override, err := repository.NewSQLiteCapacityRepo(f.db).Get(context.Background(), f.consultant.ID, day)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.Equal(t, 6, override.CapacityH)
}

func TestGrid_DenseWithOverridesAndTotals(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Karim logs 8h Monday and 8h Tuesday; Wednesday his capacity is 4h.
	testutil.MustLogTime(t, f.db, testutil.NewTestEntry(f.consultant.ID, f.mission.ID, testutil.WithEntryDate(monday)))
	testutil.MustLogTime(t, f.db, testutil.NewTestEntry(f.consultant.ID, f.mission.ID, testutil.WithEntryDate(monday.AddDate(0, 0, 1))))
	require.NoError(t, svc.SetOverride(context.Background(), f.scopeFor(t, f.admin), SetOverrideInput{
		TargetUserID: f.consultant.ID, Date: monday.AddDate(0, 0, 2), CapacityH: 4,
	}))

	// Consultant scope: one user, five days.
	sc := f.scopeFor(t, f.consultant)
	grid, err := svc.Grid(context.Background(), sc, monday, monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	require.Len(t, grid, 5)

	assert.Equal(t, 8.0, grid[0].LoggedHours)
	assert.Equal(t, 0.0, grid[0].DeltaH)
	assert.Equal(t, 8.0, grid[1].LoggedHours)
	// Wednesday: no logging, overridden capacity.
	assert.Equal(t, 4.0, grid[2].CapacityH)
	assert.Equal(t, 0.0, grid[2].LoggedHours)
	assert.Equal(t, 4.0, grid[2].DeltaH)
	// Thursday and Friday fall back to the 8h default.
	assert.Equal(t, 8.0, grid[3].CapacityH)
	assert.Equal(t, 8.0, grid[4].CapacityH)

	totals := Totals(grid)
	require.Len(t, totals, 1)
	assert.Equal(t, "Karim Conseil", totals[0].UserName)
	assert.Equal(t, 36.0, totals[0].CapacityH)
	assert.Equal(t, 16.0, totals[0].LoggedHours)
	assert.Equal(t, 20.0, totals[0].DeltaH)
}

func TestGrid_EmptyScope(t *testing.T) {
	f := setupFixture(t)
	svc := newCapacityService(f)

	stranger := *f.consultant
	stranger.Role = domain.Role("UNKNOWN")
	sc := f.scopeFor(t, &stranger)

	grid, err := svc.Grid(context.Background(), sc,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, grid)
}
