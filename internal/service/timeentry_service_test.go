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

func newTimeEntryService(f *serviceFixture) *TimeEntryService {
	return NewTimeEntryService(
		repository.NewSQLiteTimeEntryRepo(f.db),
		repository.NewSQLiteMissionRepo(f.db),
	)
}

func TestLog_ConsultantForSelf(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	sc := f.scopeFor(t, f.consultant)

	inserted, err := svc.Log(context.Background(), sc, LogTimeInput{
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		MissionCode: "M-2026-001",
		Category:    domain.CategoryBillable,
		Hours:       8,
		Description: "Atelier cadrage",
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// Exact duplicate is ignored, not an error.
	inserted, err = svc.Log(context.Background(), sc, LogTimeInput{
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		MissionCode: "M-2026-001",
		Category:    domain.CategoryBillable,
		Hours:       8,
	})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestLog_ConsultantCannotLogForOthers(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	sc := f.scopeFor(t, f.consultant)

	_, err := svc.Log(context.Background(), sc, LogTimeInput{
		TargetUserID: f.lead.ID,
		Date:         time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Category:     domain.CategoryInternal,
		Hours:        4,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLog_AdminLogsForAnyone(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	sc := f.scopeFor(t, f.admin)

	inserted, err := svc.Log(context.Background(), sc, LogTimeInput{
		TargetUserID: f.consultant.ID,
		Date:         time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		MissionCode:  "M-2026-002",
		Category:     domain.CategoryNonBillableClient,
		Hours:        4,
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestLog_BoardAndLeadCannotWrite(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)

	_, err := svc.Log(context.Background(), f.scopeFor(t, f.lead), LogTimeInput{
		Date:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Category: domain.CategoryInternal,
		Hours:    4,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLog_MissionOutsideScopeRefused(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	// Karim is assigned to M-2026-001 only.
	sc := f.scopeFor(t, f.consultant)

	_, err := svc.Log(context.Background(), sc, LogTimeInput{
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		MissionCode: "M-2026-002",
		Category:    domain.CategoryBillable,
		Hours:       8,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLog_InvalidEntriesRejected(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	sc := f.scopeFor(t, f.consultant)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Client-facing category without a mission.
	_, err := svc.Log(context.Background(), sc, LogTimeInput{
		Date: day, Category: domain.CategoryBillable, Hours: 8,
	})
	require.Error(t, err)

	// Internal category with a mission.
	_, err = svc.Log(context.Background(), sc, LogTimeInput{
		Date: day, MissionCode: "M-2026-001", Category: domain.CategoryInternal, Hours: 4,
	})
	require.Error(t, err)

	// Off-list duration.
	_, err = svc.Log(context.Background(), sc, LogTimeInput{
		Date: day, MissionCode: "M-2026-001", Category: domain.CategoryBillable, Hours: 3,
	})
	require.Error(t, err)
}

func TestHistory_LimitedToVisibleUsers(t *testing.T) {
	f := setupFixture(t)
	svc := newTimeEntryService(f)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Log(context.Background(), f.scopeFor(t, f.consultant), LogTimeInput{
		Date: day, MissionCode: "M-2026-001", Category: domain.CategoryBillable, Hours: 8,
	})
	require.NoError(t, err)
	_, err = svc.Log(context.Background(), f.scopeFor(t, f.admin), LogTimeInput{
		Date: day, Category: domain.CategoryInternal, Hours: 4,
	})
	require.NoError(t, err)

	// The consultant sees only their own line.
	history, err := svc.History(context.Background(), f.scopeFor(t, f.consultant), day, day)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Karim Conseil", history[0].UserName)
	assert.Equal(t, "M-2026-001", history[0].MissionCode)

	// The admin sees both.
	history, err = svc.History(context.Background(), f.scopeFor(t, f.admin), day, day)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
