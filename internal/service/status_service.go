package service

import (
	"context"

	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
)

// Overview is the synthesis of the visible perimeter. Finance and
// Simulations stay nil for roles without finance access.
type Overview struct {
	MissionsCount int
	ConsumedHours float64
	SoldHours     float64
	// ConsumedPct is nil when no hours were sold.
	ConsumedPct *float64
	TopVariance []repository.MissionVarianceRow
	Finance     *repository.FinanceTotals
	Simulations []repository.SimulationSummaryRow
}

// CapacityAlerts bundles the daily and weekly overload alerts.
type CapacityAlerts struct {
	Daily  []repository.UserLoadDailyRow
	Weekly []repository.CapacityAlertWeeklyRow
}

// StatusService computes the synthesis and alert read models.
type StatusService struct {
	kpi repository.KPIRepo
}

func NewStatusService(kpi repository.KPIRepo) *StatusService {
	return &StatusService{kpi: kpi}
}

func (s *StatusService) Overview(ctx context.Context, sc scope.Scope) (*Overview, error) {
	totals, err := s.kpi.MissionHoursTotals(ctx, sc.MissionIDs)
	if err != nil {
		return nil, err
	}
	o := &Overview{
		MissionsCount: totals.MissionsCount,
		ConsumedHours: totals.ConsumedHours,
		SoldHours:     totals.SoldHours,
	}
	if totals.SoldHours > 0 {
		pct := totals.ConsumedHours / totals.SoldHours * 100
		o.ConsumedPct = &pct
	}

	o.TopVariance, err = s.kpi.TopVariance(ctx, sc.MissionIDs, 5)
	if err != nil {
		return nil, err
	}

	if sc.CanSeeFinance() {
		o.Finance, err = s.kpi.FinanceTotals(ctx, sc.MissionIDs)
		if err != nil {
			return nil, err
		}
		o.Simulations, err = s.kpi.SimulationSummaries(ctx, sc.MissionIDs, false)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MissionAlerts lists the missions alerting on budget risk, most severe
// first.
func (s *StatusService) MissionAlerts(ctx context.Context, sc scope.Scope) ([]repository.MissionRiskRow, error) {
	return s.kpi.MissionRisk(ctx, sc.MissionIDs)
}

// OverloadAlerts lists the day and week overloads for visible users.
func (s *StatusService) OverloadAlerts(ctx context.Context, sc scope.Scope) (*CapacityAlerts, error) {
	daily, err := s.kpi.CapacityAlertsDaily(ctx, sc.UserIDs)
	if err != nil {
		return nil, err
	}
	weekly, err := s.kpi.CapacityAlertsWeekly(ctx, sc.UserIDs)
	if err != nil {
		return nil, err
	}
	return &CapacityAlerts{Daily: daily, Weekly: weekly}, nil
}
