package repository

import (
	"context"
	"time"

	"github.com/alexisferrand/cockpit/internal/domain"
)

// The KPI read models mirror the SQL views defined in internal/db.
// Every query is scoped by an explicit, bounded id set; an empty set
// short-circuits to an empty result without touching the database.

type MissionHoursRow struct {
	MissionID     string
	MissionCode   string
	MissionName   string
	ClientName    string
	Status        domain.MissionStatus
	SoldDays      float64
	SoldHours     float64
	ConsumedHours float64
	// ConsumedPct is nil when sold hours is zero (undefined ratio).
	ConsumedPct *float64
}

type MissionHoursTotals struct {
	MissionsCount int
	ConsumedHours float64
	SoldHours     float64
}

type MissionVarianceRow struct {
	MissionID     string
	MissionCode   string
	MissionName   string
	ClientName    string
	SoldHours     float64
	ConsumedHours float64
	VarianceHours float64
}

type MissionRiskRow struct {
	MissionVarianceRow
	RiskLevel domain.RiskLevel
}

type UserLoadRow struct {
	UserID      string
	UserName    string
	LoggedHours float64
}

type UserLoadDailyRow struct {
	Day         time.Time
	UserID      string
	UserName    string
	CapacityH   float64
	LoggedHours float64
}

type CapacityAlertWeeklyRow struct {
	Year         int
	Week         int
	WeekStartDay time.Time
	WeekEndDay   time.Time
	UserID       string
	UserName     string
	CapacityH    float64
	LoggedHours  float64
	OverH        float64
}

type CategoryHoursRow struct {
	Category domain.TimeCategory
	Hours    float64
}

type MissionFinanceRow struct {
	MissionID     string
	MissionCode   string
	MissionName   string
	ClientName    string
	SoldAmountEUR float64
	CostEUR       float64
	MarginEUR     float64
}

type FinanceTotals struct {
	SoldAmountEUR float64
	CostEUR       float64
	MarginEUR     float64
}

type SimulationSummaryRow struct {
	SimulationID  string
	MissionID     *string
	ClientName    string
	ProjectName   string
	Status        domain.SimulationStatus
	CreatedAt     time.Time
	PlannedHours  float64
	BillableHours float64
	RevenueTotal  float64
	CostTotal     float64
	MarginTotal   float64
	// MarginPct is nil when revenue is zero.
	MarginPct *float64
}

type KPIRepo interface {
	MissionHours(ctx context.Context, missionIDs []string) ([]MissionHoursRow, error)
	MissionHoursByID(ctx context.Context, missionID string) (*MissionHoursRow, error)
	MissionHoursTotals(ctx context.Context, missionIDs []string) (*MissionHoursTotals, error)
	TopVariance(ctx context.Context, missionIDs []string, limit int) ([]MissionVarianceRow, error)
	MissionRisk(ctx context.Context, missionIDs []string) ([]MissionRiskRow, error)
	UserLoadTotals(ctx context.Context, userIDs []string) ([]UserLoadRow, error)
	CapacityDaily(ctx context.Context, userIDs []string, from, to time.Time) ([]UserLoadDailyRow, error)
	CapacityAlertsDaily(ctx context.Context, userIDs []string) ([]UserLoadDailyRow, error)
	CapacityAlertsWeekly(ctx context.Context, userIDs []string) ([]CapacityAlertWeeklyRow, error)
	TimeSplitByUsers(ctx context.Context, userIDs []string) ([]CategoryHoursRow, error)
	CategoryBreakdownForMission(ctx context.Context, missionID string) ([]CategoryHoursRow, error)
	FinanceByMission(ctx context.Context, missionIDs []string) ([]MissionFinanceRow, error)
	FinanceByMissionID(ctx context.Context, missionID string) (*MissionFinanceRow, error)
	FinanceTotals(ctx context.Context, missionIDs []string) (*FinanceTotals, error)
	LowestMargins(ctx context.Context, missionIDs []string, limit int) ([]MissionFinanceRow, error)
	SimulationSummaries(ctx context.Context, missionIDs []string, includeArchived bool) ([]SimulationSummaryRow, error)
	AllSimulationSummaries(ctx context.Context) ([]SimulationSummaryRow, error)
	SimulationSummaryByID(ctx context.Context, simulationID string) (*SimulationSummaryRow, error)
}
