package domain

import "time"

// Simulation is a financial quote/forecast, optionally linked to a mission
// (a nil MissionID means a pre-sale quote).
type Simulation struct {
	ID           string
	MissionID    *string
	ClientName   string
	ProjectName  string
	Sector       *string
	StartDate    *time.Time
	EndDate      *time.Time
	AuthorUserID string
	CreatedAt    time.Time
	Status       SimulationStatus
	Notes        *string
}

type SimulationInternalResource struct {
	ID               string
	SimulationID     string
	ResourceName     *string
	Grade            *string
	StdRatePerHour   float64
	StdCostPerHour   float64
	PlannedDays      float64
	HoursPerDay      float64
	BillableRatio    float64
	NonBillableHours float64
}

type SimulationExternalResource struct {
	ID             string
	SimulationID   string
	ProviderName   *string
	Role           *string
	BuyRatePerDay  float64
	SellRatePerDay float64
	PlannedDays    float64
	HoursPerDay    float64
}

type SimulationCost struct {
	ID               string
	SimulationID     string
	CostType         CostType
	Label            *string
	CostAmount       float64
	RefacturedAmount float64
}
