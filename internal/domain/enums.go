package domain

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleBoard      Role = "BOARD"
	RoleLead       Role = "LEAD"
	RoleConsultant Role = "CONSULTANT"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"ADMIN": true, "BOARD": true, "LEAD": true, "CONSULTANT": true,
}

// CanSeeFinance reports whether a role may read financial aggregates.
func (r Role) CanSeeFinance() bool {
	return r == RoleBoard || r == RoleAdmin
}

type MissionStatus string

const (
	MissionPipeline  MissionStatus = "pipeline"
	MissionOngoing   MissionStatus = "ongoing"
	MissionPaused    MissionStatus = "paused"
	MissionDone      MissionStatus = "done"
	MissionCancelled MissionStatus = "cancelled"
)

// ValidMissionStatuses is the canonical set of accepted mission status strings.
var ValidMissionStatuses = map[string]bool{
	"pipeline": true, "ongoing": true, "paused": true, "done": true, "cancelled": true,
}

type TimeCategory string

const (
	CategoryBillable          TimeCategory = "billable"
	CategoryNonBillableClient TimeCategory = "non_billable_client"
	CategoryInternal          TimeCategory = "internal"
)

// ValidTimeCategories is the canonical set of accepted time entry categories.
var ValidTimeCategories = map[string]bool{
	"billable": true, "non_billable_client": true, "internal": true,
}

// ValidEntryHours are the only durations a time entry may carry.
var ValidEntryHours = map[int]bool{1: true, 4: true, 8: true}

type SimulationStatus string

const (
	SimulationDraft     SimulationStatus = "draft"
	SimulationValidated SimulationStatus = "validated"
	SimulationArchived  SimulationStatus = "archived"
)

type CostType string

const (
	CostFees        CostType = "fees"
	CostExpenses    CostType = "expenses"
	CostNonBillable CostType = "non_billable"
	CostOther       CostType = "other"
)

// ValidCostTypes is the canonical set of accepted simulation cost types.
var ValidCostTypes = map[string]bool{
	"fees": true, "expenses": true, "non_billable": true, "other": true,
}
