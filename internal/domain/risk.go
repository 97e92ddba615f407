package domain

type RiskLevel string

const (
	RiskNoSoldLoad RiskLevel = "no_sold_load"
	RiskOverrun    RiskLevel = "overrun"
	RiskNearLimit  RiskLevel = "near_limit"
	RiskOK         RiskLevel = "ok"
)

// RiskLevelFor classifies a mission's budget health from sold vs consumed hours.
// Thresholds: overrun when consumed exceeds sold, near_limit from 90% of sold,
// no_sold_load when nothing was sold (regardless of consumption).
func RiskLevelFor(soldHours, consumedHours float64) RiskLevel {
	switch {
	case soldHours == 0:
		return RiskNoSoldLoad
	case consumedHours > soldHours:
		return RiskOverrun
	case consumedHours >= soldHours*0.9:
		return RiskNearLimit
	default:
		return RiskOK
	}
}

// SeverityRank orders risk levels for alert sorting: overrun > near_limit >
// no_sold_load > ok.
func (r RiskLevel) SeverityRank() int {
	switch r {
	case RiskOverrun:
		return 3
	case RiskNearLimit:
		return 2
	case RiskNoSoldLoad:
		return 1
	default:
		return 0
	}
}
