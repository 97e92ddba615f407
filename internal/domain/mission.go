package domain

import (
	"fmt"
	"regexp"
	"time"
)

var missionCodePattern = regexp.MustCompile(`^M-\d{4}-\d{3}$`)

type Client struct {
	ID       string
	Name     string
	IsActive bool
}

type Mission struct {
	ID            string
	ClientID      string
	Code          string
	Name          string
	Status        MissionStatus
	StartDate     time.Time
	EndDate       *time.Time
	SoldDays      float64
	SoldAmountEUR float64
	DailyCostEUR  float64
	Notes         *string
	IsActive      bool
}

// ValidateCode checks that Code matches the canonical mission code format:
// letter M, 4-digit year, 3-digit sequence (e.g. M-2026-002).
func (m *Mission) ValidateCode() error {
	if m.Code == "" {
		return fmt.Errorf("mission code is required")
	}
	if !missionCodePattern.MatchString(m.Code) {
		return fmt.Errorf("mission code %q must match M-YYYY-NNN (e.g. M-2026-002)", m.Code)
	}
	return nil
}

// SoldHours converts the sold budget to hours using the given day length.
func (m *Mission) SoldHours(dayHours float64) float64 {
	return m.SoldDays * dayHours
}

type MissionLead struct {
	MissionID string
	UserID    string
}

type MissionAssignment struct {
	ID            string
	MissionID     string
	UserID        string
	StartDate     time.Time
	EndDate       *time.Time
	AllocationPct int
}
