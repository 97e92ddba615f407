package domain

import (
	"fmt"
	"time"
)

type TimeEntry struct {
	ID          string
	EntryDate   time.Time
	UserID      string
	MissionID   *string
	Category    TimeCategory
	Hours       int
	Description *string
	CreatedAt   time.Time
}

// Validate enforces the entry invariants: hours in {1,4,8}, known category,
// and a mission is required exactly when the category is client-facing.
func (e *TimeEntry) Validate() error {
	if !ValidTimeCategories[string(e.Category)] {
		return fmt.Errorf("unknown time category %q", e.Category)
	}
	if !ValidEntryHours[e.Hours] {
		return fmt.Errorf("hours must be 1, 4 or 8 (got %d)", e.Hours)
	}
	if e.Category == CategoryInternal {
		if e.MissionID != nil {
			return fmt.Errorf("internal entries must not reference a mission")
		}
		return nil
	}
	if e.MissionID == nil {
		return fmt.Errorf("category %s requires a mission", e.Category)
	}
	return nil
}

type CapacityOverride struct {
	ID        string
	UserID    string
	Date      time.Time
	CapacityH int
	Reason    *string
}
