package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexisferrand/cockpit/internal/service"
)

const dayLayout = "2006-01-02"

// parseDay parses a YYYY-MM-DD flag value, returning fallback (truncated
// to midnight) when the value is empty.
func parseDay(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dayLayout, value)
}

// addPeriodFlag registers the shared --period flag on a flag set.
func addPeriodFlag(fs *pflag.FlagSet, period *string) {
	fs.StringVar(period, "period", "week", "Named period (day|week|month)")
}

// periodBounds resolves a named period (day, week, month) around a
// reference day into inclusive bounds.
func periodBounds(period string, ref time.Time) (time.Time, time.Time, error) {
	switch period {
	case "day":
		return ref, ref, nil
	case "week":
		from, to := service.WeekBounds(ref)
		return from, to, nil
	case "month":
		from, to := service.MonthBounds(ref)
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q (expected day, week or month)", period)
	}
}
