package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}

	return boxStyle.Render(content)
}

// EUR formats an amount as whole euros with space-grouped thousands,
// e.g. 20000 renders as "20 000 €".
func EUR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatFloat(amount, 'f', 0, 64)

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ") + " €"
	if neg {
		return "-" + out
	}
	return out
}

// Hours formats an hour count, trimming a trailing ".0".
func Hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + " h"
}

// Pct formats a percentage pointer, rendering nil as "N/A".
func Pct(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f %%", *pct)
}

// Day formats a date as YYYY-MM-DD.
func Day(t time.Time) string {
	return t.Format(dateLayout)
}
