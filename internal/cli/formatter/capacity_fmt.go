package formatter

import (
	"strings"

	"github.com/alexisferrand/cockpit/internal/service"
)

// FormatCapacityGrid formats per-day load against capacity for every
// visible user, one row per user and day.
func FormatCapacityGrid(grid []service.CapacityDay) string {
	if len(grid) == 0 {
		return Dim("Aucun consultant visible.") + "\n"
	}

	rows := make([][]string, 0, len(grid))
	for _, d := range grid {
		rows = append(rows, []string{
			Day(d.Day), Bold(d.UserName),
			Hours(d.LoggedHours), Hours(d.CapacityH), deltaCell(d.DeltaH),
		})
	}
	return RenderTable([]string{"JOUR", "CONSULTANT", "SAISI", "CAPACITÉ", "RESTE"}, rows)
}

// FormatCapacityTotals formats the per-user aggregate over the period.
func FormatCapacityTotals(totals []service.CapacityTotal) string {
	var b strings.Builder

	b.WriteString(Header("Totaux période"))
	b.WriteString("\n")
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			Bold(t.UserName), Hours(t.LoggedHours), Hours(t.CapacityH), deltaCell(t.DeltaH),
		})
	}
	b.WriteString(RenderTable([]string{"CONSULTANT", "SAISI", "CAPACITÉ", "RESTE"}, rows))
	return b.String()
}

func deltaCell(d float64) string {
	if d < 0 {
		return StyleRed.Render(Hours(d))
	}
	return StyleGreen.Render(Hours(d))
}
