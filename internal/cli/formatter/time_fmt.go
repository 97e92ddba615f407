package formatter

import (
	"fmt"

	"github.com/alexisferrand/cockpit/internal/repository"
)

// FormatTimeEntries formats a time entry listing, newest first as the
// repository returns them.
func FormatTimeEntries(entries []repository.TimeEntryDetail) string {
	if len(entries) == 0 {
		return Dim("Aucune saisie sur la période.") + "\n"
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		mission := Dim("--")
		if e.MissionCode != "" {
			mission = fmt.Sprintf("%s %s", Bold(e.MissionCode), e.MissionName)
		}
		rows = append(rows, []string{
			Day(e.EntryDate), e.UserName, mission,
			string(e.Category), Hours(float64(e.Hours)), e.Description,
		})
	}
	return RenderTable([]string{"JOUR", "CONSULTANT", "MISSION", "CATÉGORIE", "HEURES", "NOTE"}, rows)
}
