package formatter

import (
	"strings"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/service"
)

// FormatPortfolio formats the mission portfolio. The finance table is
// only rendered when the service populated it for the acting role.
func FormatPortfolio(p *service.MissionPortfolio) string {
	var b strings.Builder

	b.WriteString(Header("Portefeuille"))
	b.WriteString("\n")
	if len(p.Missions) == 0 {
		b.WriteString(Dim("Aucune mission visible.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(p.Missions))
	for _, m := range p.Missions {
		risk := domain.RiskLevelFor(m.SoldHours, m.ConsumedHours)
		rows = append(rows, []string{
			Bold(m.MissionCode), m.MissionName, m.ClientName, string(m.Status),
			Hours(m.ConsumedHours), Hours(m.SoldHours), Pct(m.ConsumedPct),
			RiskIndicator(risk),
		})
	}
	b.WriteString(RenderTable([]string{"CODE", "MISSION", "CLIENT", "STATUT", "CONSOMMÉ", "VENDU", "%", "RISQUE"}, rows))

	if len(p.Finance) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Finance"))
		b.WriteString("\n")
		frows := make([][]string, 0, len(p.Finance))
		for _, f := range p.Finance {
			frows = append(frows, []string{
				Bold(f.MissionCode), f.ClientName,
				EUR(f.SoldAmountEUR), EUR(f.CostEUR), marginCell(f.MarginEUR),
			})
		}
		b.WriteString(RenderTable([]string{"CODE", "CLIENT", "VENDU", "COÛT", "MARGE"}, frows))
	}

	return b.String()
}
