package formatter

import (
	"fmt"
	"strings"

	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/service"
)

// FormatOverview formats the synthesis dashboard. Finance and simulation
// sections are only present when the acting role may see them.
func FormatOverview(o *service.Overview) string {
	var b strings.Builder

	b.WriteString(Header("Synthèse"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s missions actives, %s consommées / %s vendues (%s)\n",
		Bold(fmt.Sprintf("%d", o.MissionsCount)),
		Hours(o.ConsumedHours), Hours(o.SoldHours), Pct(o.ConsumedPct)))

	if len(o.TopVariance) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Top écarts"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(o.TopVariance))
		for _, v := range o.TopVariance {
			rows = append(rows, []string{
				Bold(v.MissionCode), v.MissionName, v.ClientName,
				Hours(v.ConsumedHours), Hours(v.SoldHours), varianceCell(v.VarianceHours),
			})
		}
		b.WriteString(RenderTable([]string{"CODE", "MISSION", "CLIENT", "CONSOMMÉ", "VENDU", "ÉCART"}, rows))
	}

	if o.Finance != nil {
		b.WriteString("\n")
		b.WriteString(Header("Finance"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Vendu %s, coût %s, marge %s\n",
			EUR(o.Finance.SoldAmountEUR), EUR(o.Finance.CostEUR), marginCell(o.Finance.MarginEUR)))
	}

	if len(o.Simulations) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Simulations"))
		b.WriteString("\n")
		b.WriteString(simulationTable(o.Simulations))
	}

	return b.String()
}

// FormatMissionAlerts formats budget-risk alerts, most severe first.
func FormatMissionAlerts(alerts []repository.MissionRiskRow) string {
	if len(alerts) == 0 {
		return Dim("Aucune alerte mission.") + "\n"
	}

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			RiskIndicator(a.RiskLevel),
			Bold(a.MissionCode), a.MissionName, a.ClientName,
			Hours(a.ConsumedHours), Hours(a.SoldHours), varianceCell(a.VarianceHours),
		})
	}
	return RenderTable([]string{"RISQUE", "CODE", "MISSION", "CLIENT", "CONSOMMÉ", "VENDU", "ÉCART"}, rows)
}

// FormatCapacityAlerts formats daily and weekly overload alerts.
func FormatCapacityAlerts(alerts *service.CapacityAlerts) string {
	var b strings.Builder

	b.WriteString(Header("Surcharge journalière"))
	b.WriteString("\n")
	if len(alerts.Daily) == 0 {
		b.WriteString(Dim("Aucune surcharge journalière.") + "\n")
	} else {
		rows := make([][]string, 0, len(alerts.Daily))
		for _, d := range alerts.Daily {
			rows = append(rows, []string{
				Day(d.Day), Bold(d.UserName), Hours(d.LoggedHours), Hours(d.CapacityH),
				StyleRed.Render(Hours(d.LoggedHours - d.CapacityH)),
			})
		}
		b.WriteString(RenderTable([]string{"JOUR", "CONSULTANT", "SAISI", "CAPACITÉ", "DÉPASSEMENT"}, rows))
	}

	b.WriteString("\n")
	b.WriteString(Header("Surcharge hebdomadaire"))
	b.WriteString("\n")
	if len(alerts.Weekly) == 0 {
		b.WriteString(Dim("Aucune surcharge hebdomadaire.") + "\n")
	} else {
		rows := make([][]string, 0, len(alerts.Weekly))
		for _, w := range alerts.Weekly {
			rows = append(rows, []string{
				fmt.Sprintf("S%02d %d", w.Week, w.Year),
				fmt.Sprintf("%s → %s", Day(w.WeekStartDay), Day(w.WeekEndDay)),
				Bold(w.UserName), Hours(w.LoggedHours), Hours(w.CapacityH),
				StyleRed.Render(Hours(w.OverH)),
			})
		}
		b.WriteString(RenderTable([]string{"SEMAINE", "PÉRIODE", "CONSULTANT", "SAISI", "CAPACITÉ", "DÉPASSEMENT"}, rows))
	}

	return b.String()
}

func varianceCell(v float64) string {
	if v > 0 {
		return StyleRed.Render("+" + Hours(v))
	}
	return StyleGreen.Render(Hours(v))
}

func marginCell(m float64) string {
	if m < 0 {
		return StyleRed.Render(EUR(m))
	}
	return StyleGreen.Render(EUR(m))
}
