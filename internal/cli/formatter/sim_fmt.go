package formatter

import (
	"fmt"
	"strings"

	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/service"
)

func simulationTable(sims []repository.SimulationSummaryRow) string {
	rows := make([][]string, 0, len(sims))
	for _, s := range sims {
		rows = append(rows, []string{
			shortID(s.SimulationID), Bold(s.ProjectName), s.ClientName, string(s.Status),
			Hours(s.PlannedHours), EUR(s.RevenueTotal), marginCell(s.MarginTotal), Pct(s.MarginPct),
			Day(s.CreatedAt),
		})
	}
	return RenderTable([]string{"ID", "PROJET", "CLIENT", "STATUT", "HEURES", "CA", "MARGE", "MARGE %", "CRÉÉE"}, rows)
}

// FormatSimulationList formats the simulation listing, newest first.
func FormatSimulationList(sims []repository.SimulationSummaryRow) string {
	if len(sims) == 0 {
		return Dim("Aucune simulation.") + "\n"
	}
	return simulationTable(sims)
}

// FormatSimulationDetail formats one simulation with its computed
// summary and all line items.
func FormatSimulationDetail(d *service.SimulationDetail) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Simulation %s", d.Simulation.ProjectName)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Client %s, statut %s, créée le %s\n",
		Bold(d.Simulation.ClientName), d.Simulation.Status, Day(d.Simulation.CreatedAt)))
	if d.Simulation.Notes != nil && *d.Simulation.Notes != "" {
		b.WriteString(Dim(*d.Simulation.Notes) + "\n")
	}

	if s := d.Summary; s != nil {
		b.WriteString(fmt.Sprintf("Charge %s dont %s facturables, CA %s, coûts %s, marge %s (%s)\n",
			Hours(s.PlannedHours), Hours(s.BillableHours),
			EUR(s.RevenueTotal), EUR(s.CostTotal), marginCell(s.MarginTotal), Pct(s.MarginPct)))
	}

	if len(d.Lines.Internal) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Ressources internes"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(d.Lines.Internal))
		for _, r := range d.Lines.Internal {
			rows = append(rows, []string{
				orDash(r.ResourceName), orDash(r.Grade),
				fmt.Sprintf("%g j", r.PlannedDays), fmt.Sprintf("%g h/j", r.HoursPerDay),
				fmt.Sprintf("%.0f %%", r.BillableRatio*100),
				EUR(r.StdRatePerHour), EUR(r.StdCostPerHour),
			})
		}
		b.WriteString(RenderTable([]string{"RESSOURCE", "GRADE", "JOURS", "RYTHME", "FACTURABLE", "TAUX/H", "COÛT/H"}, rows))
	}

	if len(d.Lines.External) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Ressources externes"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(d.Lines.External))
		for _, r := range d.Lines.External {
			rows = append(rows, []string{
				orDash(r.ProviderName), orDash(r.Role),
				fmt.Sprintf("%g j", r.PlannedDays), fmt.Sprintf("%g h/j", r.HoursPerDay),
				EUR(r.SellRatePerDay), EUR(r.BuyRatePerDay),
			})
		}
		b.WriteString(RenderTable([]string{"PRESTATAIRE", "RÔLE", "JOURS", "RYTHME", "VENTE/J", "ACHAT/J"}, rows))
	}

	if len(d.Lines.Costs) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Coûts annexes"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(d.Lines.Costs))
		for _, c := range d.Lines.Costs {
			rows = append(rows, []string{
				string(c.CostType), orDash(c.Label), EUR(c.CostAmount), EUR(c.RefacturedAmount),
			})
		}
		b.WriteString(RenderTable([]string{"TYPE", "LIBELLÉ", "MONTANT", "REFACTURÉ"}, rows))
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}
