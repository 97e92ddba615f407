package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexisferrand/cockpit/internal/repository"
)

// Answerer resolves questions against the KPI read models. It never
// writes to the database.
type Answerer struct {
	missions repository.MissionRepo
	kpi      repository.KPIRepo
}

func NewAnswerer(missions repository.MissionRepo, kpi repository.KPIRepo) *Answerer {
	return &Answerer{missions: missions, kpi: kpi}
}

const (
	msgNoVisibleMissions = "Je n'ai aucune mission visible pour ton profil."
	msgNoVisibleUsers    = "Je n'ai aucun utilisateur visible pour calculer la charge."
	msgNoTimeForLoad     = "Aucune saisie de temps trouvée pour calculer la charge."
	msgNoTimeForSplit    = "Aucune donnée de temps pour calculer la répartition."
	msgNoRisk            = "Aucun projet à risque détecté sur ton périmètre."
	msgFinanceForbidden  = "Je ne peux pas afficher de données financières avec ton rôle."
	msgMissionNoKPI      = "Je n'ai pas trouvé de KPI pour cette mission."
	msgFallback          = "Je n'ai pas compris. Tape « aide » pour des exemples."
)

// Answer classifies the question, short-circuits on a mission focus,
// then dispatches to the matched intent. Asking the same question twice
// in the same database state yields the same result.
func (a *Answerer) Answer(ctx context.Context, cc Context, question string) (*Result, error) {
	intent := Classify(question)

	mission, err := ResolveMission(ctx, a.missions, cc.MissionIDs, question)
	if err != nil {
		return nil, err
	}
	if mission != nil {
		return a.missionStatus(ctx, cc, mission.ID)
	}

	if len(cc.MissionIDs) == 0 &&
		(intent == IntentStatusGlobal || intent == IntentProjectsRisk || intent == IntentFinanceSummary) {
		return &Result{Text: msgNoVisibleMissions}, nil
	}

	switch intent {
	case IntentHelp:
		return a.help(cc), nil
	case IntentStatusGlobal:
		return a.statusGlobal(ctx, cc)
	case IntentProjectsRisk:
		return a.projectsRisk(ctx, cc)
	case IntentWhoBusy:
		return a.whoBusy(ctx, cc)
	case IntentTimeSplit:
		return a.timeSplit(ctx, cc)
	case IntentFinanceSummary:
		return a.financeSummary(ctx, cc)
	default:
		return &Result{Text: msgFallback}, nil
	}
}

func (a *Answerer) help(cc Context) *Result {
	var b strings.Builder
	b.WriteString("Je réponds en lecture seule sur les KPI autorisés.\n\n")
	b.WriteString("Exemples :\n")
	b.WriteString("- « Où en est-on cette semaine ? »\n")
	b.WriteString("- « Quels projets sont à risque ? »\n")
	b.WriteString("- « Qui est le plus chargé ? »\n")
	b.WriteString("- « Répartition billable / internal ? »\n")
	if cc.Role.CanSeeFinance() {
		b.WriteString("- « Synthèse finance ? »\n")
	}
	return &Result{Text: b.String()}
}

func (a *Answerer) missionStatus(ctx context.Context, cc Context, missionID string) (*Result, error) {
	row, err := a.kpi.MissionHoursByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &Result{Text: msgMissionNoKPI}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Focus mission : %s — %s (%s)\n\n", row.MissionCode, row.MissionName, row.ClientName)
	fmt.Fprintf(&b, "- Statut : %s\n", row.Status)
	fmt.Fprintf(&b, "- Heures vendues : %.0f h\n", row.SoldHours)
	fmt.Fprintf(&b, "- Heures consommées : %.0f h\n", row.ConsumedHours)
	fmt.Fprintf(&b, "- Taux de conso : %s\n", pctOrNA(row.ConsumedPct))

	if cc.Role.CanSeeFinance() {
		fin, err := a.kpi.FinanceByMissionID(ctx, missionID)
		if err != nil {
			return nil, err
		}
		if fin != nil {
			b.WriteString("\nFinancier (Board/Admin)\n")
			fmt.Fprintf(&b, "- CA vendu : %s €\n", formatEUR(fin.SoldAmountEUR))
			fmt.Fprintf(&b, "- Coûts estimés : %s €\n", formatEUR(fin.CostEUR))
			fmt.Fprintf(&b, "- Marge estimée : %s €\n", formatEUR(fin.MarginEUR))
		}
	}

	result := &Result{Text: b.String()}

	dist, err := a.kpi.CategoryBreakdownForMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if len(dist) > 0 {
		t := Table{
			Title:   "Répartition des heures saisies (catégories)",
			Headers: []string{"Catégorie", "Heures"},
		}
		for _, d := range dist {
			t.Rows = append(t.Rows, []string{string(d.Category), fmt.Sprintf("%.0f", d.Hours)})
		}
		result.Tables = append(result.Tables, t)
	}
	return result, nil
}

func (a *Answerer) statusGlobal(ctx context.Context, cc Context) (*Result, error) {
	totals, err := a.kpi.MissionHoursTotals(ctx, cc.MissionIDs)
	if err != nil {
		return nil, err
	}

	pct := "N/A"
	if totals.SoldHours > 0 {
		pct = fmt.Sprintf("%.1f%%", totals.ConsumedHours/totals.SoldHours*100)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Statut global : %d mission(s) visible(s).\n", totals.MissionsCount)
	fmt.Fprintf(&b, "- Heures consommées : %.0f h\n", totals.ConsumedHours)
	fmt.Fprintf(&b, "- Heures vendues : %.0f h\n", totals.SoldHours)
	fmt.Fprintf(&b, "- Taux de conso : %s\n", pct)

	result := &Result{Text: b.String()}

	top, err := a.kpi.TopVariance(ctx, cc.MissionIDs, 5)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		t := Table{
			Title:   "Top dérives (heures)",
			Headers: []string{"Code", "Mission", "Client", "Vendu (h)", "Consommé (h)", "Dérive (h)"},
		}
		for _, v := range top {
			t.Rows = append(t.Rows, []string{
				v.MissionCode, v.MissionName, v.ClientName,
				fmt.Sprintf("%.0f", v.SoldHours),
				fmt.Sprintf("%.0f", v.ConsumedHours),
				fmt.Sprintf("%.0f", v.VarianceHours),
			})
		}
		result.Tables = append(result.Tables, t)
	}
	return result, nil
}

func (a *Answerer) projectsRisk(ctx context.Context, cc Context) (*Result, error) {
	rows, err := a.kpi.MissionRisk(ctx, cc.MissionIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Result{Text: msgNoRisk}, nil
	}

	t := Table{
		Title:   "Projets à risque",
		Headers: []string{"Code", "Mission", "Client", "Vendu (h)", "Consommé (h)", "Dérive (h)", "Risque"},
	}
	for _, v := range rows {
		t.Rows = append(t.Rows, []string{
			v.MissionCode, v.MissionName, v.ClientName,
			fmt.Sprintf("%.0f", v.SoldHours),
			fmt.Sprintf("%.0f", v.ConsumedHours),
			fmt.Sprintf("%.0f", v.VarianceHours),
			string(v.RiskLevel),
		})
	}
	text := fmt.Sprintf("%d projet(s) à risque / proche limite sur ton périmètre.", len(rows))
	return &Result{Text: text, Tables: []Table{t}}, nil
}

func (a *Answerer) whoBusy(ctx context.Context, cc Context) (*Result, error) {
	if len(cc.VisibleUserIDs) == 0 {
		return &Result{Text: msgNoVisibleUsers}, nil
	}
	rows, err := a.kpi.UserLoadTotals(ctx, cc.VisibleUserIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Result{Text: msgNoTimeForLoad}, nil
	}

	t := Table{
		Title:   "Charge par personne (heures loggées)",
		Headers: []string{"Personne", "Heures"},
	}
	for _, v := range rows {
		t.Rows = append(t.Rows, []string{v.UserName, fmt.Sprintf("%.0f", v.LoggedHours)})
	}
	top := rows[0]
	text := fmt.Sprintf("Le plus chargé (sur les données disponibles) : %s avec %.0f h.", top.UserName, top.LoggedHours)
	return &Result{Text: text, Tables: []Table{t}}, nil
}

func (a *Answerer) timeSplit(ctx context.Context, cc Context) (*Result, error) {
	rows, err := a.kpi.TimeSplitByUsers(ctx, cc.VisibleUserIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Result{Text: msgNoTimeForSplit}, nil
	}

	var total float64
	for _, v := range rows {
		total += v.Hours
	}
	t := Table{
		Title:   "Répartition par catégorie",
		Headers: []string{"Catégorie", "Heures", "%"},
	}
	for _, v := range rows {
		t.Rows = append(t.Rows, []string{
			string(v.Category),
			fmt.Sprintf("%.0f", v.Hours),
			fmt.Sprintf("%.1f", v.Hours/total*100),
		})
	}
	return &Result{Text: "Répartition du temps (heures) :", Tables: []Table{t}}, nil
}

func (a *Answerer) financeSummary(ctx context.Context, cc Context) (*Result, error) {
	if !cc.Role.CanSeeFinance() {
		return &Result{Text: msgFinanceForbidden}, nil
	}

	totals, err := a.kpi.FinanceTotals(ctx, cc.MissionIDs)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("Synthèse financière (périmètre visible) :\n")
	fmt.Fprintf(&b, "- CA vendu : %s €\n", formatEUR(totals.SoldAmountEUR))
	fmt.Fprintf(&b, "- Coûts : %s €\n", formatEUR(totals.CostEUR))
	fmt.Fprintf(&b, "- Marge : %s €", formatEUR(totals.MarginEUR))

	rows, err := a.kpi.LowestMargins(ctx, cc.MissionIDs, 10)
	if err != nil {
		return nil, err
	}
	t := Table{
		Title:   "Top 10 missions (marge la plus faible)",
		Headers: []string{"Client", "Code", "Mission", "CA vendu (€)", "Coûts (€)", "Marge (€)"},
	}
	for _, v := range rows {
		t.Rows = append(t.Rows, []string{
			v.ClientName, v.MissionCode, v.MissionName,
			formatEUR(v.SoldAmountEUR), formatEUR(v.CostEUR), formatEUR(v.MarginEUR),
		})
	}
	return &Result{Text: b.String(), Tables: []Table{t}}, nil
}

func pctOrNA(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f %%", *pct)
}

// formatEUR renders a rounded amount with space-separated thousands
// ("12 500", "-1 250").
func formatEUR(amount float64) string {
	s := fmt.Sprintf("%.0f", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		return "-" + out
	}
	return out
}
