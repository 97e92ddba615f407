package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// SQLiteKPIRepo implements KPIRepo on top of the kpi_* SQL views.
// All queries are read-only.
type SQLiteKPIRepo struct {
	db db.DBTX
}

// NewSQLiteKPIRepo creates a new SQLiteKPIRepo.
func NewSQLiteKPIRepo(conn db.DBTX) *SQLiteKPIRepo {
	return &SQLiteKPIRepo{db: conn}
}

func (r *SQLiteKPIRepo) MissionHours(ctx context.Context, missionIDs []string) ([]MissionHoursRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT mission_id, mission_code, mission_name, client_name, status,
			sold_days, sold_hours, consumed_hours, consumed_pct
		FROM kpi_mission_hours
		WHERE mission_id IN ` + placeholders + `
		ORDER BY client_name, mission_code`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mission hours: %w", err)
	}
	defer rows.Close()

	var out []MissionHoursRow
	for rows.Next() {
		row, err := scanMissionHours(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mission hours: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) MissionHoursByID(ctx context.Context, missionID string) (*MissionHoursRow, error) {
	rows, err := r.MissionHours(ctx, []string{missionID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *SQLiteKPIRepo) MissionHoursTotals(ctx context.Context, missionIDs []string) (*MissionHoursTotals, error) {
	if len(missionIDs) == 0 {
		return &MissionHoursTotals{}, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT COUNT(*), COALESCE(SUM(consumed_hours), 0), COALESCE(SUM(sold_hours), 0)
		FROM kpi_mission_hours
		WHERE mission_id IN ` + placeholders
	var t MissionHoursTotals
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.MissionsCount, &t.ConsumedHours, &t.SoldHours)
	if err != nil {
		return nil, fmt.Errorf("querying mission hour totals: %w", err)
	}
	return &t, nil
}

func (r *SQLiteKPIRepo) TopVariance(ctx context.Context, missionIDs []string, limit int) ([]MissionVarianceRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT mission_id, mission_code, mission_name, client_name,
			sold_hours, consumed_hours, variance_hours
		FROM kpi_mission_variance
		WHERE mission_id IN ` + placeholders + `
		ORDER BY variance_hours DESC
		LIMIT ?`
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mission variance: %w", err)
	}
	defer rows.Close()

	var out []MissionVarianceRow
	for rows.Next() {
		var v MissionVarianceRow
		if err := rows.Scan(&v.MissionID, &v.MissionCode, &v.MissionName, &v.ClientName,
			&v.SoldHours, &v.ConsumedHours, &v.VarianceHours); err != nil {
			return nil, fmt.Errorf("scanning variance row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating variance rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) MissionRisk(ctx context.Context, missionIDs []string) ([]MissionRiskRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	// Severity rank ordering is behavior, not presentation: overrun first.
	query := `SELECT mission_id, mission_code, mission_name, client_name,
			sold_hours, consumed_hours, variance_hours, risk_level
		FROM kpi_alert_missions_risk
		WHERE mission_id IN ` + placeholders + `
		ORDER BY
			CASE risk_level
				WHEN 'overrun' THEN 3
				WHEN 'near_limit' THEN 2
				WHEN 'no_sold_load' THEN 1
				ELSE 0
			END DESC,
			variance_hours DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mission risk: %w", err)
	}
	defer rows.Close()

	var out []MissionRiskRow
	for rows.Next() {
		var v MissionRiskRow
		var riskStr string
		if err := rows.Scan(&v.MissionID, &v.MissionCode, &v.MissionName, &v.ClientName,
			&v.SoldHours, &v.ConsumedHours, &v.VarianceHours, &riskStr); err != nil {
			return nil, fmt.Errorf("scanning risk row: %w", err)
		}
		v.RiskLevel = domain.RiskLevel(riskStr)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risk rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) UserLoadTotals(ctx context.Context, userIDs []string) ([]UserLoadRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT user_id, user_name, SUM(logged_hours) AS logged_hours
		FROM kpi_user_load_daily
		WHERE user_id IN ` + placeholders + `
		GROUP BY user_id, user_name
		ORDER BY logged_hours DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying user load: %w", err)
	}
	defer rows.Close()

	var out []UserLoadRow
	for rows.Next() {
		var v UserLoadRow
		if err := rows.Scan(&v.UserID, &v.UserName, &v.LoggedHours); err != nil {
			return nil, fmt.Errorf("scanning user load row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user load rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) CapacityDaily(ctx context.Context, userIDs []string, from, to time.Time) ([]UserLoadDailyRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT day, user_id, user_name, capacity_h, logged_hours
		FROM kpi_capacity_daily
		WHERE user_id IN ` + placeholders + `
			AND day BETWEEN ? AND ?
		ORDER BY user_name, day`
	args = append(args, from.Format(dateLayout), to.Format(dateLayout))
	return r.scanCapacityDaily(ctx, query, args)
}

func (r *SQLiteKPIRepo) CapacityAlertsDaily(ctx context.Context, userIDs []string) ([]UserLoadDailyRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT day, user_id, user_name, capacity_h, logged_hours
		FROM kpi_alert_capacity_daily
		WHERE user_id IN ` + placeholders + `
		ORDER BY day DESC, over_h DESC`
	return r.scanCapacityDaily(ctx, query, args)
}

func (r *SQLiteKPIRepo) scanCapacityDaily(ctx context.Context, query string, args []any) ([]UserLoadDailyRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily capacity: %w", err)
	}
	defer rows.Close()

	var out []UserLoadDailyRow
	for rows.Next() {
		var v UserLoadDailyRow
		var dayStr string
		if err := rows.Scan(&dayStr, &v.UserID, &v.UserName, &v.CapacityH, &v.LoggedHours); err != nil {
			return nil, fmt.Errorf("scanning daily capacity row: %w", err)
		}
		v.Day, err = parseDate(dayStr)
		if err != nil {
			return nil, fmt.Errorf("parsing capacity day: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily capacity rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) CapacityAlertsWeekly(ctx context.Context, userIDs []string) ([]CapacityAlertWeeklyRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT year, week, week_start_day, week_end_day, user_id, user_name,
			capacity_h, logged_hours, over_h
		FROM kpi_alert_capacity_weekly
		WHERE user_id IN ` + placeholders + `
		ORDER BY year DESC, week DESC, over_h DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying weekly capacity alerts: %w", err)
	}
	defer rows.Close()

	var out []CapacityAlertWeeklyRow
	for rows.Next() {
		var v CapacityAlertWeeklyRow
		var startStr, endStr string
		if err := rows.Scan(&v.Year, &v.Week, &startStr, &endStr, &v.UserID, &v.UserName,
			&v.CapacityH, &v.LoggedHours, &v.OverH); err != nil {
			return nil, fmt.Errorf("scanning weekly capacity row: %w", err)
		}
		v.WeekStartDay, err = parseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing week start: %w", err)
		}
		v.WeekEndDay, err = parseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("parsing week end: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly capacity rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) TimeSplitByUsers(ctx context.Context, userIDs []string) ([]CategoryHoursRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT category, SUM(hours) AS hours
		FROM time_entries
		WHERE user_id IN ` + placeholders + `
		GROUP BY category
		ORDER BY hours DESC`
	return r.scanCategoryHours(ctx, query, args)
}

func (r *SQLiteKPIRepo) CategoryBreakdownForMission(ctx context.Context, missionID string) ([]CategoryHoursRow, error) {
	query := `SELECT category, COALESCE(SUM(hours), 0) AS hours
		FROM time_entries
		WHERE mission_id = ?
		GROUP BY category
		ORDER BY hours DESC`
	return r.scanCategoryHours(ctx, query, []any{missionID})
}

func (r *SQLiteKPIRepo) scanCategoryHours(ctx context.Context, query string, args []any) ([]CategoryHoursRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying category hours: %w", err)
	}
	defer rows.Close()

	var out []CategoryHoursRow
	for rows.Next() {
		var v CategoryHoursRow
		var categoryStr string
		if err := rows.Scan(&categoryStr, &v.Hours); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		v.Category = domain.TimeCategory(categoryStr)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteKPIRepo) FinanceByMission(ctx context.Context, missionIDs []string) ([]MissionFinanceRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT mission_id, mission_code, mission_name, client_name,
			sold_amount_eur, cost_eur, margin_eur
		FROM kpi_finance_mission
		WHERE mission_id IN ` + placeholders + `
		ORDER BY client_name, mission_code`
	return r.scanFinanceRows(ctx, query, args)
}

func (r *SQLiteKPIRepo) FinanceByMissionID(ctx context.Context, missionID string) (*MissionFinanceRow, error) {
	rows, err := r.FinanceByMission(ctx, []string{missionID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *SQLiteKPIRepo) FinanceTotals(ctx context.Context, missionIDs []string) (*FinanceTotals, error) {
	if len(missionIDs) == 0 {
		return &FinanceTotals{}, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT COALESCE(SUM(sold_amount_eur), 0), COALESCE(SUM(cost_eur), 0), COALESCE(SUM(margin_eur), 0)
		FROM kpi_finance_mission
		WHERE mission_id IN ` + placeholders
	var t FinanceTotals
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.SoldAmountEUR, &t.CostEUR, &t.MarginEUR)
	if err != nil {
		return nil, fmt.Errorf("querying finance totals: %w", err)
	}
	return &t, nil
}

func (r *SQLiteKPIRepo) LowestMargins(ctx context.Context, missionIDs []string, limit int) ([]MissionFinanceRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT mission_id, mission_code, mission_name, client_name,
			sold_amount_eur, cost_eur, margin_eur
		FROM kpi_finance_mission
		WHERE mission_id IN ` + placeholders + `
		ORDER BY margin_eur ASC
		LIMIT ?`
	args = append(args, limit)
	return r.scanFinanceRows(ctx, query, args)
}

func (r *SQLiteKPIRepo) scanFinanceRows(ctx context.Context, query string, args []any) ([]MissionFinanceRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mission finance: %w", err)
	}
	defer rows.Close()

	var out []MissionFinanceRow
	for rows.Next() {
		var v MissionFinanceRow
		if err := rows.Scan(&v.MissionID, &v.MissionCode, &v.MissionName, &v.ClientName,
			&v.SoldAmountEUR, &v.CostEUR, &v.MarginEUR); err != nil {
			return nil, fmt.Errorf("scanning finance row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating finance rows: %w", err)
	}
	return out, nil
}

const simulationSummaryColumns = `simulation_id, mission_id, client_name, project_name, status,
	created_at, planned_hours, billable_hours, revenue_total, cost_total, margin_total, margin_pct`

func (r *SQLiteKPIRepo) SimulationSummaries(ctx context.Context, missionIDs []string, includeArchived bool) ([]SimulationSummaryRow, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(missionIDs)
	query := `SELECT ` + simulationSummaryColumns + `
		FROM kpi_simulation_summary
		WHERE mission_id IN ` + placeholders
	if !includeArchived {
		query += ` AND status != 'archived'`
	}
	query += ` ORDER BY datetime(created_at) DESC`
	return r.scanSimulationSummaries(ctx, query, args)
}

func (r *SQLiteKPIRepo) AllSimulationSummaries(ctx context.Context) ([]SimulationSummaryRow, error) {
	query := `SELECT ` + simulationSummaryColumns + `
		FROM kpi_simulation_summary
		ORDER BY datetime(created_at) DESC`
	return r.scanSimulationSummaries(ctx, query, nil)
}

func (r *SQLiteKPIRepo) SimulationSummaryByID(ctx context.Context, simulationID string) (*SimulationSummaryRow, error) {
	query := `SELECT ` + simulationSummaryColumns + `
		FROM kpi_simulation_summary
		WHERE simulation_id = ?`
	rows, err := r.scanSimulationSummaries(ctx, query, []any{simulationID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *SQLiteKPIRepo) scanSimulationSummaries(ctx context.Context, query string, args []any) ([]SimulationSummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying simulation summaries: %w", err)
	}
	defer rows.Close()

	var out []SimulationSummaryRow
	for rows.Next() {
		var v SimulationSummaryRow
		var missionID sql.NullString
		var statusStr, createdAtStr string
		var marginPct sql.NullFloat64
		if err := rows.Scan(&v.SimulationID, &missionID, &v.ClientName, &v.ProjectName, &statusStr,
			&createdAtStr, &v.PlannedHours, &v.BillableHours,
			&v.RevenueTotal, &v.CostTotal, &v.MarginTotal, &marginPct); err != nil {
			return nil, fmt.Errorf("scanning simulation summary: %w", err)
		}
		v.MissionID = stringOrNil(missionID)
		v.Status = domain.SimulationStatus(statusStr)
		v.MarginPct = floatOrNil(marginPct)
		v.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing simulation created_at: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation summaries: %w", err)
	}
	return out, nil
}

func scanMissionHours(rows *sql.Rows) (*MissionHoursRow, error) {
	var v MissionHoursRow
	var statusStr string
	var pct sql.NullFloat64
	if err := rows.Scan(&v.MissionID, &v.MissionCode, &v.MissionName, &v.ClientName, &statusStr,
		&v.SoldDays, &v.SoldHours, &v.ConsumedHours, &pct); err != nil {
		return nil, fmt.Errorf("scanning mission hours row: %w", err)
	}
	v.Status = domain.MissionStatus(statusStr)
	v.ConsumedPct = floatOrNil(pct)
	return &v, nil
}
