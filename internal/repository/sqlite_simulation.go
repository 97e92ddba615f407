package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/google/uuid"
)

// SQLiteSimulationRepo implements SimulationRepo using a SQLite database.
type SQLiteSimulationRepo struct {
	db db.DBTX
}

// NewSQLiteSimulationRepo creates a new SQLiteSimulationRepo.
func NewSQLiteSimulationRepo(conn db.DBTX) *SQLiteSimulationRepo {
	return &SQLiteSimulationRepo{db: conn}
}

const simulationColumns = `id, mission_id, client_name, project_name, sector,
	start_date, end_date, author_user_id, created_at, status, notes`

func (r *SQLiteSimulationRepo) Create(ctx context.Context, s *domain.Simulation) error {
	query := `INSERT INTO simulations (` + simulationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		nullableString(s.MissionID),
		s.ClientName,
		s.ProjectName,
		nullableString(s.Sector),
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		s.AuthorUserID,
		s.CreatedAt.Format(time.RFC3339),
		string(s.Status),
		nullableString(s.Notes),
	)
	if err != nil {
		return fmt.Errorf("inserting simulation: %w", err)
	}
	return nil
}

func (r *SQLiteSimulationRepo) GetByID(ctx context.Context, id string) (*domain.Simulation, error) {
	var s domain.Simulation
	var missionID, sector, startDate, endDate, notes sql.NullString
	var createdAtStr, statusStr string

	err := r.db.QueryRowContext(ctx,
		`SELECT `+simulationColumns+` FROM simulations WHERE id = ?`, id,
	).Scan(
		&s.ID, &missionID, &s.ClientName, &s.ProjectName, &sector,
		&startDate, &endDate, &s.AuthorUserID, &createdAtStr, &statusStr, &notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("simulation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning simulation: %w", err)
	}
	s.MissionID = stringOrNil(missionID)
	s.Sector = stringOrNil(sector)
	s.StartDate = parseNullableTime(startDate, dateLayout)
	s.EndDate = parseNullableTime(endDate, dateLayout)
	s.Status = domain.SimulationStatus(statusStr)
	s.Notes = stringOrNil(notes)
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSimulationRepo) Update(ctx context.Context, s *domain.Simulation) error {
	query := `UPDATE simulations
		SET mission_id = ?, client_name = ?, project_name = ?, sector = ?,
			start_date = ?, end_date = ?, status = ?, notes = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(s.MissionID),
		s.ClientName,
		s.ProjectName,
		nullableString(s.Sector),
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		string(s.Status),
		nullableString(s.Notes),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating simulation: %w", err)
	}
	return nil
}

func (r *SQLiteSimulationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM simulations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting simulation: %w", err)
	}
	return nil
}

func (r *SQLiteSimulationRepo) ListLines(ctx context.Context, simulationID string) (*SimulationLines, error) {
	lines := &SimulationLines{}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, resource_name, grade, std_rate_per_hour, std_cost_per_hour,
			planned_days, hours_per_day, billable_ratio, non_billable_hours
		FROM simulation_internal_resources WHERE simulation_id = ?`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("listing internal resources: %w", err)
	}
	for rows.Next() {
		var l domain.SimulationInternalResource
		var name, grade sql.NullString
		if err := rows.Scan(&l.ID, &name, &grade, &l.StdRatePerHour, &l.StdCostPerHour,
			&l.PlannedDays, &l.HoursPerDay, &l.BillableRatio, &l.NonBillableHours); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning internal resource: %w", err)
		}
		l.SimulationID = simulationID
		l.ResourceName = stringOrNil(name)
		l.Grade = stringOrNil(grade)
		lines.Internal = append(lines.Internal, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating internal resources: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, provider_name, role, buy_rate_per_day, sell_rate_per_day, planned_days, hours_per_day
		FROM simulation_external_resources WHERE simulation_id = ?`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("listing external resources: %w", err)
	}
	for rows.Next() {
		var l domain.SimulationExternalResource
		var provider, role sql.NullString
		if err := rows.Scan(&l.ID, &provider, &role, &l.BuyRatePerDay, &l.SellRatePerDay,
			&l.PlannedDays, &l.HoursPerDay); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning external resource: %w", err)
		}
		l.SimulationID = simulationID
		l.ProviderName = stringOrNil(provider)
		l.Role = stringOrNil(role)
		lines.External = append(lines.External, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating external resources: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, cost_type, label, cost_amount, refactured_amount
		FROM simulation_costs WHERE simulation_id = ?`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("listing simulation costs: %w", err)
	}
	for rows.Next() {
		var l domain.SimulationCost
		var costTypeStr string
		var label sql.NullString
		if err := rows.Scan(&l.ID, &costTypeStr, &label, &l.CostAmount, &l.RefacturedAmount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning simulation cost: %w", err)
		}
		l.SimulationID = simulationID
		l.CostType = domain.CostType(costTypeStr)
		l.Label = stringOrNil(label)
		lines.Costs = append(lines.Costs, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation costs: %w", err)
	}

	return lines, nil
}

// ReplaceLines wipes and reinserts all three line collections. It issues plain
// statements against its DBTX; atomicity comes from the caller running it
// inside a UnitOfWork transaction.
func (r *SQLiteSimulationRepo) ReplaceLines(ctx context.Context, simulationID string, lines *SimulationLines) error {
	for _, table := range []string{"simulation_internal_resources", "simulation_external_resources", "simulation_costs"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE simulation_id = ?`, simulationID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if lines == nil {
		return nil
	}

	for _, l := range lines.Internal {
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO simulation_internal_resources
				(id, simulation_id, resource_name, grade, std_rate_per_hour, std_cost_per_hour,
				 planned_days, hours_per_day, billable_ratio, non_billable_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, simulationID, nullableString(l.ResourceName), nullableString(l.Grade),
			l.StdRatePerHour, l.StdCostPerHour, l.PlannedDays, l.HoursPerDay,
			l.BillableRatio, l.NonBillableHours,
		)
		if err != nil {
			return fmt.Errorf("inserting internal resource: %w", err)
		}
	}

	for _, l := range lines.External {
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO simulation_external_resources
				(id, simulation_id, provider_name, role, buy_rate_per_day, sell_rate_per_day,
				 planned_days, hours_per_day)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, simulationID, nullableString(l.ProviderName), nullableString(l.Role),
			l.BuyRatePerDay, l.SellRatePerDay, l.PlannedDays, l.HoursPerDay,
		)
		if err != nil {
			return fmt.Errorf("inserting external resource: %w", err)
		}
	}

	for _, l := range lines.Costs {
		if !domain.ValidCostTypes[string(l.CostType)] {
			return fmt.Errorf("unknown cost type %q", l.CostType)
		}
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO simulation_costs (id, simulation_id, cost_type, label, cost_amount, refactured_amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, simulationID, string(l.CostType), nullableString(l.Label),
			l.CostAmount, l.RefacturedAmount,
		)
		if err != nil {
			return fmt.Errorf("inserting simulation cost: %w", err)
		}
	}

	return nil
}
