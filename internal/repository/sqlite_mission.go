package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// SQLiteMissionRepo implements MissionRepo using a SQLite database.
type SQLiteMissionRepo struct {
	db db.DBTX
}

// NewSQLiteMissionRepo creates a new SQLiteMissionRepo.
func NewSQLiteMissionRepo(conn db.DBTX) *SQLiteMissionRepo {
	return &SQLiteMissionRepo{db: conn}
}

const missionColumns = `id, client_id, code, name, status, start_date, end_date,
	sold_days, sold_amount_eur, daily_cost_eur, notes, is_active`

func (r *SQLiteMissionRepo) Create(ctx context.Context, m *domain.Mission) error {
	query := `INSERT INTO missions (` + missionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ClientID,
		m.Code,
		m.Name,
		string(m.Status),
		m.StartDate.Format(dateLayout),
		nullableTimeToString(m.EndDate, dateLayout),
		m.SoldDays,
		m.SoldAmountEUR,
		m.DailyCostEUR,
		nullableString(m.Notes),
		boolToInt(m.IsActive),
	)
	if err != nil {
		return fmt.Errorf("inserting mission: %w", err)
	}
	return nil
}

func (r *SQLiteMissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	return scanMission(row)
}

func (r *SQLiteMissionRepo) GetByCode(ctx context.Context, code string) (*domain.Mission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE UPPER(code) = UPPER(?)`, code)
	return scanMission(row)
}

func (r *SQLiteMissionRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions ORDER BY code`
	if activeOnly {
		query = `SELECT ` + missionColumns + ` FROM missions WHERE is_active = 1 ORDER BY code`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	defer rows.Close()

	var missions []*domain.Mission
	for rows.Next() {
		m, err := scanMissionFromRows(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missions: %w", err)
	}
	return missions, nil
}

// ListByIDs returns the missions whose ids are in the given set, in code
// order. An empty set returns no rows.
func (r *SQLiteMissionRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Mission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id IN ` + placeholders + ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing missions by id: %w", err)
	}
	defer rows.Close()

	var missions []*domain.Mission
	for rows.Next() {
		m, err := scanMissionFromRows(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missions: %w", err)
	}
	return missions, nil
}

func (r *SQLiteMissionRepo) AddLead(ctx context.Context, missionID, userID string) error {
	query := `INSERT OR IGNORE INTO mission_leads (mission_id, user_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, missionID, userID); err != nil {
		return fmt.Errorf("inserting mission lead: %w", err)
	}
	return nil
}

func (r *SQLiteMissionRepo) AddAssignment(ctx context.Context, a *domain.MissionAssignment) error {
	query := `INSERT INTO mission_assignments (id, mission_id, user_id, start_date, end_date, allocation_pct)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.MissionID,
		a.UserID,
		a.StartDate.Format(dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		a.AllocationPct,
	)
	if err != nil {
		return fmt.Errorf("inserting mission assignment: %w", err)
	}
	return nil
}

func scanMission(row *sql.Row) (*domain.Mission, error) {
	var m domain.Mission
	var statusStr, startDateStr string
	var endDateStr, notes sql.NullString
	var isActive int

	err := row.Scan(
		&m.ID, &m.ClientID, &m.Code, &m.Name, &statusStr,
		&startDateStr, &endDateStr,
		&m.SoldDays, &m.SoldAmountEUR, &m.DailyCostEUR,
		&notes, &isActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("mission: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning mission: %w", err)
	}
	return missionFromRow(&m, statusStr, startDateStr, endDateStr, notes, isActive)
}

func scanMissionFromRows(rows *sql.Rows) (*domain.Mission, error) {
	var m domain.Mission
	var statusStr, startDateStr string
	var endDateStr, notes sql.NullString
	var isActive int

	err := rows.Scan(
		&m.ID, &m.ClientID, &m.Code, &m.Name, &statusStr,
		&startDateStr, &endDateStr,
		&m.SoldDays, &m.SoldAmountEUR, &m.DailyCostEUR,
		&notes, &isActive,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning mission row: %w", err)
	}
	return missionFromRow(&m, statusStr, startDateStr, endDateStr, notes, isActive)
}

func missionFromRow(m *domain.Mission, statusStr, startDateStr string, endDateStr, notes sql.NullString, isActive int) (*domain.Mission, error) {
	m.Status = domain.MissionStatus(statusStr)
	var parseErr error
	m.StartDate, parseErr = parseDate(startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	m.EndDate = parseNullableTime(endDateStr, dateLayout)
	m.Notes = stringOrNil(notes)
	m.IsActive = isActive != 0
	return m, nil
}
