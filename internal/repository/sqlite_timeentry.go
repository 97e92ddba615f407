package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// SQLiteTimeEntryRepo implements TimeEntryRepo using a SQLite database.
type SQLiteTimeEntryRepo struct {
	db db.DBTX
}

// NewSQLiteTimeEntryRepo creates a new SQLiteTimeEntryRepo.
func NewSQLiteTimeEntryRepo(conn db.DBTX) *SQLiteTimeEntryRepo {
	return &SQLiteTimeEntryRepo{db: conn}
}

func (r *SQLiteTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	query := `INSERT OR IGNORE INTO time_entries (id, entry_date, user_id, mission_id, category, hours, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.EntryDate.Format(dateLayout),
		e.UserID,
		nullableString(e.MissionID),
		string(e.Category),
		e.Hours,
		nullableString(e.Description),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting time entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking time entry insert: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteTimeEntryRepo) ListRange(ctx context.Context, userIDs []string, from, to time.Time) ([]TimeEntryDetail, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(userIDs)
	query := `SELECT
			te.entry_date,
			u.full_name,
			COALESCE(m.code, ''),
			COALESCE(m.name, ''),
			te.category,
			te.hours,
			COALESCE(te.description, '')
		FROM time_entries te
		JOIN users u ON u.id = te.user_id
		LEFT JOIN missions m ON m.id = te.mission_id
		WHERE te.user_id IN ` + placeholders + `
			AND te.entry_date BETWEEN ? AND ?
		ORDER BY te.entry_date DESC, u.full_name`
	args = append(args, from.Format(dateLayout), to.Format(dateLayout))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntryDetail
	for rows.Next() {
		var d TimeEntryDetail
		var dayStr, categoryStr string
		if err := rows.Scan(&dayStr, &d.UserName, &d.MissionCode, &d.MissionName, &categoryStr, &d.Hours, &d.Description); err != nil {
			return nil, fmt.Errorf("scanning time entry row: %w", err)
		}
		d.EntryDate, err = parseDate(dayStr)
		if err != nil {
			return nil, fmt.Errorf("parsing entry_date: %w", err)
		}
		d.Category = domain.TimeCategory(categoryStr)
		entries = append(entries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}
