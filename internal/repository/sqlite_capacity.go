package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// SQLiteCapacityRepo implements CapacityRepo using a SQLite database.
type SQLiteCapacityRepo struct {
	db db.DBTX
}

// NewSQLiteCapacityRepo creates a new SQLiteCapacityRepo.
func NewSQLiteCapacityRepo(conn db.DBTX) *SQLiteCapacityRepo {
	return &SQLiteCapacityRepo{db: conn}
}

func (r *SQLiteCapacityRepo) Upsert(ctx context.Context, o *domain.CapacityOverride) error {
	query := `INSERT INTO capacity_overrides (id, user_id, cap_date, capacity_h, reason)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, cap_date) DO UPDATE SET
			capacity_h = excluded.capacity_h,
			reason = excluded.reason`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.UserID,
		o.Date.Format(dateLayout),
		o.CapacityH,
		nullableString(o.Reason),
	)
	if err != nil {
		return fmt.Errorf("upserting capacity override: %w", err)
	}
	return nil
}

func (r *SQLiteCapacityRepo) Get(ctx context.Context, userID string, day time.Time) (*domain.CapacityOverride, error) {
	var o domain.CapacityOverride
	var dayStr string
	var reason sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, cap_date, capacity_h, reason FROM capacity_overrides WHERE user_id = ? AND cap_date = ?`,
		userID, day.Format(dateLayout),
	).Scan(&o.ID, &o.UserID, &dayStr, &o.CapacityH, &reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning capacity override: %w", err)
	}
	o.Date, err = parseDate(dayStr)
	if err != nil {
		return nil, fmt.Errorf("parsing cap_date: %w", err)
	}
	o.Reason = stringOrNil(reason)
	return &o, nil
}
