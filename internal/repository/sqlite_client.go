package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// SQLiteClientRepo implements ClientRepo using a SQLite database.
type SQLiteClientRepo struct {
	db db.DBTX
}

// NewSQLiteClientRepo creates a new SQLiteClientRepo.
func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: conn}
}

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT OR IGNORE INTO clients (id, name, is_active) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, boolToInt(c.IsActive))
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	var c domain.Client
	var isActive int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, is_active FROM clients WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("client %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	c.IsActive = isActive != 0
	return &c, nil
}

func (r *SQLiteClientRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Client, error) {
	query := `SELECT id, name, is_active FROM clients ORDER BY name`
	if activeOnly {
		query = `SELECT id, name, is_active FROM clients WHERE is_active = 1 ORDER BY name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		var isActive int
		if err := rows.Scan(&c.ID, &c.Name, &isActive); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		c.IsActive = isActive != 0
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}
