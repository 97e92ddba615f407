// Package importer loads the sample dataset from CSV files. Each seed
// run happens inside a single transaction: either the whole dataset
// lands or nothing does.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/security"
)

const dateLayout = "2006-01-02"

// Seeder imports CSV sample data.
type Seeder struct {
	database   db.DBTX
	uow        db.UnitOfWork
	bcryptCost int
	// fallbackPassword is hashed for users whose CSV row has no
	// password_clear value.
	fallbackPassword string
}

func NewSeeder(database db.DBTX, uow db.UnitOfWork, bcryptCost int, fallbackPassword string) *Seeder {
	return &Seeder{database: database, uow: uow, bcryptCost: bcryptCost, fallbackPassword: fallbackPassword}
}

// SeedIfEmpty imports the sample data only when no user exists yet.
func (s *Seeder) SeedIfEmpty(ctx context.Context, dir string) error {
	count, err := repository.NewSQLiteUserRepo(s.database).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.seedFromCSV(ctx, tx, dir)
	})
}

// Reset wipes all operational data and reimports the sample data, as
// one transaction. Deletion order respects the foreign keys.
func (s *Seeder) Reset(ctx context.Context, dir string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, table := range []string{
			"time_entries",
			"mission_assignments",
			"mission_leads",
			"simulations",
			"missions",
			"clients",
			"capacity_overrides",
			"users",
		} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return s.seedFromCSV(ctx, tx, dir)
	})
}

func (s *Seeder) seedFromCSV(ctx context.Context, tx db.DBTX, dir string) error {
	users := repository.NewSQLiteUserRepo(tx)
	clients := repository.NewSQLiteClientRepo(tx)
	missions := repository.NewSQLiteMissionRepo(tx)
	entries := repository.NewSQLiteTimeEntryRepo(tx)
	capacities := repository.NewSQLiteCapacityRepo(tx)

	if err := forEachRow(filepath.Join(dir, "users.csv"), func(row csvRow) error {
		clear := row.get("password_clear")
		if clear == "" {
			clear = s.fallbackPassword
		}
		hash, err := security.HashPassword(clear, s.bcryptCost)
		if err != nil {
			return err
		}
		u := &domain.User{
			ID:           uuid.New().String(),
			Username:     row.get("username"),
			PasswordHash: hash,
			Role:         domain.Role(row.get("role")),
			FullName:     row.get("full_name"),
			Email:        row.optional("email"),
			IsActive:     row.getBool("is_active", true),
			CreatedAt:    time.Now().UTC(),
		}
		if !domain.ValidRoles[string(u.Role)] {
			return fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
		return users.Create(ctx, u)
	}); err != nil {
		return err
	}

	if err := forEachRow(filepath.Join(dir, "clients.csv"), func(row csvRow) error {
		return clients.Create(ctx, &domain.Client{
			ID:       uuid.New().String(),
			Name:     row.get("name"),
			IsActive: row.getBool("is_active", true),
		})
	}); err != nil {
		return err
	}

	if err := forEachRow(filepath.Join(dir, "missions.csv"), func(row csvRow) error {
		client, err := clients.GetByName(ctx, row.get("client_name"))
		if err != nil {
			return fmt.Errorf("mission %s: %w", row.get("code"), err)
		}
		m := &domain.Mission{
			ID:            uuid.New().String(),
			ClientID:      client.ID,
			Code:          row.get("code"),
			Name:          row.get("name"),
			Status:        domain.MissionStatus(row.getOr("status", "ongoing")),
			SoldDays:      row.getFloat("sold_days"),
			SoldAmountEUR: row.getFloat("sold_amount_eur"),
			DailyCostEUR:  row.getFloat("daily_cost_eur"),
			Notes:         row.optional("notes"),
			IsActive:      row.getBool("is_active", true),
		}
		if err := m.ValidateCode(); err != nil {
			return err
		}
		if m.StartDate, err = time.Parse(dateLayout, row.get("start_date")); err != nil {
			return fmt.Errorf("mission %s: parsing start_date: %w", m.Code, err)
		}
		if m.EndDate, err = optionalDate(row.get("end_date")); err != nil {
			return fmt.Errorf("mission %s: parsing end_date: %w", m.Code, err)
		}
		return missions.Create(ctx, m)
	}); err != nil {
		return err
	}

	if err := forEachRow(filepath.Join(dir, "mission_leads.csv"), func(row csvRow) error {
		mission, err := missions.GetByCode(ctx, row.get("mission_code"))
		if err != nil {
			return fmt.Errorf("lead row: %w", err)
		}
		lead, err := users.GetByUsername(ctx, row.get("lead_username"))
		if err != nil {
			return fmt.Errorf("lead row: %w", err)
		}
		return missions.AddLead(ctx, mission.ID, lead.ID)
	}); err != nil {
		return err
	}

	if err := forEachRow(filepath.Join(dir, "mission_assignments.csv"), func(row csvRow) error {
		mission, err := missions.GetByCode(ctx, row.get("mission_code"))
		if err != nil {
			return fmt.Errorf("assignment row: %w", err)
		}
		user, err := users.GetByUsername(ctx, row.get("username"))
		if err != nil {
			return fmt.Errorf("assignment row: %w", err)
		}
		a := &domain.MissionAssignment{
			ID:            uuid.New().String(),
			MissionID:     mission.ID,
			UserID:        user.ID,
			AllocationPct: row.getIntOr("allocation_pct", 100),
		}
		if a.StartDate, err = time.Parse(dateLayout, row.get("start_date")); err != nil {
			return fmt.Errorf("assignment row: parsing start_date: %w", err)
		}
		if a.EndDate, err = optionalDate(row.get("end_date")); err != nil {
			return fmt.Errorf("assignment row: parsing end_date: %w", err)
		}
		return missions.AddAssignment(ctx, a)
	}); err != nil {
		return err
	}

	if err := forEachRow(filepath.Join(dir, "time_entries.csv"), func(row csvRow) error {
		user, err := users.GetByUsername(ctx, row.get("username"))
		if err != nil {
			return fmt.Errorf("time entry row: %w", err)
		}
		e := &domain.TimeEntry{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			Category:    domain.TimeCategory(row.get("category")),
			Hours:       row.getIntOr("hours", 0),
			Description: row.optional("description"),
			CreatedAt:   time.Now().UTC(),
		}
		if e.EntryDate, err = time.Parse(dateLayout, row.get("entry_date")); err != nil {
			return fmt.Errorf("time entry row: parsing entry_date: %w", err)
		}
		if code := row.get("mission_code"); code != "" {
			mission, err := missions.GetByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("time entry row: %w", err)
			}
			e.MissionID = &mission.ID
		}
		// Duplicates in the sample file are skipped, matching live entry.
		_, err = entries.Create(ctx, e)
		return err
	}); err != nil {
		return err
	}

	// Optional file.
	capPath := filepath.Join(dir, "capacity_overrides.csv")
	if _, err := os.Stat(capPath); os.IsNotExist(err) {
		return nil
	}
	return forEachRow(capPath, func(row csvRow) error {
		user, err := users.GetByUsername(ctx, row.get("username"))
		if err != nil {
			return fmt.Errorf("capacity row: %w", err)
		}
		o := &domain.CapacityOverride{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			CapacityH: row.getIntOr("capacity_h", 8),
			Reason:    row.optional("reason"),
		}
		if o.Date, err = time.Parse(dateLayout, row.get("cap_date")); err != nil {
			return fmt.Errorf("capacity row: parsing cap_date: %w", err)
		}
		return capacities.Upsert(ctx, o)
	})
}

// csvRow is one record with access by header name.
type csvRow struct {
	header map[string]int
	fields []string
}

func (r csvRow) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r csvRow) getOr(col, fallback string) string {
	if v := r.get(col); v != "" {
		return v
	}
	return fallback
}

func (r csvRow) optional(col string) *string {
	v := r.get(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r csvRow) getBool(col string, fallback bool) bool {
	switch r.get(col) {
	case "":
		return fallback
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

func (r csvRow) getFloat(col string) float64 {
	f, err := strconv.ParseFloat(r.get(col), 64)
	if err != nil {
		return 0
	}
	return f
}

func (r csvRow) getIntOr(col string, fallback int) int {
	n, err := strconv.Atoi(r.get(col))
	if err != nil {
		return fallback
	}
	return n
}

// forEachRow streams a headered CSV file. The first header cell is
// BOM-stripped so files exported from spreadsheets load as-is.
func forEachRow(path string, fn func(csvRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[name] = i
	}

	for n, fields := range records[1:] {
		if err := fn(csvRow{header: header, fields: fields}); err != nil {
			return fmt.Errorf("%s line %d: %w", filepath.Base(path), n+2, err)
		}
	}
	return nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
