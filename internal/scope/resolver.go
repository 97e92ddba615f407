// Package scope resolves which missions and users a given user may see.
// Every read path in the application is bounded by a Scope; a role the
// resolver does not recognise fails closed to an empty scope.
package scope

import (
	"context"
	"fmt"

	"github.com/alexisferrand/cockpit/internal/db"
	"github.com/alexisferrand/cockpit/internal/domain"
)

// Scope is the visibility envelope computed for one user. The id sets
// are exhaustive: queries must restrict themselves to these ids and an
// empty set means "sees nothing", never "sees everything".
type Scope struct {
	User       domain.User
	MissionIDs []string
	UserIDs    []string
}

// HasMissions reports whether the scope contains at least one mission.
func (s Scope) HasMissions() bool {
	return len(s.MissionIDs) > 0
}

// CanSeeFinance reports whether amounts, costs and margins may be shown.
func (s Scope) CanSeeFinance() bool {
	return s.User.Role.CanSeeFinance()
}

// Resolver computes visibility scopes straight from the database so a
// scope is always consistent with the assignments at call time.
type Resolver struct {
	db db.DBTX
}

func NewResolver(conn db.DBTX) *Resolver {
	return &Resolver{db: conn}
}

// Resolve computes the full scope for a user.
func (r *Resolver) Resolve(ctx context.Context, user domain.User) (Scope, error) {
	missionIDs, err := r.MissionIDs(ctx, user)
	if err != nil {
		return Scope{}, err
	}
	userIDs, err := r.UserIDs(ctx, user, missionIDs)
	if err != nil {
		return Scope{}, err
	}
	return Scope{User: user, MissionIDs: missionIDs, UserIDs: userIDs}, nil
}

// MissionIDs returns the active missions visible to the user.
// ADMIN and BOARD see every active mission. LEAD sees the missions
// they lead. CONSULTANT sees missions they are assigned to or have
// logged time on.
func (r *Resolver) MissionIDs(ctx context.Context, user domain.User) ([]string, error) {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleBoard:
		return r.collectIDs(ctx, `SELECT id FROM missions WHERE is_active = 1 ORDER BY id`)
	case domain.RoleLead:
		return r.collectIDs(ctx, `
			SELECT m.id
			FROM missions m
			JOIN mission_leads ml ON ml.mission_id = m.id
			WHERE m.is_active = 1 AND ml.user_id = ?
			ORDER BY m.id`, user.ID)
	case domain.RoleConsultant:
		return r.collectIDs(ctx, `
			SELECT DISTINCT m.id
			FROM missions m
			LEFT JOIN mission_assignments ma ON ma.mission_id = m.id
			LEFT JOIN time_entries te ON te.mission_id = m.id
			WHERE m.is_active = 1
				AND (ma.user_id = ? OR te.user_id = ?)
			ORDER BY m.id`, user.ID, user.ID)
	default:
		return nil, nil
	}
}

// UserIDs returns the active users visible to the user, given the
// missions already resolved for them. ADMIN and BOARD see everyone.
// LEAD sees people assigned to or logging on their missions, plus
// themselves. CONSULTANT sees only themselves.
func (r *Resolver) UserIDs(ctx context.Context, user domain.User, missionIDs []string) ([]string, error) {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleBoard:
		return r.collectIDs(ctx, `SELECT id FROM users WHERE is_active = 1 ORDER BY id`)
	case domain.RoleLead:
		if len(missionIDs) == 0 {
			return []string{user.ID}, nil
		}
		placeholders, args := missionInArgs(missionIDs)
		query := `
			SELECT DISTINCT u.id
			FROM users u
			LEFT JOIN mission_assignments ma ON ma.user_id = u.id
			LEFT JOIN time_entries te ON te.user_id = u.id
			WHERE u.is_active = 1
				AND (ma.mission_id IN ` + placeholders + ` OR te.mission_id IN ` + placeholders + `)
			ORDER BY u.id`
		ids, err := r.collectIDs(ctx, query, append(args, args...)...)
		if err != nil {
			return nil, err
		}
		return withSelf(ids, user.ID), nil
	case domain.RoleConsultant:
		return []string{user.ID}, nil
	default:
		return nil, nil
	}
}

func (r *Resolver) collectIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolving scope ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning scope id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scope ids: %w", err)
	}
	return ids, nil
}

func missionInArgs(ids []string) (string, []any) {
	placeholders := "("
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, id)
	}
	return placeholders + ")", args
}

func withSelf(ids []string, selfID string) []string {
	for _, id := range ids {
		if id == selfID {
			return ids
		}
	}
	return append(ids, selfID)
}
