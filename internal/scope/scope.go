// Package scope resolves role-based record visibility. Every list and
// aggregate endpoint goes through the same resolution so REP, MANAGER and
// ADMIN scoping cannot drift between features.
package scope

import (
	"context"
	"errors"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// ErrNoUser is returned when resolution is attempted without an
// authenticated caller. Empty OwnerIDs would read as "no filter" at the
// repository, so a nil user must not produce a scope at all.
var ErrNoUser = errors.New("scope: no authenticated user")

// Scope is a resolved visibility filter. All true means no ownership filter;
// otherwise OwnerIDs lists the visible record owners.
type Scope struct {
	All      bool
	OwnerIDs []string
}

// Resolve computes the caller's visibility. REP sees their own records,
// MANAGER with a team sees the team's members, ADMIN and a teamless MANAGER
// see everything. A nil user is ErrNoUser.
func Resolve(ctx context.Context, repo repository.Repository, user *models.User) (Scope, error) {
	if user == nil {
		return Scope{}, ErrNoUser
	}
	switch user.Role {
	case models.RoleAdmin:
		return Scope{All: true}, nil
	case models.RoleManager:
		if user.TeamID == nil || *user.TeamID == "" {
			return Scope{All: true}, nil
		}
		ids, err := repo.ListUserIDsByTeam(ctx, *user.TeamID)
		if err != nil {
			return Scope{}, err
		}
		if !contains(ids, user.ID) {
			ids = append(ids, user.ID)
		}
		return Scope{OwnerIDs: ids}, nil
	default:
		return Scope{OwnerIDs: []string{user.ID}}, nil
	}
}

// Allows reports whether a record owned by ownerID is visible in the scope.
func (s Scope) Allows(ownerID string) bool {
	if s.All {
		return true
	}
	return contains(s.OwnerIDs, ownerID)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
