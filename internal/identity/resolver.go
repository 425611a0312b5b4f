// Package identity resolves a session's user id into the role and
// project scope every other component keys its visibility on.
package identity

import (
	"errors"
	"fmt"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"gorm.io/gorm"
)

// ErrUnknownUser is returned when the session points at a profile that
// no longer exists. The resolver is fail-closed: callers must treat this
// as an unauthenticated request, not default the caller to any role.
var ErrUnknownUser = errors.New("identity: no profile for session user")

// Resolver loads identities from the user store.
type Resolver struct {
	userRepo repository.UserRepository
}

// NewResolver creates a new Resolver.
func NewResolver(userRepo repository.UserRepository) *Resolver {
	return &Resolver{userRepo: userRepo}
}

// Resolve returns the identity for a session user id. AssignedProjectID
// is only carried for partners; a partner row with a stale assignment on
// another role is not trusted.
func (r *Resolver) Resolve(userID uint64) (policy.Identity, error) {
	user, err := r.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Identity{}, ErrUnknownUser
		}
		return policy.Identity{}, fmt.Errorf("failed to resolve identity: %w", err)
	}

	id := policy.Identity{
		UserID: user.ID,
		Role:   user.Role,
	}
	if user.Role == models.RolePartner {
		id.AssignedProjectID = user.AssignedProjectID
	}

	return id, nil
}
