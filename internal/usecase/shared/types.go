package shared

import (
	"tablebook/internal/domain/user"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of a command or query.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}
