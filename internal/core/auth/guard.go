package auth

import (
	"github.com/gofrs/uuid"

	"welbex/internal/core/errs"
)

// RequireOwner rejects a mutation by anyone but the resource owner.
func RequireOwner(requesterID, ownerID uuid.UUID) error {
	if requesterID == uuid.Nil || requesterID != ownerID {
		return errs.Forbidden("you are not allowed to modify this resource")
	}
	return nil
}

// ConcealUnowned behaves like RequireOwner but reports a mismatch as NotFound,
// so the caller cannot learn that someone else's resource exists.
func ConcealUnowned(requesterID, ownerID uuid.UUID, what string) error {
	if requesterID == uuid.Nil || requesterID != ownerID {
		return errs.NotFound(what + " not found")
	}
	return nil
}
