package database

import (
	"errors"

	"gorm.io/gorm"

	"welbex/internal/core/errs"
)

// translate maps gorm failures onto the service error taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict(what + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.Validation("%s references a missing record", what)
	}
	return errs.Storage(what, err)
}
