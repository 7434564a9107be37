package apperr //import "github.com/hondana-dev/hondana/apperr"

import (
	"github.com/pkg/errors"
	"modernc.org/sqlite"
)

// Extended sqlite result codes we care about. Kept local to avoid pulling
// the whole modernc.org/sqlite/lib constant surface into the callers.
const (
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// FromSQLite maps a driver error onto the typed taxonomy. Non-sqlite errors
// pass through untouched so callers can wrap them once at the call site.
func FromSQLite(err error) error {
	if err == nil {
		return nil
	}

	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return err
	}

	switch serr.Code() {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		return errors.Wrap(ErrDuplicateEntry, serr.Error())
	case sqliteConstraintForeignKey:
		return errors.Wrap(ErrForeignKey, serr.Error())
	case sqliteConstraintNotNull:
		return errors.Wrap(ErrConstraint, serr.Error())
	}
	return err
}
