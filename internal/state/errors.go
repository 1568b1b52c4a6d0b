package state

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// classifyError maps a failure from the driver onto the catalog taxonomy.
//
// Constraint violations (any extended code in the SQLITE_CONSTRAINT class)
// become KindIntegrity; every other driver failure becomes KindStorage.
// Errors already in the taxonomy keep their kind: a *StoreError is returned
// unchanged and validation failures are only tagged with op.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var storeErr *core.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	if errors.Is(err, core.ErrInvalidArgument) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if isConstraintViolation(err) {
		return core.NewStoreError(core.KindIntegrity, op, err)
	}
	return core.NewStoreError(core.KindStorage, op, err)
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
