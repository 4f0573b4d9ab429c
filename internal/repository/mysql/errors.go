package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const errDuplicateEntry = 1062

// translateError maps driver and gorm errors onto the domain taxonomy so that
// raw storage errors never leave this package.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{domain.ErrNotFound, domain.ErrConflict, domain.ErrForbidden, domain.ErrBadParamInput, domain.ErrTransient} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}

	var myErr *mysqlDriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		return domain.ErrConflict
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqlDriver.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrTransient, err)
}
