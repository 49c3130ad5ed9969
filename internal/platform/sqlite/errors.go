package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/botstore/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// uniqueColumns maps the "table.column" reported by SQLite unique failures
// to specific duplicate errors.
var uniqueColumns = map[string]error{
	"accounts.chat_id": store.ErrChatIDExists,
	"profiles.handle":  store.ErrHandleExists,
}

// MapError maps a SQLite error to the store error taxonomy, keeping the
// original message.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", store.ErrTransient, err)
		}
		return err
	}

	switch code := sqliteErr.Code(); code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		msg := sqliteErr.Error()
		for column, specific := range uniqueColumns {
			if strings.Contains(msg, column) {
				return fmt.Errorf("%w: %v", specific, err)
			}
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: %v", store.ErrInvalidReference, err)
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	default:
		// Extended codes keep the primary code in the low byte.
		switch code & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %v", store.ErrTransient, err)
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %v", store.ErrConstraintViolation, err)
		}
	}

	return err
}
