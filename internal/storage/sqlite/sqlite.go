package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

func isDuplicateKeyError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}
