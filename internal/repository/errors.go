package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStaleWrite is returned by conditional updates whose guard no longer
// matches, i.e. another request changed the row first.
var ErrStaleWrite = errors.New("repository: row changed concurrently")

// conn picks the transaction when the caller has one.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
