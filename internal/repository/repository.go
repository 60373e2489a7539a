// Package repository holds the GORM data access for each entity.
package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// wrap annotates err with msg, mapping a missing row to ErrNotFound.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// IsNotFound reports whether err means a row was missing.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation. It needs
// a connection opened with TranslateError.
func IsDuplicate(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}
