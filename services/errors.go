package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("insufficient permissions")
	ErrConflict     = errors.New("already exists")
	ErrInvalidInput = errors.New("invalid input")
	// ErrContentUnavailable means a stored document could not be read.
	ErrContentUnavailable = errors.New("content unavailable")
)

// notFound translates a missing gorm record into ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

// conflict translates a unique constraint violation into ErrConflict.
func conflict(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %w", what, ErrConflict)
	}
	return err
}
