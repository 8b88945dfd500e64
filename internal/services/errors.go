package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound - a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized - the acting user is missing or unrecognized.
	ErrUnauthorized = errors.New("unauthorized")
)

// notFound maps gorm's record-not-found onto the service taxonomy,
// keeping the entity name in the message for the logs.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
