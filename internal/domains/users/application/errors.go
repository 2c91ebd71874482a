package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
	"github.com/Apurer/user-management-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant or business rule.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrConflict signals the email is already registered to another user.
	ErrConflict = errors.New("user conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrEmptyFirstName) ||
		errors.Is(err, domain.ErrEmptyLastName) ||
		errors.Is(err, domain.ErrEmptyBirthDate) ||
		errors.Is(err, domain.ErrUnderage) ||
		errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, domain.ErrInvalidPage) ||
		errors.Is(err, domain.ErrInvalidPageSize) ||
		errors.Is(err, domain.ErrInvalidSort) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

// notFound adds the identifier to a missing-user error.
func notFound(err error, id int64) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w with this id: %d", ports.ErrNotFound, id)
	}
	return err
}
