package ports

import (
	"context"
	"errors"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// Repository persists users. Save inserts when the user has no id and
// updates otherwise; it reports ErrDuplicateEmail on a uniqueness violation.
type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByBirthDate(ctx context.Context, query domain.BirthDateQuery) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
