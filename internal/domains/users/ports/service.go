package ports

import (
	"context"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, user *domain.User) (*domain.User, error)
	PartialUpdate(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	ListByBirthDate(ctx context.Context, query domain.BirthDateQuery) ([]*domain.User, error)
}
