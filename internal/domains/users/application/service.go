package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
	"github.com/Apurer/user-management-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	ageLimit int
	now      func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithAgeLimit overrides the minimum registration age in years.
func WithAgeLimit(years int) Option {
	return func(s *Service) {
		if years >= 0 {
			s.ageLimit = years
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		ageLimit: domain.DefaultAgeLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AgeLimit returns the configured minimum registration age.
func (s *Service) AgeLimit() int {
	return s.ageLimit
}

func (s *Service) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureEmailAvailable(ctx, user.Email, 0); err != nil {
		return nil, err
	}
	if err := user.CheckEligibility(s.now(), s.ageLimit); err != nil {
		return nil, mapError(err)
	}
	candidate := *user
	candidate.ID = 0
	saved, err := s.repo.Save(ctx, &candidate)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id int64, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Replace(user)
	return s.persistChanged(ctx, existing)
}

func (s *Service) PartialUpdate(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}
	patch.Apply(existing)
	return s.persistChanged(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id), id)
}

func (s *Service) ListByBirthDate(ctx context.Context, query domain.BirthDateQuery) ([]*domain.User, error) {
	if len(query.Sort) == 0 {
		query.Sort = []domain.SortField{{Field: domain.SortByID}}
	}
	if err := query.Validate(); err != nil {
		return nil, mapError(err)
	}
	query.From = domain.DateOf(query.From)
	query.To = domain.DateOf(query.To)
	return s.repo.ListByBirthDate(ctx, query)
}

func (s *Service) persistChanged(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := user.CheckEligibility(s.now(), s.ageLimit); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureEmailAvailable(ctx, user.Email, user.ID); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, notFound(mapError(err), user.ID)
	}
	return saved, nil
}

// ensureEmailAvailable fails with ErrConflict when email belongs to a user
// other than ownerID. The storage unique index still backs this check.
func (s *Service) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	found, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return nil
	case err != nil:
		return err
	case found.ID != ownerID:
		return mapError(ports.ErrDuplicateEmail)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
