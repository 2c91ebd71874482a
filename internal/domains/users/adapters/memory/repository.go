package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
	"github.com/Apurer/user-management-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter. Email uniqueness is
// enforced case-insensitively, like the unique index of the SQL adapter.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID != 0 {
		if _, ok := r.users[clone.ID]; !ok {
			return nil, ports.ErrNotFound
		}
	}
	for id, existing := range r.users {
		if id != clone.ID && strings.EqualFold(existing.Email, clone.Email) {
			return nil, ports.ErrDuplicateEmail
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ListByBirthDate(_ context.Context, query domain.BirthDateQuery) ([]*domain.User, error) {
	from, to := domain.DateOf(query.From), domain.DateOf(query.To)
	r.mu.RLock()
	matched := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if user.BirthDate.Before(from) || user.BirthDate.After(to) {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	r.mu.RUnlock()

	ordering := query.Ordering()
	slices.SortStableFunc(matched, func(a, b *domain.User) int {
		for _, field := range ordering {
			c := compareBy(field.Field, a, b)
			if field.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	start := query.Offset()
	if start < 0 || start >= len(matched) {
		return []*domain.User{}, nil
	}
	end := min(start+query.Size, len(matched))
	return matched[start:end], nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Reset drops every stored user. Intended for tests and contract fixtures.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = map[int64]*domain.User{}
	r.nextID = 0
}

func compareBy(field string, a, b *domain.User) int {
	switch field {
	case domain.SortByEmail:
		return compareFold(a.Email, b.Email)
	case domain.SortByFirstName:
		return compareFold(a.FirstName, b.FirstName)
	case domain.SortByLastName:
		return compareFold(a.LastName, b.LastName)
	case domain.SortByBirthDate:
		return a.BirthDate.Compare(b.BirthDate)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// compareFold orders text ignoring case, falling back to byte order for
// values that differ only in case.
func compareFold(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}
