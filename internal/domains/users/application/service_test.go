package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermemory "github.com/Apurer/user-management-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/user-management-api/internal/domains/users/domain"
	"github.com/Apurer/user-management-api/internal/domains/users/ports"
)

var (
	fixedNow        = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)
	correctBirthday = time.Date(1995, time.May, 2, 0, 0, 0, 0, time.UTC)
	childBirthday   = time.Date(2018, time.May, 2, 0, 0, 0, 0, time.UTC)
)

// countingRepo wraps the in-memory adapter and records storage traffic.
type countingRepo struct {
	*usermemory.Repository
	saves   int
	lists   int
	saveErr error
	// hideEmails makes GetByEmail miss, simulating a concurrent insert that
	// slipped past the pre-check.
	hideEmails bool
}

func newCountingRepo() *countingRepo {
	return &countingRepo{Repository: usermemory.NewRepository()}
}

func (r *countingRepo) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.saves++
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	return r.Repository.Save(ctx, user)
}

func (r *countingRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.hideEmails {
		return nil, ports.ErrNotFound
	}
	return r.Repository.GetByEmail(ctx, email)
}

func (r *countingRepo) ListByBirthDate(ctx context.Context, q domain.BirthDateQuery) ([]*domain.User, error) {
	r.lists++
	return r.Repository.ListByBirthDate(ctx, q)
}

func newTestService(repo ports.Repository) *Service {
	return NewService(repo, WithClock(func() time.Time { return fixedNow }))
}

func newVlad(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("vladDuncan@gmail.com", "Vlad", "Duncan", correctBirthday)
	require.NoError(t, err)
	return user
}

func TestCreate_Success(t *testing.T) {
	svc := newTestService(newCountingRepo())

	created, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "vladDuncan@gmail.com", fetched.Email)
	assert.Equal(t, "Vlad", fetched.FirstName)
	assert.Equal(t, "Duncan", fetched.LastName)
	assert.Equal(t, correctBirthday, fetched.BirthDate)
}

func TestCreate_Underage(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)

	user := newVlad(t)
	user.BirthDate = childBirthday
	_, err := svc.Create(context.Background(), user)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrUnderage)
	assert.Zero(t, repo.saves)
}

func TestCreate_AgeBoundaryIsInclusive(t *testing.T) {
	svc := newTestService(newCountingRepo())

	user := newVlad(t)
	user.BirthDate = time.Date(2006, time.June, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), user)
	require.NoError(t, err)

	other, err := domain.NewUser("late@example.com", "Late", "Bloomer", time.Date(2006, time.June, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), other)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_LeapDayBoundary(t *testing.T) {
	leapDay := time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)
	svc := NewService(newCountingRepo(), WithClock(func() time.Time { return leapDay }))

	underage, err := domain.NewUser("march@example.com", "March", "First", time.Date(2006, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), underage)
	require.ErrorIs(t, err, domain.ErrUnderage)

	adult, err := domain.NewUser("feb@example.com", "Feb", "Last", time.Date(2006, time.February, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), adult)
	require.NoError(t, err)
}

func TestCreate_CustomAgeLimit(t *testing.T) {
	svc := NewService(newCountingRepo(), WithAgeLimit(5), WithClock(func() time.Time { return fixedNow }))
	require.Equal(t, 5, svc.AgeLimit())

	user := newVlad(t)
	user.BirthDate = childBirthday
	_, err := svc.Create(context.Background(), user)
	require.NoError(t, err)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), newVlad(t))
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, repo.saves)

	users, err := repo.ListByBirthDate(context.Background(), domain.BirthDateQuery{
		From: correctBirthday, To: correctBirthday, Size: 10,
	})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreate_StorageUniqueViolationIsConflict(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)
	_, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	repo.hideEmails = true
	_, err = svc.Create(context.Background(), newVlad(t))
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newCountingRepo())
	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.EqualError(t, err, "user not found with this id: 999")
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	svc := newTestService(newCountingRepo())
	original := newVlad(t)
	original.UpdateContact("Kyiv", "0991102224")
	created, err := svc.Create(context.Background(), original)
	require.NoError(t, err)

	replacement, err := domain.NewUser("VictorDon@gmail.com", "Victor", "Don", correctBirthday)
	require.NoError(t, err)
	replacement.UpdateContact("Mazepa 117, Ivano-Frankivsk, Ukraine", "")

	updated, err := svc.Update(context.Background(), created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Victor", updated.FirstName)
	assert.Equal(t, "Don", updated.LastName)
	assert.Equal(t, "VictorDon@gmail.com", updated.Email)
	assert.Equal(t, "Mazepa 117, Ivano-Frankivsk, Ukraine", updated.Address)
	assert.Empty(t, updated.PhoneNumber)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(newCountingRepo())
	_, err := svc.Update(context.Background(), 500, newVlad(t))
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdate_Underage(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)
	created, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	young := newVlad(t)
	young.BirthDate = childBirthday
	_, err = svc.Update(context.Background(), created.ID, young)
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, correctBirthday, stored.BirthDate)
}

func TestUpdate_EmailTakenByAnotherUser(t *testing.T) {
	svc := newTestService(newCountingRepo())
	_, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)
	other, err := domain.NewUser("other@example.com", "Other", "User", correctBirthday)
	require.NoError(t, err)
	other, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, newVlad(t))
	require.ErrorIs(t, err, ErrConflict)

	// keeping one's own email is fine
	same, err := domain.NewUser("other@example.com", "Renamed", "User", correctBirthday)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), other.ID, same)
	require.NoError(t, err)
}

func TestPartialUpdate_ChangesOnlySuppliedField(t *testing.T) {
	svc := newTestService(newCountingRepo())
	original := newVlad(t)
	original.UpdateContact("Kyiv", "0991102224")
	created, err := svc.Create(context.Background(), original)
	require.NoError(t, err)

	name := "Victor"
	empty := ""
	updated, err := svc.PartialUpdate(context.Background(), created.ID, domain.Patch{FirstName: &name, Address: &empty})
	require.NoError(t, err)

	assert.Equal(t, "Victor", updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.BirthDate, updated.BirthDate)
	assert.Equal(t, "Kyiv", updated.Address)
	assert.Equal(t, "0991102224", updated.PhoneNumber)
}

func TestPartialUpdate_RechecksAge(t *testing.T) {
	svc := newTestService(newCountingRepo())
	created, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	_, err = svc.PartialUpdate(context.Background(), created.ID, domain.Patch{BirthDate: &childBirthday})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPartialUpdate_EmptyPatchSkipsSave(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)
	created, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	got, err := svc.PartialUpdate(context.Background(), created.ID, domain.Patch{})
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, repo.saves)

	_, err = svc.PartialUpdate(context.Background(), 404, domain.Patch{})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(newCountingRepo())
	created, err := svc.Create(context.Background(), newVlad(t))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), ports.ErrNotFound)
}

func TestListByBirthDate_InvalidRangeSkipsStorage(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)

	_, err := svc.ListByBirthDate(context.Background(), domain.BirthDateQuery{
		From: time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Size: 10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
	assert.Zero(t, repo.lists)
}

func TestListByBirthDate_PageOutOfRange(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)

	_, err := svc.ListByBirthDate(context.Background(), domain.BirthDateQuery{
		From: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Page: 4611686018427387904,
		Size: 10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPage)
	assert.Zero(t, repo.lists)
}

func TestListByBirthDate_FiltersAndSorts(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	for i, birth := range []time.Time{
		time.Date(1980, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1992, 7, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		u, err := domain.NewUser(string(rune('a'+i))+"@example.com", "N", "L", birth)
		require.NoError(t, err)
		_, err = svc.Create(ctx, u)
		require.NoError(t, err)
	}

	users, err := svc.ListByBirthDate(ctx, domain.BirthDateQuery{
		From: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		Size: 10,
		Sort: []domain.SortField{{Field: domain.SortByBirthDate, Descending: true}},
	})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "d@example.com", users[0].Email)
	assert.Equal(t, "c@example.com", users[1].Email)
	assert.Equal(t, "b@example.com", users[2].Email)
	assert.Equal(t, 1, repo.lists)
}

func TestCreate_StorageFailurePassesThrough(t *testing.T) {
	repo := newCountingRepo()
	repo.saveErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), newVlad(t))
	require.EqualError(t, err, "connection reset")
	require.NotErrorIs(t, err, ErrInvalidInput)
	require.NotErrorIs(t, err, ErrConflict)
}
