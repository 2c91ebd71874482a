package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/user-management-api/internal/domains/users/domain"
	"github.com/Apurer/user-management-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

const uniqueViolation = "23505"

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB
// lifecycle and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Email       string    `gorm:"column:email;uniqueIndex;not null"`
	FirstName   string    `gorm:"column:first_name;not null"`
	LastName    string    `gorm:"column:last_name;not null"`
	BirthDate   time.Time `gorm:"column:birth_date;type:date;index;not null"`
	Address     *string   `gorm:"column:address"`
	PhoneNumber *string   `gorm:"column:phone_number"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

var sortColumns = map[string]string{
	domain.SortByID:        "id",
	domain.SortByEmail:     "email",
	domain.SortByFirstName: "first_name",
	domain.SortByLastName:  "last_name",
	domain.SortByBirthDate: "birth_date",
}

// Save inserts a user without an id and updates an existing one otherwise.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(&clone)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, translateError(err)
		}
		return record.toDomain(), nil
	}
	result := r.db.WithContext(ctx).
		Model(&record).
		Select("email", "first_name", "last_name", "birth_date", "address", "phone_number", "updated_at").
		Updates(&record)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return record.toDomain(), nil
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

// GetByEmail fetches a user by email, ignoring case.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	var record userRecord
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).Take(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

// ListByBirthDate returns one page of users born within the inclusive range.
func (r *Repository) ListByBirthDate(ctx context.Context, query domain.BirthDateQuery) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).
		Where("birth_date BETWEEN ? AND ?", domain.DateOf(query.From), domain.DateOf(query.To))
	for _, field := range query.Ordering() {
		column, ok := sortColumns[field.Field]
		if !ok {
			return nil, domain.ErrInvalidSort
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: field.Descending})
	}
	var records []userRecord
	if err := tx.Limit(query.Size).Offset(query.Offset()).Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

// Delete removes a user by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateEmail
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ports.ErrDuplicateEmail
	}
	return err
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:          user.ID,
		Email:       strings.TrimSpace(user.Email),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		BirthDate:   domain.DateOf(user.BirthDate),
		Address:     optional(user.Address),
		PhoneNumber: optional(user.PhoneNumber),
	}
}

func (r userRecord) toDomain() *domain.User {
	user := &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: domain.DateOf(r.BirthDate),
	}
	if r.Address != nil {
		user.Address = *r.Address
	}
	if r.PhoneNumber != nil {
		user.PhoneNumber = *r.PhoneNumber
	}
	return user
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
