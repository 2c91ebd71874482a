package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the users bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return err
	}
	// Emails are unique regardless of case.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))`).Error
}

// User schema mirrors the users Postgres adapter.
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
