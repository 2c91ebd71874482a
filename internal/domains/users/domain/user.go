package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultAgeLimit is the minimum registration age in years.
	DefaultAgeLimit = 18
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
)

var (
	ErrEmptyEmail     = errors.New("email is required")
	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
	ErrEmptyBirthDate = errors.New("birth date is required")
	ErrUnderage       = errors.New("user is younger than the registration age limit")
)

// User represents a registered user.
type User struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Address     string
	PhoneNumber string
}

// NewUser builds a user ensuring required fields are present.
func NewUser(email, firstName, lastName string, birthDate time.Time) (*User, error) {
	user := &User{
		Email:     strings.TrimSpace(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		BirthDate: DateOf(birthDate),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateContact sets the optional contact fields.
func (u *User) UpdateContact(address, phone string) {
	u.Address = strings.TrimSpace(address)
	u.PhoneNumber = strings.TrimSpace(phone)
}

// Replace overwrites every mutable field with the values from other.
// The identifier is left untouched.
func (u *User) Replace(other *User) {
	u.Email = other.Email
	u.FirstName = other.FirstName
	u.LastName = other.LastName
	u.BirthDate = DateOf(other.BirthDate)
	u.Address = other.Address
	u.PhoneNumber = other.PhoneNumber
}

// Validate re-applies the required-field invariants.
func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.Email) == "":
		return ErrEmptyEmail
	case strings.TrimSpace(u.FirstName) == "":
		return ErrEmptyFirstName
	case strings.TrimSpace(u.LastName) == "":
		return ErrEmptyLastName
	case u.BirthDate.IsZero():
		return ErrEmptyBirthDate
	}
	return nil
}

// CheckEligibility reports ErrUnderage unless the user is at least ageLimit
// years old on the calendar day of now. Reaching the limit today counts.
func (u *User) CheckEligibility(now time.Time, ageLimit int) error {
	latest := yearsBefore(DateOf(now), ageLimit)
	if DateOf(u.BirthDate).After(latest) {
		return fmt.Errorf("%w (%d years)", ErrUnderage, ageLimit)
	}
	return nil
}

// yearsBefore moves t back by whole years. A day missing from the target
// month, such as Feb 29 in a common year, clamps to the month's last day.
func yearsBefore(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	y -= years
	if last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day(); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
