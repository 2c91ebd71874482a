package domain

import (
	"strings"
	"time"
)

// Patch carries a sparse set of user fields. Nil or blank values are left
// untouched when applied.
type Patch struct {
	Email       *string
	FirstName   *string
	LastName    *string
	BirthDate   *time.Time
	Address     *string
	PhoneNumber *string
}

// Apply copies every supplied, non-blank field onto u.
func (p Patch) Apply(u *User) {
	setIfPresent(&u.Email, p.Email)
	setIfPresent(&u.FirstName, p.FirstName)
	setIfPresent(&u.LastName, p.LastName)
	setIfPresent(&u.Address, p.Address)
	setIfPresent(&u.PhoneNumber, p.PhoneNumber)
	if p.BirthDate != nil && !p.BirthDate.IsZero() {
		u.BirthDate = DateOf(*p.BirthDate)
	}
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return blank(p.Email) && blank(p.FirstName) && blank(p.LastName) &&
		blank(p.Address) && blank(p.PhoneNumber) &&
		(p.BirthDate == nil || p.BirthDate.IsZero())
}

func setIfPresent(dst *string, src *string) {
	if blank(src) {
		return
	}
	*dst = strings.TrimSpace(*src)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
