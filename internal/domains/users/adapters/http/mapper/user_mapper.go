package mapper

import (
	"fmt"
	"strings"
	"time"

	userdomain "github.com/Apurer/user-management-api/internal/domains/users/domain"
)

// UserRequest is the payload of full create and replace calls.
type UserRequest struct {
	Email       string `json:"email" binding:"nonblank,email"`
	FirstName   string `json:"firstName" binding:"nonblank"`
	LastName    string `json:"lastName" binding:"nonblank"`
	BirthDate   string `json:"birthDate" binding:"nonblank,datetime=2006-01-02,pastdate"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber" binding:"phone"`
}

// UserPatchRequest is the payload of partial updates. Every field is optional.
type UserPatchRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	BirthDate   *string `json:"birthDate" binding:"omitempty,datetime=2006-01-02,pastdate"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
}

// UserResponse is the transport-level user representation.
type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Normalize drops blank fields so they are neither validated nor applied.
func (p *UserPatchRequest) Normalize() {
	for _, field := range []**string{&p.Email, &p.FirstName, &p.LastName, &p.BirthDate, &p.Address, &p.PhoneNumber} {
		if *field != nil && strings.TrimSpace(**field) == "" {
			*field = nil
		}
	}
}

// ParseDate reads a calendar date in wire format.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(userdomain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}

// ToDomainUser converts a transport user to its domain counterpart.
func ToDomainUser(req UserRequest) (*userdomain.User, error) {
	birthDate, err := ParseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	user, err := userdomain.NewUser(req.Email, req.FirstName, req.LastName, birthDate)
	if err != nil {
		return nil, err
	}
	user.UpdateContact(req.Address, req.PhoneNumber)
	return user, nil
}

// ToDomainPatch converts a partial payload into a domain patch.
func ToDomainPatch(req UserPatchRequest) (userdomain.Patch, error) {
	patch := userdomain.Patch{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	if req.BirthDate != nil {
		birthDate, err := ParseDate(*req.BirthDate)
		if err != nil {
			return userdomain.Patch{}, err
		}
		patch.BirthDate = &birthDate
	}
	return patch, nil
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		BirthDate:   user.BirthDate.Format(userdomain.DateLayout),
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
