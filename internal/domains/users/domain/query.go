package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Sortable fields, named as they appear on the wire.
const (
	SortByID        = "id"
	SortByEmail     = "email"
	SortByFirstName = "firstName"
	SortByLastName  = "lastName"
	SortByBirthDate = "birthDate"
)

var (
	ErrInvalidDateRange = errors.New(`"from" date should not be after "to" date`)
	ErrInvalidPage      = errors.New("page must be zero or positive and within range")
	ErrInvalidPageSize  = errors.New("page size must be between 1 and 100")
	ErrInvalidSort      = errors.New("invalid sort field")
)

var sortable = map[string]struct{}{
	SortByID:        {},
	SortByEmail:     {},
	SortByFirstName: {},
	SortByLastName:  {},
	SortByBirthDate: {},
}

// SortField orders results by a single field.
type SortField struct {
	Field      string
	Descending bool
}

// BirthDateQuery selects users born within [From, To], one page at a time.
type BirthDateQuery struct {
	From time.Time
	To   time.Time
	Page int
	Size int
	Sort []SortField
}

// Validate checks the range, paging and sort fields.
func (q BirthDateQuery) Validate() error {
	if DateOf(q.From).After(DateOf(q.To)) {
		return ErrInvalidDateRange
	}
	if q.Page < 0 {
		return ErrInvalidPage
	}
	if q.Size < 1 || q.Size > MaxPageSize {
		return ErrInvalidPageSize
	}
	if q.Page > math.MaxInt/q.Size {
		return ErrInvalidPage
	}
	for _, s := range q.Sort {
		if _, ok := sortable[s.Field]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSort, s.Field)
		}
	}
	return nil
}

// Offset returns the number of rows to skip.
func (q BirthDateQuery) Offset() int {
	return q.Page * q.Size
}

// Ordering returns the sort fields with an ascending id tie-break appended
// unless id is already among them.
func (q BirthDateQuery) Ordering() []SortField {
	out := make([]SortField, 0, len(q.Sort)+1)
	hasID := false
	for _, s := range q.Sort {
		if s.Field == SortByID {
			hasID = true
		}
		out = append(out, s)
	}
	if !hasID {
		out = append(out, SortField{Field: SortByID})
	}
	return out
}

// ParseSort reads a comma separated list of "field" or "field:asc|desc".
// An empty expression sorts by id.
func ParseSort(expr string) ([]SortField, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return []SortField{{Field: SortByID}}, nil
	}
	var fields []SortField
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, _ := strings.Cut(part, ":")
		field := SortField{Field: strings.TrimSpace(name)}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			field.Descending = true
		default:
			return nil, fmt.Errorf("%w: direction %q", ErrInvalidSort, dir)
		}
		if _, ok := sortable[field.Field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, field.Field)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return []SortField{{Field: SortByID}}, nil
	}
	return fields, nil
}
