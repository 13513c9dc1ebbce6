package domain

import (
	"errors"
	"time"
)

var (
	ErrContactNotFound  = errors.New("contact not found")
	ErrContactForbidden = errors.New("contact belongs to another user")
	ErrDuplicateContact = errors.New("contact with same phone or email exists")
)

// Contact is owned by exactly one user; OwnerID never changes after creation.
type Contact struct {
	ID        string
	OwnerID   string
	Name      string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortName      SortField = "name"
	SortEmail     SortField = "email"
	SortPhone     SortField = "phone"
)

// ParseSortField whitelists sortable fields, falling back to creation time.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortUpdatedAt, SortName, SortEmail, SortPhone:
		return SortField(s)
	}
	return SortCreatedAt
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// ContactQuery carries normalized listing parameters. Page and Limit are
// already clamped by the caller.
type ContactQuery struct {
	Page   int
	Limit  int
	Search string
	SortBy SortField
	Order  SortOrder
}

func (q ContactQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type ContactPage struct {
	Items []*Contact
	Total int64
	Page  int
	Limit int
	Pages int
}
