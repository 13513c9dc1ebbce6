package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ContactUsecase struct {
	repo repository.ContactRepository
}

func NewContactUsecase(repo repository.ContactRepository) *ContactUsecase {
	return &ContactUsecase{repo: repo}
}

type CreateContactInput struct {
	OwnerID string
	Name    string
	Phone   string
	Email   string
	Notes   *string
}

// Create persists a contact owned by the caller. The HasDuplicate pre-check
// gives a friendly conflict before the write; the store's unique indexes
// catch whatever it misses under concurrency.
func (u *ContactUsecase) Create(ctx context.Context, input CreateContactInput) (*domain.Contact, error) {
	dup, err := u.repo.HasDuplicate(ctx, input.OwnerID, input.Phone, input.Email, "")
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, domain.ErrDuplicateContact
	}

	contact := &domain.Contact{
		OwnerID: input.OwnerID,
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Notes:   derefNotes(input.Notes),
	}

	created, err := u.repo.Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

type ListContactsInput struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string
}

func (u *ContactUsecase) List(ctx context.Context, ownerID string, input ListContactsInput) (*domain.ContactPage, error) {
	q := domain.ContactQuery{
		Page:   input.Page,
		Limit:  input.Limit,
		Search: input.Search,
		SortBy: domain.ParseSortField(input.SortBy),
		Order:  domain.ParseSortOrder(input.Order),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	items, total, err := u.repo.List(ctx, ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return &domain.ContactPage{
		Items: items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (u *ContactUsecase) Get(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	contact, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.OwnerID != ownerID {
		return nil, domain.ErrContactForbidden
	}
	return contact, nil
}

type UpdateContactInput struct {
	OwnerID string
	ID      string
	Name    string
	Phone   string
	Email   string
	Notes   *string
}

// Update is a full replace: all four mutable fields are overwritten, and an
// omitted notes field clears the stored value.
func (u *ContactUsecase) Update(ctx context.Context, input UpdateContactInput) (*domain.Contact, error) {
	contact, err := u.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if contact.OwnerID != input.OwnerID {
		return nil, domain.ErrContactForbidden
	}

	dup, err := u.repo.HasDuplicate(ctx, input.OwnerID, input.Phone, input.Email, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, domain.ErrDuplicateContact
	}

	contact.Name = input.Name
	contact.Phone = input.Phone
	contact.Email = input.Email
	contact.Notes = derefNotes(input.Notes)

	updated, err := u.repo.Update(ctx, contact)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *ContactUsecase) Delete(ctx context.Context, ownerID, id string) error {
	contact, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if contact.OwnerID != ownerID {
		return domain.ErrContactForbidden
	}
	return u.repo.Delete(ctx, id)
}

func derefNotes(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}
