package repository

import (
	"context"

	"github.com/contactdeck/contactdeck/internal/domain"
)

type ContactRepository interface {
	// Create persists a new contact. Returns domain.ErrDuplicateContact when
	// one of the (owner, phone) / (owner, email) unique constraints rejects
	// the write.
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	// HasDuplicate reports whether the owner already has another contact with
	// the given phone or email. excludeID, when non-empty, is left out of the
	// check (the contact being updated).
	HasDuplicate(ctx context.Context, ownerID, phone, email, excludeID string) (bool, error)
	List(ctx context.Context, ownerID string, q domain.ContactQuery) ([]*domain.Contact, int64, error)
	Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
