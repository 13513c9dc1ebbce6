package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{col: db.db.Collection(contactsCollection)}
}

type contactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedBy string             `bson:"created_by"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Email     string             `bson:"email"`
	Notes     string             `bson:"notes"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *contactDoc) toDomain() *domain.Contact {
	return &domain.Contact{
		ID:        d.ID.Hex(),
		OwnerID:   d.CreatedBy,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// sortKeys maps the domain sort fields to bson field names.
var sortKeys = map[domain.SortField]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortName:      "name",
	domain.SortEmail:     "email",
	domain.SortPhone:     "phone",
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	now := time.Now().UTC()
	doc := contactDoc{
		ID:        primitive.NewObjectID(),
		CreatedBy: contact.OwnerID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		Email:     contact.Email,
		Notes:     contact.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateContact
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrContactNotFound
	}

	var doc contactDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContactRepository) HasDuplicate(ctx context.Context, ownerID, phone, email, excludeID string) (bool, error) {
	filter := bson.M{
		"created_by": ownerID,
		"$or":        []bson.M{{"phone": phone}, {"email": email}},
	}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, domain.ErrContactNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	err := r.col.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("check duplicate contact: %w", err)
	}
	return true, nil
}

func (r *ContactRepository) List(ctx context.Context, ownerID string, q domain.ContactQuery) ([]*domain.Contact, int64, error) {
	filter := bson.M{"created_by": ownerID}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = []bson.M{{"name": re}, {"email": re}, {"phone": re}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	order := -1
	if q.Order == domain.OrderAsc {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortKeys[q.SortBy], Value: order}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contactDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode contacts: %w", err)
	}

	items := make([]*domain.Contact, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(contact.ID)
	if err != nil {
		return nil, domain.ErrContactNotFound
	}

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       contact.Name,
		"phone":      contact.Phone,
		"email":      contact.Email,
		"notes":      contact.Notes,
		"updated_at": now,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateContact
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrContactNotFound
	}

	updated := *contact
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrContactNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
