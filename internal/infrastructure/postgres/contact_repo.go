package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// sortColumns maps the domain sort fields to column names. Only whitelisted
// values ever reach the ORDER BY clause.
var sortColumns = map[domain.SortField]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortName:      "name",
	domain.SortEmail:     "email",
	domain.SortPhone:     "phone",
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	query := `
		INSERT INTO contacts (id, created_by, name, phone, email, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_by, name, phone, email, notes, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		contact.OwnerID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Notes,
	)

	created, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateContact
		}
		return nil, err
	}
	return created, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrContactNotFound
	}

	query := `
		SELECT id, created_by, name, phone, email, notes, created_at, updated_at
		FROM contacts
		WHERE id = $1`

	return scanContact(r.pool.QueryRow(ctx, query, id))
}

func (r *ContactRepository) HasDuplicate(ctx context.Context, ownerID, phone, email, excludeID string) (bool, error) {
	var exclude any
	if excludeID != "" {
		if _, err := uuid.Parse(excludeID); err != nil {
			return false, domain.ErrContactNotFound
		}
		exclude = excludeID
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM contacts
			WHERE created_by = $1
			  AND (phone = $2 OR email = $3)
			  AND ($4::uuid IS NULL OR id <> $4::uuid)
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ownerID, phone, email, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("check duplicate contact: %w", err)
	}
	return exists, nil
}

func (r *ContactRepository) List(ctx context.Context, ownerID string, q domain.ContactQuery) ([]*domain.Contact, int64, error) {
	where := "created_by = $1"
	args := []any{ownerID}
	if q.Search != "" {
		where += " AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)"
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM contacts WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	dir := "DESC"
	if q.Order == domain.OrderAsc {
		dir = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT id, created_by, name, phone, email, notes, created_at, updated_at
		FROM contacts
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		where, sortColumns[q.SortBy], dir, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var items []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	if items == nil {
		items = []*domain.Contact{}
	}
	return items, total, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	query := `
		UPDATE contacts
		SET name = $1, phone = $2, email = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, created_by, name, phone, email, notes, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Notes,
		contact.ID,
	)

	updated, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateContact
		}
		return nil, err
	}
	return updated, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrContactNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}

// escapeLike neutralizes LIKE wildcards so search behaves as a plain
// substring match.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
