// Package postgres implements the service repository interfaces
// against PostgreSQL via database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/service/contacts"
)

// pq error codes we map to sentinel errors.
const (
	pqUndefinedTable  = "42P01"
	pqUniqueViolation = "23505"
)

// ContactRepo implements contacts.Repository.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = `id, email, email_normalized, unsubscribe_token,
	email_verified, email_verified_at,
	email_unsubscribed, email_unsubscribed_at,
	email_bounced, email_bounced_at,
	metadata, first_seen_at, created_at, updated_at`

func (r *ContactRepo) FindByEmail(ctx context.Context, emailNormalized string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE email_normalized = $1`,
		emailNormalized,
	)
	return scanContact(row)
}

func (r *ContactRepo) FindByUnsubscribeToken(ctx context.Context, token string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE unsubscribe_token = $1`,
		token,
	)
	return scanContact(row)
}

func scanContact(row *sql.Row) (*domain.Contact, error) {
	var c domain.Contact
	var token sql.NullString
	var metadata []byte
	err := row.Scan(
		&c.ID, &c.Email, &c.EmailNormalized, &token,
		&c.EmailVerified, &c.EmailVerifiedAt,
		&c.EmailUnsubscribed, &c.EmailUnsubscribedAt,
		&c.EmailBounced, &c.EmailBouncedAt,
		&metadata, &c.FirstSeenAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapContactErr(err)
	}
	c.UnsubscribeToken = token.String
	if len(metadata) > 0 {
		// Corrupt metadata is not worth failing a lookup over.
		_ = json.Unmarshal(metadata, &c.Metadata)
	}
	return &c, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("marshal contact metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO contacts
			(id, email, email_normalized, unsubscribe_token, metadata, first_seen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, c.ID, c.Email, c.EmailNormalized, c.UnsubscribeToken, metadata, c.FirstSeenAt)
	if err != nil {
		return mapContactErr(fmt.Errorf("insert contact: %w", err))
	}
	return nil
}

func (r *ContactRepo) SetUnsubscribeToken(ctx context.Context, contactID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET unsubscribe_token = $2, updated_at = NOW() WHERE id = $1`,
		contactID, token,
	)
	if err != nil {
		return fmt.Errorf("set unsubscribe token: %w", err)
	}
	return nil
}

func (r *ContactRepo) MarkVerified(ctx context.Context, contactID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET email_verified = true, email_verified_at = $2, updated_at = $2
		WHERE id = $1
	`, contactID, at)
	if err != nil {
		return mapContactErr(fmt.Errorf("mark verified: %w", err))
	}
	return nil
}

func (r *ContactRepo) MarkVerifiedByEmail(ctx context.Context, emailNormalized string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET email_verified = true, email_verified_at = $2, updated_at = $2
		WHERE email_normalized = $1
	`, emailNormalized, at)
	if err != nil {
		return mapContactErr(fmt.Errorf("mark verified by email: %w", err))
	}
	return nil
}

// MarkUnsubscribed updates zero or one row; zero matches is success by
// design (no distinguishable not-found branch on unsubscribe).
func (r *ContactRepo) MarkUnsubscribed(ctx context.Context, emailNormalized string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET email_unsubscribed = true, email_unsubscribed_at = $2, updated_at = $2
		WHERE email_normalized = $1
	`, emailNormalized, at)
	if err != nil {
		return mapContactErr(fmt.Errorf("mark unsubscribed: %w", err))
	}
	return nil
}

func (r *ContactRepo) MarkUnsubscribedByToken(ctx context.Context, token string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET email_unsubscribed = true, email_unsubscribed_at = $2, updated_at = $2
		WHERE unsubscribe_token = $1
	`, token, at)
	if err != nil {
		return mapContactErr(fmt.Errorf("mark unsubscribed by token: %w", err))
	}
	return nil
}

func (r *ContactRepo) MarkBounced(ctx context.Context, emailNormalized string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET email_bounced = true, email_bounced_at = $2, updated_at = $2
		WHERE email_normalized = $1
	`, emailNormalized, at)
	if err != nil {
		return mapContactErr(fmt.Errorf("mark bounced: %w", err))
	}
	return nil
}

func (r *ContactRepo) LogActivity(ctx context.Context, a *domain.ContactActivity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	data, err := json.Marshal(a.ActivityData)
	if err != nil {
		return fmt.Errorf("marshal activity data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO contact_activity (id, contact_id, activity_type, activity_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.ContactID, a.ActivityType, data, a.CreatedAt)
	if err != nil {
		return mapContactErr(fmt.Errorf("insert activity: %w", err))
	}
	return nil
}

// mapContactErr translates driver errors into service sentinels. A
// missing contacts table means the store is simply not provisioned:
// the service runs in degraded mode instead of erroring.
func mapContactErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return contacts.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUndefinedTable {
		return contacts.ErrUnavailable
	}
	return err
}
