package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/service/waitlist"
)

// WaitlistRepo implements waitlist.Repository.
type WaitlistRepo struct{ db *sql.DB }

// NewWaitlistRepo creates a Postgres-backed waitlist repository.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

const waitlistColumns = `id, email, contact_id, source,
	confirmed, confirmed_at, confirmation_token, token_expires_at, created_at`

func (r *WaitlistRepo) FindByContactID(ctx context.Context, contactID string) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist WHERE contact_id = $1`,
		contactID,
	)
	return scanEntry(row)
}

func (r *WaitlistRepo) FindByEmail(ctx context.Context, emailNormalized string) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist WHERE LOWER(email) = $1`,
		emailNormalized,
	)
	return scanEntry(row)
}

func (r *WaitlistRepo) FindByConfirmationToken(ctx context.Context, token string) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist WHERE confirmation_token = $1`,
		token,
	)
	return scanEntry(row)
}

func scanEntry(row *sql.Row) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := row.Scan(
		&e.ID, &e.Email, &e.ContactID, &e.Source,
		&e.Confirmed, &e.ConfirmedAt, &e.ConfirmationToken, &e.TokenExpiresAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, waitlist.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts the entry. The unique index on LOWER(email) settles
// the concurrent-signup race: the loser gets ErrDuplicate.
func (r *WaitlistRepo) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO waitlist
			(id, email, contact_id, source, confirmed, confirmed_at, confirmation_token, token_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`, e.ID, e.Email, e.ContactID, e.Source, e.Confirmed, e.ConfirmedAt, e.ConfirmationToken, e.TokenExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return waitlist.ErrDuplicate
		}
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

func (r *WaitlistRepo) ReplaceConfirmationToken(ctx context.Context, entryID, token string, expiresAt time.Time, contactID *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE waitlist
		SET confirmation_token = $2,
		    token_expires_at = $3,
		    contact_id = COALESCE($4, contact_id)
		WHERE id = $1
	`, entryID, token, expiresAt, contactID)
	if err != nil {
		return fmt.Errorf("replace confirmation token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return waitlist.ErrNotFound
	}
	return nil
}

func (r *WaitlistRepo) Confirm(ctx context.Context, entryID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE waitlist
		SET confirmed = true,
		    confirmed_at = $2,
		    confirmation_token = NULL,
		    token_expires_at = NULL
		WHERE id = $1
	`, entryID, at)
	if err != nil {
		return fmt.Errorf("confirm waitlist entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return waitlist.ErrNotFound
	}
	return nil
}
