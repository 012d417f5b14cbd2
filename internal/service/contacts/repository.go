package contacts

import (
	"context"
	"time"

	"github.com/ignite/waitlist-api/internal/domain"
)

// Repository defines the data access contract for contacts.
//
// Lookup methods return ErrNotFound when no row matches and
// ErrUnavailable when the backing store is not provisioned. Mark*
// methods are idempotent: updating zero rows is not an error.
type Repository interface {
	// FindByEmail looks up a contact by normalized email.
	FindByEmail(ctx context.Context, emailNormalized string) (*domain.Contact, error)

	// FindByUnsubscribeToken looks up a contact by its unsubscribe token.
	FindByUnsubscribeToken(ctx context.Context, token string) (*domain.Contact, error)

	// Create inserts a new contact. The caller provides ID, tokens and
	// timestamps.
	Create(ctx context.Context, c *domain.Contact) error

	// SetUnsubscribeToken assigns a token to a legacy contact missing one.
	SetUnsubscribeToken(ctx context.Context, contactID, token string) error

	// MarkVerified flips email_verified by contact ID.
	MarkVerified(ctx context.Context, contactID string, at time.Time) error

	// MarkVerifiedByEmail flips email_verified by normalized email.
	MarkVerifiedByEmail(ctx context.Context, emailNormalized string, at time.Time) error

	// MarkUnsubscribed flips email_unsubscribed by normalized email.
	MarkUnsubscribed(ctx context.Context, emailNormalized string, at time.Time) error

	// MarkUnsubscribedByToken flips email_unsubscribed by unsubscribe token.
	MarkUnsubscribedByToken(ctx context.Context, token string, at time.Time) error

	// MarkBounced flips email_bounced by normalized email.
	MarkBounced(ctx context.Context, emailNormalized string, at time.Time) error

	// LogActivity appends to the contact activity trail.
	LogActivity(ctx context.Context, a *domain.ContactActivity) error
}
