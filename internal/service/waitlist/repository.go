package waitlist

import (
	"context"
	"time"

	"github.com/ignite/waitlist-api/internal/domain"
)

// Repository defines the data access contract for waitlist entries.
// Lookup methods return ErrNotFound when no row matches.
type Repository interface {
	// FindByContactID looks up an entry by its contact link.
	FindByContactID(ctx context.Context, contactID string) (*domain.WaitlistEntry, error)

	// FindByEmail looks up an entry by normalized email. Fallback for
	// entries with no contact link.
	FindByEmail(ctx context.Context, emailNormalized string) (*domain.WaitlistEntry, error)

	// FindByConfirmationToken looks up an entry holding the given
	// confirmation token.
	FindByConfirmationToken(ctx context.Context, token string) (*domain.WaitlistEntry, error)

	// Create inserts a new entry. Returns ErrDuplicate when the email
	// already has one.
	Create(ctx context.Context, e *domain.WaitlistEntry) error

	// ReplaceConfirmationToken swaps in a fresh token and expiry,
	// invalidating whatever token the entry held before. contactID, if
	// non-nil, backfills a missing contact link on the same write.
	ReplaceConfirmationToken(ctx context.Context, entryID, token string, expiresAt time.Time, contactID *string) error

	// Confirm marks the entry confirmed and clears the token and its
	// expiry in the same write (single-use token).
	Confirm(ctx context.Context, entryID string, at time.Time) error
}

// EmailSender dispatches the transactional emails the workflows
// trigger. Implementations must not block on template issues; only
// transport errors are returned, and callers treat even those as
// non-fatal.
type EmailSender interface {
	// SendConfirmation delivers the double opt-in confirmation email
	// containing the tokenized confirm link.
	SendConfirmation(ctx context.Context, email, confirmationToken string) error

	// SendWelcome delivers the welcome email. unsubscribeToken may be
	// empty; implementations fall back to an email-based unsubscribe
	// link.
	SendWelcome(ctx context.Context, email, unsubscribeToken string) error
}
