package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/pkg/emailutil"
	"github.com/ignite/waitlist-api/internal/pkg/logger"
	"github.com/ignite/waitlist-api/internal/pkg/token"
)

// UnsubscribeMethod records how an unsubscribe request identified the
// contact. Token is the authoritative form; a bare email parameter can
// be spoofed by a third party.
type UnsubscribeMethod string

const (
	MethodToken UnsubscribeMethod = "token"
	MethodEmail UnsubscribeMethod = "email"
)

// Service implements contact business logic. Safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a contacts service backed by the given repository.
// A nil repository puts the service in degraded mode: ResolveOrCreate
// returns (nil, nil) and mutations are no-ops.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveOrCreate maps an email to its contact, creating one on first
// sight. Existing contacts missing an unsubscribe token get one now
// (self-healing for legacy rows). Returns (nil, nil) when the contact
// store is unavailable; callers proceed without a contact.
func (s *Service) ResolveOrCreate(ctx context.Context, email string) (*domain.Contact, error) {
	if s.repo == nil {
		return nil, nil
	}
	normalized := emailutil.Normalize(email)

	existing, err := s.repo.FindByEmail(ctx, normalized)
	switch {
	case err == nil:
		if existing.UnsubscribeToken == "" {
			tok, err := token.Generate(token.DefaultBytes)
			if err != nil {
				return nil, fmt.Errorf("contacts: generating unsubscribe token: %w", err)
			}
			if err := s.repo.SetUnsubscribeToken(ctx, existing.ID, tok); err != nil {
				// Token heals on the next resolve; the contact is still usable.
				logger.Warn("unsubscribe token backfill failed", "contact_id", existing.ID, "error", err)
			} else {
				existing.UnsubscribeToken = tok
			}
		}
		return existing, nil
	case errors.Is(err, ErrUnavailable):
		return nil, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("contacts: lookup %s: %w", logger.RedactEmail(normalized), err)
	}

	tok, err := token.Generate(token.DefaultBytes)
	if err != nil {
		return nil, fmt.Errorf("contacts: generating unsubscribe token: %w", err)
	}
	now := time.Now().UTC()
	c := &domain.Contact{
		Email:            email,
		EmailNormalized:  normalized,
		UnsubscribeToken: tok,
		FirstSeenAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, nil
		}
		return nil, fmt.Errorf("contacts: create: %w", err)
	}
	return c, nil
}

// MarkVerified flips email_verified for a confirmed signup. contactID
// is preferred; a normalized email lookup is the fallback for entries
// that predate the contacts link.
func (s *Service) MarkVerified(ctx context.Context, contactID, email string, at time.Time) error {
	if s.repo == nil {
		return nil
	}
	if contactID != "" {
		return s.repo.MarkVerified(ctx, contactID, at)
	}
	return s.repo.MarkVerifiedByEmail(ctx, emailutil.Normalize(email), at)
}

// UnsubscribeTokenFor returns the unsubscribe token for an email, or ""
// when the contact cannot be resolved.
func (s *Service) UnsubscribeTokenFor(ctx context.Context, email string) string {
	if s.repo == nil {
		return ""
	}
	c, err := s.repo.FindByEmail(ctx, emailutil.Normalize(email))
	if err != nil {
		return ""
	}
	return c.UnsubscribeToken
}

// Unsubscribe flips email_unsubscribed for the contact identified by
// token (preferred) or email. Idempotent: unsubscribing an already
// unsubscribed contact, or one that does not exist, is a success.
// The activity trail write is best-effort.
func (s *Service) Unsubscribe(ctx context.Context, tok, email string) error {
	if tok == "" && email == "" {
		return ErrMissingParams
	}
	if s.repo == nil {
		return nil
	}

	now := time.Now().UTC()
	method := MethodToken
	var err error
	if tok != "" {
		err = s.repo.MarkUnsubscribedByToken(ctx, tok, now)
	} else {
		method = MethodEmail
		err = s.repo.MarkUnsubscribed(ctx, emailutil.Normalize(email), now)
	}
	if err != nil {
		return fmt.Errorf("contacts: unsubscribe: %w", err)
	}

	s.logUnsubscribeActivity(ctx, tok, email, method, now)
	return nil
}

func (s *Service) logUnsubscribeActivity(ctx context.Context, tok, email string, method UnsubscribeMethod, at time.Time) {
	var c *domain.Contact
	var err error
	if method == MethodToken {
		c, err = s.repo.FindByUnsubscribeToken(ctx, tok)
	} else {
		c, err = s.repo.FindByEmail(ctx, emailutil.Normalize(email))
	}
	if err != nil || c == nil {
		return
	}
	s.LogActivity(ctx, c.ID, domain.ActivityEmailUnsubscribed, map[string]any{
		"method":          string(method),
		"unsubscribed_at": at.Format(time.RFC3339),
	})
}

// MarkUnsubscribed flips email_unsubscribed by normalized email.
// Used by webhook reconciliation (complaints, provider unsubscribes).
func (s *Service) MarkUnsubscribed(ctx context.Context, email string, at time.Time) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.MarkUnsubscribed(ctx, emailutil.Normalize(email), at)
}

// MarkBounced flips email_bounced by normalized email.
func (s *Service) MarkBounced(ctx context.Context, email string, at time.Time) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.MarkBounced(ctx, emailutil.Normalize(email), at)
}

// LogActivityByEmail resolves the contact for email and appends an
// activity record. Best-effort: failures are logged and swallowed.
func (s *Service) LogActivityByEmail(ctx context.Context, email string, t domain.ActivityType, data map[string]any) {
	if s.repo == nil {
		return
	}
	c, err := s.repo.FindByEmail(ctx, emailutil.Normalize(email))
	if err != nil || c == nil {
		return
	}
	s.LogActivity(ctx, c.ID, t, data)
}

// LogActivity appends an activity record for a known contact ID.
// Best-effort: the trail is an audit aid, never required for
// correctness.
func (s *Service) LogActivity(ctx context.Context, contactID string, t domain.ActivityType, data map[string]any) {
	if s.repo == nil {
		return
	}
	err := s.repo.LogActivity(ctx, &domain.ContactActivity{
		ContactID:    contactID,
		ActivityType: t,
		ActivityData: data,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Debug("activity log skipped", "contact_id", contactID, "type", string(t), "error", err)
	}
}
