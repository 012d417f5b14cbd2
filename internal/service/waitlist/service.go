package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/pkg/emailutil"
	"github.com/ignite/waitlist-api/internal/pkg/logger"
	"github.com/ignite/waitlist-api/internal/pkg/token"
	"github.com/ignite/waitlist-api/internal/service/contacts"
)

// TokenTTL is how long a confirmation token stays valid.
const TokenTTL = 24 * time.Hour

// DefaultSource tags signups that arrive without an origin.
const DefaultSource = "website"

// Service implements the signup and confirmation workflows.
type Service struct {
	repo        Repository
	contacts    *contacts.Service
	mailer      EmailSender
	doubleOptIn bool
}

// NewService creates a waitlist service.
func NewService(repo Repository, contactsSvc *contacts.Service, mailer EmailSender, doubleOptIn bool) *Service {
	return &Service{
		repo:        repo,
		contacts:    contactsSvc,
		mailer:      mailer,
		doubleOptIn: doubleOptIn,
	}
}

// SignupRequest carries a validated-or-not signup submission.
type SignupRequest struct {
	Email  string
	Source string
}

// SignupResult reports what the signup did.
type SignupResult struct {
	// RequiresConfirmation is true when a confirmation email was sent
	// and the entry awaits the click.
	RequiresConfirmation bool

	// Resent is true when the signup refreshed an existing unconfirmed
	// entry instead of creating a new one.
	Resent bool
}

// Signup runs the subscription workflow: resolve the contact, find or
// create the entry, issue a confirmation token when double opt-in is
// on, and dispatch exactly one email. Email failures are logged, never
// returned; the stored entry is the source of truth.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	if !emailutil.IsValid(req.Email) {
		return nil, ErrInvalidEmail
	}
	normalized := emailutil.Normalize(req.Email)

	// A contact resolution failure degrades the signup (no unsubscribe
	// token in the welcome email) but never blocks it.
	contact, err := s.contacts.ResolveOrCreate(ctx, req.Email)
	if err != nil {
		logger.Warn("contact resolution failed, continuing without contact",
			"email", normalized, "error", err)
		contact = nil
	}

	existing, err := s.findExisting(ctx, contact, normalized)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("waitlist: lookup: %w", err)
	}

	if existing != nil {
		if s.doubleOptIn && !existing.Confirmed {
			return s.resendConfirmation(ctx, existing, contact, normalized)
		}
		return nil, ErrAlreadySubscribed
	}

	return s.createEntry(ctx, contact, normalized, req.Source)
}

func (s *Service) findExisting(ctx context.Context, contact *domain.Contact, normalized string) (*domain.WaitlistEntry, error) {
	if contact != nil {
		return s.repo.FindByContactID(ctx, contact.ID)
	}
	return s.repo.FindByEmail(ctx, normalized)
}

// resendConfirmation issues a fresh token for an unconfirmed entry,
// invalidating the previous one, and resends the confirmation email.
func (s *Service) resendConfirmation(ctx context.Context, entry *domain.WaitlistEntry, contact *domain.Contact, normalized string) (*SignupResult, error) {
	tok, err := token.Generate(token.DefaultBytes)
	if err != nil {
		return nil, fmt.Errorf("waitlist: generating confirmation token: %w", err)
	}
	expiresAt := time.Now().UTC().Add(TokenTTL)

	// Backfill the contact link while we hold the row anyway.
	var contactID *string
	if contact != nil && entry.ContactID == nil {
		contactID = &contact.ID
	}

	if err := s.repo.ReplaceConfirmationToken(ctx, entry.ID, tok, expiresAt, contactID); err != nil {
		return nil, fmt.Errorf("waitlist: replacing confirmation token: %w", err)
	}

	if err := s.mailer.SendConfirmation(ctx, normalized, tok); err != nil {
		logger.Error("confirmation email failed", "email", normalized, "error", err)
	}

	return &SignupResult{RequiresConfirmation: true, Resent: true}, nil
}

func (s *Service) createEntry(ctx context.Context, contact *domain.Contact, normalized, source string) (*SignupResult, error) {
	if source == "" {
		source = DefaultSource
	}

	entry := &domain.WaitlistEntry{
		Email:     normalized,
		Source:    source,
		Confirmed: !s.doubleOptIn,
		CreatedAt: time.Now().UTC(),
	}
	if contact != nil {
		entry.ContactID = &contact.ID
	}

	var confirmationToken string
	if s.doubleOptIn {
		tok, err := token.Generate(token.DefaultBytes)
		if err != nil {
			return nil, fmt.Errorf("waitlist: generating confirmation token: %w", err)
		}
		confirmationToken = tok
		expiresAt := time.Now().UTC().Add(TokenTTL)
		entry.ConfirmationToken = &confirmationToken
		entry.TokenExpiresAt = &expiresAt
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race against a concurrent signup for the same
			// email; the winner's entry stands.
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("waitlist: create: %w", err)
	}

	if s.doubleOptIn {
		if err := s.mailer.SendConfirmation(ctx, normalized, confirmationToken); err != nil {
			logger.Error("confirmation email failed", "email", normalized, "error", err)
		}
		return &SignupResult{RequiresConfirmation: true}, nil
	}

	unsubToken := ""
	if contact != nil {
		unsubToken = contact.UnsubscribeToken
	}
	if err := s.mailer.SendWelcome(ctx, normalized, unsubToken); err != nil {
		logger.Error("welcome email failed", "email", normalized, "error", err)
	}
	return &SignupResult{}, nil
}

// ConfirmOutcome enumerates where a confirmation attempt lands. Every
// outcome maps to a redirect at the HTTP layer.
type ConfirmOutcome string

const (
	OutcomeConfirmed        ConfirmOutcome = "confirmed"
	OutcomeAlreadyConfirmed ConfirmOutcome = "already_confirmed"
	OutcomeMissingToken     ConfirmOutcome = "missing_token"
	OutcomeInvalidToken     ConfirmOutcome = "invalid_token"
	OutcomeExpiredToken     ConfirmOutcome = "expired_token"
	OutcomeUpdateFailed     ConfirmOutcome = "update_failed"
	OutcomeServerError      ConfirmOutcome = "server_error"
)

// Confirm consumes a confirmation token. Idempotent from the user's
// point of view: re-clicking a used link reports already_confirmed.
// The contact verification step and the welcome email are best-effort;
// only the core confirm write can fail the operation.
func (s *Service) Confirm(ctx context.Context, tok string) ConfirmOutcome {
	if tok == "" {
		return OutcomeMissingToken
	}

	entry, err := s.repo.FindByConfirmationToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return OutcomeInvalidToken
		}
		logger.Error("confirmation lookup failed", "error", err)
		return OutcomeServerError
	}

	if entry.Confirmed {
		return OutcomeAlreadyConfirmed
	}

	now := time.Now().UTC()
	if entry.TokenExpired(now) {
		return OutcomeExpiredToken
	}

	if err := s.repo.Confirm(ctx, entry.ID, now); err != nil {
		logger.Error("confirm update failed", "entry_id", entry.ID, "error", err)
		return OutcomeUpdateFailed
	}

	// Best-effort from here on: the entry is confirmed regardless.
	contactID := ""
	if entry.ContactID != nil {
		contactID = *entry.ContactID
	}
	if err := s.contacts.MarkVerified(ctx, contactID, entry.Email, now); err != nil {
		logger.Warn("contact verification skipped", "email", entry.Email, "error", err)
	}

	unsubToken := s.contacts.UnsubscribeTokenFor(ctx, entry.Email)
	if err := s.mailer.SendWelcome(ctx, entry.Email, unsubToken); err != nil {
		logger.Error("welcome email failed", "email", entry.Email, "error", err)
	}

	return OutcomeConfirmed
}
