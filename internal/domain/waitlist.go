package domain

import "time"

// WaitlistEntry is a single signup record. Confirmation state lives
// here, separate from the Contact identity record.
type WaitlistEntry struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`

	// ContactID is nullable: rows created before the contacts system
	// existed have no link, and signups keep working when the contact
	// store is unavailable.
	ContactID *string `json:"contact_id" db:"contact_id"`

	Source string `json:"source" db:"source"`

	Confirmed   bool       `json:"confirmed" db:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at" db:"confirmed_at"`

	// ConfirmationToken is present only while the entry awaits
	// confirmation. Cleared on confirm; replaced wholesale on resend.
	ConfirmationToken *string    `json:"-" db:"confirmation_token"`
	TokenExpiresAt    *time.Time `json:"-" db:"token_expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenExpired reports whether the confirmation token has passed its
// expiry. An entry without an expiry never expires.
func (e *WaitlistEntry) TokenExpired(now time.Time) bool {
	return e.TokenExpiresAt != nil && e.TokenExpiresAt.Before(now)
}
