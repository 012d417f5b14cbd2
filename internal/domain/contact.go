package domain

import "time"

// Contact is the canonical identity record for an email address. One
// contact exists per normalized email; waitlist entries reference it.
type Contact struct {
	ID              string `json:"id" db:"id"`
	Email           string `json:"email" db:"email"`
	EmailNormalized string `json:"email_normalized" db:"email_normalized"`

	// UnsubscribeToken is assigned once at creation and never rotated.
	// It backs the one-click unsubscribe link in every email.
	UnsubscribeToken string `json:"-" db:"unsubscribe_token"`

	EmailVerified     bool       `json:"email_verified" db:"email_verified"`
	EmailVerifiedAt   *time.Time `json:"email_verified_at" db:"email_verified_at"`
	EmailUnsubscribed bool       `json:"email_unsubscribed" db:"email_unsubscribed"`
	EmailUnsubscribedAt *time.Time `json:"email_unsubscribed_at" db:"email_unsubscribed_at"`
	EmailBounced      bool       `json:"email_bounced" db:"email_bounced"`
	EmailBouncedAt    *time.Time `json:"email_bounced_at" db:"email_bounced_at"`

	// Metadata holds optional free-form attributes (first/last name etc.).
	Metadata map[string]any `json:"metadata,omitempty" db:"metadata"`

	FirstSeenAt time.Time `json:"first_seen_at" db:"first_seen_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
