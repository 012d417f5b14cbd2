package domain

import "time"

// ActivityType tags an entry in the contact activity trail.
type ActivityType string

const (
	ActivityEmailUnsubscribed    ActivityType = "email_unsubscribed"
	ActivityEmailBounced         ActivityType = "email_bounced"
	ActivityEmailComplained      ActivityType = "email_complained"
	ActivityEmailSent            ActivityType = "email_sent"
	ActivityEmailDelivered       ActivityType = "email_delivered"
	ActivityEmailOpened          ActivityType = "email_opened"
	ActivityEmailClicked         ActivityType = "email_clicked"
	ActivityEmailDeliveryDelayed ActivityType = "email_delivery_delayed"
	ActivityProviderContactCreated ActivityType = "provider_contact_created"
	ActivityProviderContactUpdated ActivityType = "provider_contact_updated"
	ActivityProviderContactDeleted ActivityType = "provider_contact_deleted"
)

// ContactActivity is an append-only audit record. Writes are
// best-effort everywhere: a failed insert never fails the operation
// that produced it.
type ContactActivity struct {
	ID           string         `json:"id" db:"id"`
	ContactID    string         `json:"contact_id" db:"contact_id"`
	ActivityType ActivityType   `json:"activity_type" db:"activity_type"`
	ActivityData map[string]any `json:"activity_data" db:"activity_data"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
