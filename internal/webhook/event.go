// Package webhook processes inbound events from the email provider,
// reconciling bounce, complaint, and unsubscribe state into the
// contact store.
package webhook

// Event types the processor understands. Anything else is logged and
// acknowledged.
const (
	EventEmailBounced        = "email.bounced"
	EventEmailComplained     = "email.complained"
	EventEmailSent           = "email.sent"
	EventEmailDelivered      = "email.delivered"
	EventEmailOpened         = "email.opened"
	EventEmailClicked        = "email.clicked"
	EventEmailDelayed        = "email.delivery_delayed"
	EventContactCreated      = "contact.created"
	EventContactUpdated      = "contact.updated"
	EventContactDeleted      = "contact.deleted"
	EventContactUnsubscribed = "contact.unsubscribed"
)

// Event is the provider's webhook envelope.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData carries the union of fields across event types. The
// provider puts the address in different places depending on the
// event.
type EventData struct {
	To      []string     `json:"to"`
	Email   string       `json:"email"`
	Contact *ContactData `json:"contact"`
	Bounce  *BounceData  `json:"bounce"`
	Reason  string       `json:"reason"`
	EmailID string       `json:"email_id"`
	Subject string       `json:"subject"`
}

// ContactData is the contact payload on contact.* events.
type ContactData struct {
	Email        string `json:"email"`
	Unsubscribed bool   `json:"unsubscribed"`
}

// BounceData is the bounce detail on email.bounced events.
type BounceData struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EmailAddress extracts the subject address, checking the recipient
// list first, then the flat email field, then the contact payload.
func (e *Event) EmailAddress() string {
	if len(e.Data.To) > 0 && e.Data.To[0] != "" {
		return e.Data.To[0]
	}
	if e.Data.Email != "" {
		return e.Data.Email
	}
	if e.Data.Contact != nil {
		return e.Data.Contact.Email
	}
	return ""
}
