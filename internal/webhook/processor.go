package webhook

import (
	"context"
	"time"

	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/pkg/logger"
	"github.com/ignite/waitlist-api/internal/service/contacts"
)

// Processor applies provider events to the contact store. Every event
// is acknowledged regardless of processing outcome; the provider must
// not retry events we have already seen and logged.
type Processor struct {
	contacts *contacts.Service
}

// NewProcessor creates a processor over the contacts service.
func NewProcessor(svc *contacts.Service) *Processor {
	return &Processor{contacts: svc}
}

// Process routes one event. Errors are logged, never returned: state
// reconciliation is best-effort and the webhook always acknowledges.
func (p *Processor) Process(ctx context.Context, ev *Event) {
	email := ev.EmailAddress()
	if email == "" {
		logger.Info("Webhook event without email skipped", "type", ev.Type)
		return
	}

	now := time.Now().UTC()
	logger.Info("Webhook event received", "type", ev.Type, "email", email)

	switch ev.Type {
	case EventEmailBounced:
		if err := p.contacts.MarkBounced(ctx, email, now); err != nil {
			logger.Error("Failed to mark contact bounced", "email", email, "error", err.Error())
		}
		data := map[string]any{"bounce_type": "unknown", "reason": ev.Data.Reason}
		if ev.Data.Bounce != nil {
			if ev.Data.Bounce.Type != "" {
				data["bounce_type"] = ev.Data.Bounce.Type
			}
			if ev.Data.Bounce.Message != "" {
				data["reason"] = ev.Data.Bounce.Message
			}
		}
		p.logActivity(ctx, email, domain.ActivityEmailBounced, data)

	case EventEmailComplained:
		// Spam complaints count as unsubscribes.
		if err := p.contacts.MarkUnsubscribed(ctx, email, now); err != nil {
			logger.Error("Failed to mark complained contact unsubscribed", "email", email, "error", err.Error())
		}
		p.logActivity(ctx, email, domain.ActivityEmailComplained, map[string]any{
			"complaint_type": "spam",
		})

	case EventContactUnsubscribed:
		if err := p.contacts.MarkUnsubscribed(ctx, email, now); err != nil {
			logger.Error("Failed to sync provider unsubscribe", "email", email, "error", err.Error())
		}
		p.logActivity(ctx, email, domain.ActivityEmailUnsubscribed, map[string]any{
			"method": "provider_unsubscribe_link",
		})

	case EventContactUpdated:
		if ev.Data.Contact != nil && ev.Data.Contact.Unsubscribed {
			if err := p.contacts.MarkUnsubscribed(ctx, email, now); err != nil {
				logger.Error("Failed to sync provider unsubscribe", "email", email, "error", err.Error())
			}
		}
		var unsubscribed any
		if ev.Data.Contact != nil {
			unsubscribed = ev.Data.Contact.Unsubscribed
		}
		p.logActivity(ctx, email, domain.ActivityProviderContactUpdated, map[string]any{
			"unsubscribed": unsubscribed,
		})

	case EventContactCreated:
		p.logActivity(ctx, email, domain.ActivityProviderContactCreated, map[string]any{})

	case EventContactDeleted:
		p.logActivity(ctx, email, domain.ActivityProviderContactDeleted, map[string]any{})

	case EventEmailSent, EventEmailDelivered, EventEmailOpened, EventEmailClicked:
		p.logActivity(ctx, email, deliveryActivityType(ev.Type), map[string]any{
			"email_id": ev.Data.EmailID,
			"subject":  ev.Data.Subject,
		})

	case EventEmailDelayed:
		p.logActivity(ctx, email, domain.ActivityEmailDeliveryDelayed, map[string]any{
			"reason": ev.Data.Reason,
		})

	default:
		logger.Info("Unknown webhook event type", "type", ev.Type)
	}
}

func deliveryActivityType(eventType string) domain.ActivityType {
	switch eventType {
	case EventEmailSent:
		return domain.ActivityEmailSent
	case EventEmailDelivered:
		return domain.ActivityEmailDelivered
	case EventEmailOpened:
		return domain.ActivityEmailOpened
	default:
		return domain.ActivityEmailClicked
	}
}

func (p *Processor) logActivity(ctx context.Context, email string, t domain.ActivityType, data map[string]any) {
	data["source"] = "provider_webhook"
	data["received_at"] = time.Now().UTC().Format(time.RFC3339)
	p.contacts.LogActivityByEmail(ctx, email, t, data)
}
