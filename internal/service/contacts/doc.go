// Package contacts implements the unified contact identity service.
//
// A contact is the single record for an email address shared across the
// waitlist and provider-sync concerns. The service resolves emails to
// contacts (creating them on first sight), owns the unsubscribe token
// lifecycle, and applies the state mutations driven by unsubscribe
// links and provider webhooks.
//
// The service layer depends only on the Repository interface defined in
// repository.go. It never imports net/http or database/sql.
package contacts
