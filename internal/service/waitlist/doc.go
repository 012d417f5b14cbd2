// Package waitlist implements the signup and confirmation workflows.
//
// Signup creates or refreshes a waitlist entry and, with double opt-in
// enabled, issues a 24-hour confirmation token. Confirmation consumes
// that token exactly once. Email delivery is always best-effort: the
// stored entry is the source of truth, not the inbox.
//
// The service depends on the Repository interface in repository.go, the
// contacts service, and the EmailSender interface. It never imports
// net/http or database/sql.
package waitlist
