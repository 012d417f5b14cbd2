package contacts

import "errors"

// Sentinel errors for the contacts service layer.
var (
	// ErrNotFound means no contact matches the lookup key.
	ErrNotFound = errors.New("contact not found")

	// ErrUnavailable means the contact store is absent or not
	// provisioned. Callers treat this as degraded mode, not failure:
	// signups keep working without a contact record.
	ErrUnavailable = errors.New("contact store unavailable")

	// ErrMissingParams means an unsubscribe request carried neither a
	// token nor an email.
	ErrMissingParams = errors.New("token or email required")
)
