package waitlist

import "errors"

// Sentinel errors for the waitlist service layer.
var (
	// ErrInvalidEmail means the submitted email failed validation.
	ErrInvalidEmail = errors.New("valid email is required")

	// ErrAlreadySubscribed means a confirmed entry (or any entry, with
	// double opt-in off) already exists for the email.
	ErrAlreadySubscribed = errors.New("already subscribed")

	// ErrNotFound means no entry matches the lookup key.
	ErrNotFound = errors.New("waitlist entry not found")

	// ErrDuplicate is returned by Create when another entry holds the
	// same email. Two concurrent first-signups race to insert; the
	// database uniqueness constraint picks the winner and the loser
	// surfaces as ErrAlreadySubscribed.
	ErrDuplicate = errors.New("duplicate waitlist entry")
)
