// Package domain holds the shared data model: contacts, waitlist
// entries, and the contact activity trail. Types here carry no behavior
// beyond small derived accessors; all state transitions live in the
// service packages.
package domain
