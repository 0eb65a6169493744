package chat

import "errors"

// Sentinel errors for the failure taxonomy. Transport failures are
// wrapped dynamically; everything here is checked with errors.Is.
var (
	// ErrBusy: a generation is already in flight for this session.
	ErrBusy = errors.New("generation already in progress")

	// ErrUnauthenticated: no credential available; surfaced before any
	// log mutation.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound: no message with the given id in this session.
	ErrNotFound = errors.New("message not found")

	// ErrNotUserMessage: the operation requires a user-authored message.
	ErrNotUserMessage = errors.New("not a user message")
)
