// Package replay implements the replay-resistance store that sits behind
// HMAC verification: a set of recently-accepted digests, time-bounded by
// token_lifetime, where an insertion conflict signals a replay attempt
// (spec §4.6).
package replay

import "context"

// Result is the outcome of MarkCodeUsed.
type Result string

const (
	// ResultOK means code was not previously recorded and is now marked
	// used.
	ResultOK Result = "ok"

	// ResultConflict means code was already recorded and remains valid
	// replay evidence.
	ResultConflict Result = "conflict"
)

// Store is the contract shared by every replay store implementation
// (spec §4.6). Implementations must guarantee: once MarkCodeUsed(c)
// returns ResultOK, any subsequent call with the same c within
// token_lifetime returns ResultConflict.
type Store interface {
	// Setup prepares the store for use (opening connections, starting
	// background tasks). Called at most once before any MarkCodeUsed
	// call, or nested per ReentrantStore's counting discipline.
	Setup(ctx context.Context) error

	// Teardown releases everything Setup acquired.
	Teardown(ctx context.Context) error

	// MarkCodeUsed atomically records code as used, reporting whether
	// this is the first time it has been seen.
	MarkCodeUsed(ctx context.Context, code [64]byte) (Result, error)
}
