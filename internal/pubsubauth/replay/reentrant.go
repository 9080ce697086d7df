package replay

import (
	"context"
	"errors"
	"sync"
)

// ErrNotSetUp is returned by Teardown when called without a matching
// outstanding Setup.
var ErrNotSetUp = errors.New("replay: teardown without matching setup")

// ReentrantStore wraps a delegate Store so multiple auth objects can share
// it: nested Setup/Teardown calls are counted and only the outermost pair
// reaches the delegate. A single mutex covers only the lifecycle path;
// MarkCodeUsed is forwarded directly, unguarded, since the delegate is
// responsible for its own concurrency discipline (spec §4.6, §5).
type ReentrantStore struct {
	delegate Store

	mu    sync.Mutex
	depth int
}

// NewReentrantStore wraps delegate.
func NewReentrantStore(delegate Store) *ReentrantStore {
	return &ReentrantStore{delegate: delegate}
}

// Setup increments the depth counter, calling the delegate's Setup only on
// the outermost call.
func (s *ReentrantStore) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth++
	if s.depth == 1 {
		return s.delegate.Setup(ctx)
	}
	return nil
}

// Teardown decrements the depth counter, calling the delegate's Teardown
// only once it reaches zero.
func (s *ReentrantStore) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 {
		return ErrNotSetUp
	}
	s.depth--
	if s.depth == 0 {
		return s.delegate.Teardown(ctx)
	}
	return nil
}

// MarkCodeUsed forwards directly to the delegate.
func (s *ReentrantStore) MarkCodeUsed(ctx context.Context, code [64]byte) (Result, error) {
	return s.delegate.MarkCodeUsed(ctx, code)
}
