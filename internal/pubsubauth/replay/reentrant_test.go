package replay_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dantte-lp/pubsubwire/internal/pubsubauth/replay"
)

// countingStore records how many times Setup/Teardown reach the delegate,
// so tests can assert ReentrantStore only forwards the outermost pair.
type countingStore struct {
	mu            sync.Mutex
	setupCalls    int
	teardownCalls int
	markCalls     int
}

func (s *countingStore) Setup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setupCalls++
	return nil
}

func (s *countingStore) Teardown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownCalls++
	return nil
}

func (s *countingStore) MarkCodeUsed(context.Context, [64]byte) (replay.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls++
	return replay.ResultOK, nil
}

func TestReentrantStoreCountsNestedSetupTeardown(t *testing.T) {
	t.Parallel()

	delegate := &countingStore{}
	store := replay.NewReentrantStore(delegate)
	ctx := context.Background()

	if err := store.Setup(ctx); err != nil {
		t.Fatalf("outer setup: %v", err)
	}
	if err := store.Setup(ctx); err != nil {
		t.Fatalf("inner setup: %v", err)
	}
	if delegate.setupCalls != 1 {
		t.Fatalf("delegate.setupCalls = %d, want 1", delegate.setupCalls)
	}

	if err := store.Teardown(ctx); err != nil {
		t.Fatalf("inner teardown: %v", err)
	}
	if delegate.teardownCalls != 0 {
		t.Fatalf("delegate.teardownCalls = %d, want 0 before outermost teardown", delegate.teardownCalls)
	}

	if err := store.Teardown(ctx); err != nil {
		t.Fatalf("outer teardown: %v", err)
	}
	if delegate.teardownCalls != 1 {
		t.Fatalf("delegate.teardownCalls = %d, want 1", delegate.teardownCalls)
	}
}

func TestReentrantStoreTeardownWithoutSetupErrors(t *testing.T) {
	t.Parallel()

	store := replay.NewReentrantStore(&countingStore{})
	err := store.Teardown(context.Background())
	if !errors.Is(err, replay.ErrNotSetUp) {
		t.Fatalf("got %v, want ErrNotSetUp", err)
	}
}

func TestReentrantStoreMarkCodeUsedForwardsDirectly(t *testing.T) {
	t.Parallel()

	delegate := &countingStore{}
	store := replay.NewReentrantStore(delegate)
	ctx := context.Background()

	if err := store.Setup(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer store.Teardown(ctx)

	var code [64]byte
	result, err := store.MarkCodeUsed(ctx, code)
	if err != nil {
		t.Fatalf("mark code used: %v", err)
	}
	if result != replay.ResultOK {
		t.Fatalf("result = %v, want ok", result)
	}
	if delegate.markCalls != 1 {
		t.Fatalf("delegate.markCalls = %d, want 1", delegate.markCalls)
	}
}
