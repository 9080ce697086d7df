package replay

import "context"

// NoneStore always reports ResultOK. Acceptable only when replay risk is
// externally mitigated: short token lifetimes, a single broadcaster, or
// strict TLS (spec §4.6).
type NoneStore struct{}

// Setup is a no-op.
func (NoneStore) Setup(context.Context) error { return nil }

// Teardown is a no-op.
func (NoneStore) Teardown(context.Context) error { return nil }

// MarkCodeUsed always succeeds.
func (NoneStore) MarkCodeUsed(context.Context, [64]byte) (Result, error) {
	return ResultOK, nil
}
