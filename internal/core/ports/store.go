package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/soundcheck/internal/core/query"
)

// ErrStore marks failures reported by the backing store.
var ErrStore = errors.New("store failure")

// StoreError carries the store's own message so it can be surfaced to clients unchanged.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return ErrStore.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// QueryClient runs catalog reads. Execute decodes the resulting JSON array
// of rows into dst, which must be a pointer to a slice.
type QueryClient interface {
	Execute(ctx context.Context, q query.Query, dst any) error
}
