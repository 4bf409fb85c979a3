package sink

import (
	"context"
	"fmt"
)

// WriteRequest is one serialized record destined for object storage.
type WriteRequest struct {
	Key         string
	Data        []byte
	ContentType string
}

// Sinkr persists payloads under deterministic keys.
type Sinkr interface {
	Write(ctx context.Context, req WriteRequest) error
}

// StoreError reports a storage failure: authorization, container creation
// for a reason other than pre-existence, or a failed write.
type StoreError struct {
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %v", e.Err)
	}
	return fmt.Sprintf("store %q: %v", e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
