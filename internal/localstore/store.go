package localstore

import (
	"context"
	"errors"
)

// Store is the durable session-scoped key/value surface. It is the sole
// persistence for anonymous sessions and a bootstrap cache otherwise.
// Values are opaque strings (JSON blobs) with no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("local store: key not found")
