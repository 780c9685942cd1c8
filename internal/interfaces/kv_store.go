package interfaces

import "context"

// KVStore is a blob store with whole-value semantics: every Get returns the
// complete value and every Put replaces it.
type KVStore interface {
	// Get returns found=false when nothing was ever written under key.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}
