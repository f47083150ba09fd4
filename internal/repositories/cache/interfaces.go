package cacherepo

import (
	"context"
	"time"
)

// KV is the key-value surface the cache repositories need. A missing key is
// reported as a zero result with a nil error.
type KV interface {
	Get(ctx context.Context, key string) Result[string]
	Set(ctx context.Context, key string, value any, expiration time.Duration) Result[string]
	Del(ctx context.Context, keys ...string) Result[int64]
}

type Result[T any] interface {
	Err() error
	Result() (T, error)
}
