package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Store is the byte-level backend used by GetOrCompute. *Cache implements it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var (
	jsonNull     = []byte("null")
	errNullEntry = errors.New("null entry")
)

// Lookup describes what GetOrCompute did against the backend.
// ReadErr and WriteErr carry backend failures that were absorbed.
type Lookup struct {
	Hit      bool
	ReadErr  error
	WriteErr error
}

// GetOrCompute returns the value cached at key, or computes, caches and returns it.
//
// The cache is best-effort: an unreachable backend or a corrupt entry, including
// a stored JSON null, is treated as a miss and compute runs against the source
// of truth. A nil computed value is returned as is and not cached. Only compute's error is returned as error.
func GetOrCompute[T any](
	ctx context.Context,
	store Store,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (*T, error),
) (*T, Lookup, error) {
	var lookup Lookup

	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
			lookup.ReadErr = fmt.Errorf("decode cached %s: %w", key, errNullEntry)
			break
		}
		var cached T
		uerr := json.Unmarshal(data, &cached)
		if uerr == nil {
			lookup.Hit = true
			return &cached, lookup, nil
		}
		lookup.ReadErr = fmt.Errorf("decode cached %s: %w", key, uerr)
	case !errors.Is(err, ErrCacheMiss):
		lookup.ReadErr = err
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, lookup, err
	}
	if value == nil {
		return nil, lookup, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		lookup.WriteErr = fmt.Errorf("encode %s: %w", key, err)
		return value, lookup, nil
	}
	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		lookup.WriteErr = err
	}

	return value, lookup, nil
}
