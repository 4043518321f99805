package snapshot

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Repository wraps a Store with load deduplication and compare-and-save
// semantics. Concurrent loads for the same key execute the underlying
// lookup once; saves are rejected when the stored etag no longer matches
// the caller's expectation.
type Repository struct {
	store Store
	loads singleflight.Group
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Load fetches the snapshot for key. If a load for the same key is already
// in flight, the caller waits for it and receives the same result.
func (r *Repository) Load(ctx context.Context, key string) (Snapshot, error) {
	v, err, _ := r.loads.Do(key, func() (any, error) {
		return r.store.Load(ctx, key)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Save persists snap under key, but only while the stored snapshot's etag
// still equals expectedEtag. Pass an empty expectedEtag when no snapshot is
// expected to exist yet. A mismatch means another writer committed a
// transition in between and fails with ErrEtagMismatch.
func (r *Repository) Save(ctx context.Context, key string, snap Snapshot, expectedEtag string) error {
	stored, err := r.store.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		if expectedEtag != "" {
			return fmt.Errorf("%w: snapshot for %q is gone", ErrEtagMismatch, key)
		}
	case err != nil:
		return err
	case stored.Etag != expectedEtag:
		return fmt.Errorf("%w: stored %q, expected %q", ErrEtagMismatch, stored.Etag, expectedEtag)
	}

	return r.store.Save(ctx, key, snap)
}

// Delete removes the snapshot for key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}
