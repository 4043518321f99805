package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	ctx := t.Context()
	store := NewMemStore()

	_, err := store.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "k", Snapshot{State: "open", Etag: "e1"}))
	snap, err := store.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, Snapshot{State: "open", Etag: "e1"}, snap)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_compare_and_save(t *testing.T) {
	ctx := t.Context()
	repo := NewRepository(NewMemStore())

	// first save: nothing stored yet, empty expectation required
	require.NoError(t, repo.Save(ctx, "k", Snapshot{State: "a", Etag: "e1"}, ""))
	require.ErrorIs(t, repo.Save(ctx, "k", Snapshot{State: "b", Etag: "e2"}, ""), ErrEtagMismatch)

	// save with matching expectation wins
	require.NoError(t, repo.Save(ctx, "k", Snapshot{State: "b", Etag: "e2"}, "e1"))

	// stale expectation is rejected
	require.ErrorIs(t, repo.Save(ctx, "k", Snapshot{State: "c", Etag: "e3"}, "e1"), ErrEtagMismatch)

	snap, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "b", snap.State)
}

func TestRepository_save_expected_but_gone(t *testing.T) {
	repo := NewRepository(NewMemStore())
	err := repo.Save(t.Context(), "k", Snapshot{State: "a", Etag: "e1"}, "e0")
	require.ErrorIs(t, err, ErrEtagMismatch)
}

// gatedStore blocks loads on a gate and counts how many reach the store.
type gatedStore struct {
	inner *MemStore
	loads atomic.Int32
	gate  chan struct{}
}

func (g *gatedStore) Save(ctx context.Context, key string, snap Snapshot) error {
	return g.inner.Save(ctx, key, snap)
}

func (g *gatedStore) Load(ctx context.Context, key string) (Snapshot, error) {
	g.loads.Add(1)
	<-g.gate
	return g.inner.Load(ctx, key)
}

func (g *gatedStore) Delete(ctx context.Context, key string) error {
	return g.inner.Delete(ctx, key)
}

func TestRepository_load_singleflight(t *testing.T) {
	ctx := t.Context()
	store := &gatedStore{inner: NewMemStore(), gate: make(chan struct{})}
	require.NoError(t, store.inner.Save(ctx, "k", Snapshot{State: "a", Etag: "e1"}))

	repo := NewRepository(store)

	// the first caller blocks inside the store on the gate; the gate is
	// only opened once every caller has issued its load, so all of them
	// join the single in-flight lookup.
	const callers = 8
	issued := make(chan struct{}, callers)
	var finished sync.WaitGroup
	for i := 0; i < callers; i++ {
		finished.Add(1)
		go func() {
			defer finished.Done()
			issued <- struct{}{}
			snap, err := repo.Load(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, "a", snap.State)
		}()
	}

	for i := 0; i < callers; i++ {
		<-issued
	}
	close(store.gate)
	finished.Wait()

	// deduplicated: one store hit for all callers
	require.Equal(t, int32(1), store.loads.Load())
}
