package host

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/bhvr-go/core/behavior"
	"github.com/codewandler/bhvr-go/core/snapshot"
)

// newDoorBehavior registers two states answering with their own name and
// records lifecycle hook deliveries.
func newDoorBehavior(calls *[]string) *behavior.Behavior {
	b := behavior.New(behavior.Options{})
	for _, name := range []string{"closed", "open"} {
		b.RegisterState(name, behavior.Sync(func(_ context.Context, msg any) (any, error) {
			switch msg.(type) {
			case behavior.Activate:
				*calls = append(*calls, "activate:"+name)
			case behavior.Deactivate:
				*calls = append(*calls, "deactivate:"+name)
			case behavior.Become, behavior.Unbecome:
			default:
				return fmt.Sprintf("%s door says hi", name), nil
			}
			return nil, nil
		}))
	}
	return b
}

func TestHost_ask(t *testing.T) {
	var calls []string
	h, err := New(Options{Context: t.Context(), InitialState: "closed"}, newDoorBehavior(&calls))
	require.NoError(t, err)
	defer h.Stop()

	// activation delivered exactly once on start
	require.Equal(t, []string{"activate:closed"}, calls)

	res, err := h.Ask(t.Context(), "knock")
	require.NoError(t, err)
	require.Equal(t, "closed door says hi", res)
}

func TestHost_become_and_state(t *testing.T) {
	var calls []string
	h, err := New(Options{Context: t.Context(), InitialState: "closed"}, newDoorBehavior(&calls))
	require.NoError(t, err)
	defer h.Stop()

	before, err := h.State(t.Context())
	require.NoError(t, err)
	require.Equal(t, "closed", before.State)
	require.NotEmpty(t, before.Etag)

	require.NoError(t, h.Become(t.Context(), "open"))

	after, err := h.State(t.Context())
	require.NoError(t, err)
	require.Equal(t, "open", after.State)
	require.NotEqual(t, before.Etag, after.Etag)
}

func TestHost_become_stacked_unbecome(t *testing.T) {
	var calls []string
	h, err := New(Options{Context: t.Context(), InitialState: "closed"}, newDoorBehavior(&calls))
	require.NoError(t, err)
	defer h.Stop()

	require.NoError(t, h.BecomeStacked(t.Context(), "open"))
	require.NoError(t, h.Unbecome(t.Context()))

	snap, err := h.State(t.Context())
	require.NoError(t, err)
	require.Equal(t, "closed", snap.State)

	require.ErrorIs(t, h.Unbecome(t.Context()), behavior.ErrStackEmpty)
}

func TestHost_stop(t *testing.T) {
	var calls []string
	h, err := New(Options{Context: t.Context(), InitialState: "closed"}, newDoorBehavior(&calls))
	require.NoError(t, err)

	h.Stop()
	h.Stop() // idempotent
	<-h.Done()

	require.Contains(t, calls, "deactivate:closed")

	_, err = h.Ask(t.Context(), "knock")
	require.ErrorIs(t, err, ErrHostStopped)
}

func TestHost_unknown_initial_state(t *testing.T) {
	var calls []string
	_, err := New(Options{Context: t.Context(), InitialState: "nope"}, newDoorBehavior(&calls))
	require.ErrorIs(t, err, behavior.ErrStateNotRegistered)
}

func TestHost_snapshot_restore(t *testing.T) {
	repo := snapshot.NewRepository(snapshot.NewMemStore())

	var calls []string
	h1, err := New(Options{
		Context:      t.Context(),
		ID:           "door-1",
		InitialState: "closed",
		Snapshots:    repo,
	}, newDoorBehavior(&calls))
	require.NoError(t, err)

	require.NoError(t, h1.Become(t.Context(), "open"))
	h1.Stop()

	// a new host for the same actor resumes in the persisted state
	h2, err := New(Options{
		Context:      t.Context(),
		ID:           "door-1",
		InitialState: "closed",
		Snapshots:    repo,
	}, newDoorBehavior(&calls))
	require.NoError(t, err)
	defer h2.Stop()

	snap, err := h2.State(t.Context())
	require.NoError(t, err)
	require.Equal(t, "open", snap.State)

	// the restored host activates the persisted state, not the initial one
	require.Contains(t, calls, "activate:open")
}
