package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/bhvr-go/core/behavior"
	"github.com/codewandler/bhvr-go/core/snapshot"
)

var ErrHostStopped = errors.New("host stopped")

// ---- mailbox operations (internal) ----

type opKind int

const (
	opReceive opKind = iota
	opBecome
	opBecomeStacked
	opUnbecome
	opState
)

type envelope struct {
	kind  opKind
	msg   any
	state string
	args  []any
	reply chan behavior.Reply
}

type Options struct {
	// ID identifies the hosted actor; snapshot key. Defaults to a nanoid.
	ID string
	// InitialState names the state set on first activation. Ignored when a
	// snapshot for ID exists.
	InitialState string
	MailboxSize  int
	Context      context.Context
	Logger       *slog.Logger
	// Snapshots, when set, restores the active state on start and persists
	// it on stop.
	Snapshots *snapshot.Repository
}

// Host owns exactly one Behavior and serializes all calls into it through a
// mailbox drained by a single goroutine, giving the behavior the one-
// operation-at-a-time discipline it requires. On start the host restores or
// sets the initial state and delivers Activate; on stop it delivers
// Deactivate and persists a snapshot.
type Host struct {
	id  string
	ctx context.Context
	log *slog.Logger

	behavior *behavior.Behavior
	mailbox  chan envelope

	snapshots  *snapshot.Repository
	storedEtag string

	stop chan struct{}
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// New activates a host around b: the initial state is restored from the
// snapshot repository when one exists, set to opts.InitialState otherwise,
// and the Activate hook is delivered before any message is accepted.
func New(opts Options, b *behavior.Behavior) (*Host, error) {
	if opts.ID == "" {
		opts.ID = fmt.Sprintf("host-%s", gonanoid.Must(10))
	}
	if opts.MailboxSize == 0 {
		opts.MailboxSize = 1024
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &Host{
		id:        opts.ID,
		ctx:       opts.Context,
		log:       opts.Logger.With(slog.String("host_id", opts.ID)),
		behavior:  b,
		mailbox:   make(chan envelope, opts.MailboxSize),
		snapshots: opts.Snapshots,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if err := h.activate(opts.InitialState); err != nil {
		return nil, err
	}

	go h.loop()
	return h, nil
}

// ID returns the host's actor identity.
func (h *Host) ID() string { return h.id }

// Done is closed when the host stops.
func (h *Host) Done() <-chan struct{} { return h.done }

// Ask dispatches an ordinary message to the current state's handler and
// returns its result.
func (h *Host) Ask(ctx context.Context, msg any) (any, error) {
	return h.call(ctx, envelope{kind: opReceive, msg: msg})
}

// Become switches the hosted behavior to the named state.
func (h *Host) Become(ctx context.Context, state string, args ...any) error {
	_, err := h.call(ctx, envelope{kind: opBecome, state: state, args: args})
	return err
}

// BecomeStacked switches like Become but keeps the departed state on the
// undo stack.
func (h *Host) BecomeStacked(ctx context.Context, state string, args ...any) error {
	_, err := h.call(ctx, envelope{kind: opBecomeStacked, state: state, args: args})
	return err
}

// Unbecome returns to the most recently stacked state.
func (h *Host) Unbecome(ctx context.Context, args ...any) error {
	_, err := h.call(ctx, envelope{kind: opUnbecome, args: args})
	return err
}

// State reads the current state name and etag, serialized with the mailbox
// so the read never races a transition.
func (h *Host) State(ctx context.Context) (snapshot.Snapshot, error) {
	res, err := h.call(ctx, envelope{kind: opState})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return res.(snapshot.Snapshot), nil
}

// Stop requests shutdown and waits for completion. Idempotent.
func (h *Host) Stop() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		<-h.done
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// ---- internals ----

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// call enqueues one operation and waits for its reply.
func (h *Host) call(ctx context.Context, env envelope) (any, error) {
	if h.isClosed() {
		return nil, ErrHostStopped
	}

	env.reply = make(chan behavior.Reply, 1)

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("send failed: %w", ctx.Err())
	case <-h.stop:
		return nil, ErrHostStopped
	case h.mailbox <- env:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrHostStopped
	case reply := <-env.reply:
		return reply.Result, reply.Error
	}
}

// activate restores or sets the initial state and fires the Activate hook.
// Runs before the loop goroutine starts, so behavior access is exclusive.
func (h *Host) activate(initialState string) error {
	state := initialState
	if h.snapshots != nil {
		snap, err := h.snapshots.Load(h.ctx, h.id)
		switch {
		case errors.Is(err, snapshot.ErrNotFound):
		case err != nil:
			return fmt.Errorf("failed to load snapshot: %w", err)
		default:
			state = snap.State
			h.storedEtag = snap.Etag
			h.log.Debug("behavior restored from snapshot", slog.String("state", state))
		}
	}

	if err := h.behavior.Initial(state); err != nil {
		return err
	}
	if _, err := h.behavior.Receive(h.ctx, behavior.Activate{}); err != nil {
		return fmt.Errorf("activation failed: %w", err)
	}
	return nil
}

func (h *Host) loop() {
	defer close(h.done)
	defer h.deactivate()

	for {
		select {
		case <-h.stop:
			return
		case <-h.ctx.Done():
			return
		case env := <-h.mailbox:
			env.reply <- h.process(env)
		}
	}
}

// process executes one mailbox operation with crash containment.
func (h *Host) process(env envelope) (reply behavior.Reply) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("behavior handler panicked", slog.Any("recovered", r), slog.Any("stack", debug.Stack()))
			reply = behavior.Reply{Error: fmt.Errorf("handler panicked: %v", r)}
		}
	}()

	switch env.kind {
	case opReceive:
		result, err := h.behavior.Receive(h.ctx, env.msg)
		return behavior.Reply{Result: result, Error: err}
	case opBecome:
		return behavior.Reply{Error: h.behavior.Become(h.ctx, env.state, env.args...)}
	case opBecomeStacked:
		return behavior.Reply{Error: h.behavior.BecomeStacked(h.ctx, env.state, env.args...)}
	case opUnbecome:
		return behavior.Reply{Error: h.behavior.Unbecome(h.ctx, env.args...)}
	case opState:
		return behavior.Reply{Result: snapshot.Snapshot{State: h.behavior.Current(), Etag: h.behavior.Etag()}}
	default:
		return behavior.Reply{Error: fmt.Errorf("unknown operation kind %d", env.kind)}
	}
}

// deactivate fires the Deactivate hook and persists the final snapshot.
// Runs on the loop goroutine after it stopped draining the mailbox.
func (h *Host) deactivate() {
	ctx := context.Background()

	if _, err := h.behavior.Receive(ctx, behavior.Deactivate{}); err != nil {
		h.log.Warn("deactivation hook failed", slog.Any("error", err))
	}

	if h.snapshots == nil {
		return
	}

	snap := snapshot.Snapshot{State: h.behavior.Current(), Etag: h.behavior.Etag()}
	if err := h.snapshots.Save(ctx, h.id, snap, h.storedEtag); err != nil {
		h.log.Warn("failed to persist behavior snapshot", slog.Any("error", err))
		return
	}
	h.log.Debug("behavior snapshot persisted", slog.String("state", snap.State), slog.String("etag", snap.Etag))
}
