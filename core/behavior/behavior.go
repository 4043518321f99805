package behavior

import (
	"context"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Transition kinds, used for logs and metric labels.
const (
	kindBecome        = "become"
	kindBecomeStacked = "become_stacked"
	kindUnbecome      = "unbecome"
)

type Options struct {
	Logger  *slog.Logger
	Metrics BehaviorMetrics
}

// Behavior is the switchable state machine. It owns the current state, the
// registry of named states, the undo stack for stacked switches and the
// etag version token. Not safe for concurrent use; see the package doc.
type Behavior struct {
	log     *slog.Logger
	metrics BehaviorMetrics

	states  map[string]*State
	current *State
	stack   []string

	etag          string
	transitioning bool
}

func New(opts Options) *Behavior {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopBehaviorMetrics()
	}

	return &Behavior{
		log:     opts.Logger,
		metrics: opts.Metrics,
		states:  make(map[string]*State),
	}
}

// RegisterState adds a named state to the registry. Registry entries are
// never overwritten: the first registration for a name wins.
func (b *Behavior) RegisterState(name string, receive Receive) {
	if _, ok := b.states[name]; ok {
		return
	}
	b.states[name] = &State{name: name, receive: receive}
}

// Current returns the name of the active state, or "" before Initial.
func (b *Behavior) Current() string {
	if b.current == nil {
		return ""
	}
	return b.current.name
}

// Etag returns the opaque version token, or "" before Initial. It changes
// on every committed transition and lets a hosting layer persist/restore
// the active state and detect concurrent external mutation.
func (b *Behavior) Etag() string { return b.etag }

// StackDepth returns the number of outstanding stacked switches not yet
// matched by Unbecome.
func (b *Behavior) StackDepth() int { return len(b.stack) }

// Initial sets the starting state exactly once and installs a fresh etag.
// It is a silent baseline, not a transition: no lifecycle hooks fire.
func (b *Behavior) Initial(name string) error {
	if b.current != nil {
		return fmt.Errorf("%w: current state is %q", ErrInitialAlreadySet, b.current.name)
	}

	next, err := b.state(name)
	if err != nil {
		return err
	}

	b.current = next
	b.etag = newEtag()

	b.log.Debug("behavior initialized", slog.String("state", name), slog.String("etag", b.etag))
	return nil
}

// Become switches to the named state, running the full hook sequence
// against the departing and target states. The optional argument rides on
// the Become sentinel delivered to the target.
func (b *Behavior) Become(ctx context.Context, name string, args ...any) error {
	return b.transition(ctx, kindBecome, name, nil, argOf(args), false)
}

// BecomeStacked switches like Become but pushes the departing state onto
// the undo stack so a later Unbecome can return to it.
func (b *Behavior) BecomeStacked(ctx context.Context, name string, args ...any) error {
	return b.transition(ctx, kindBecomeStacked, name, nil, argOf(args), true)
}

// Unbecome pops the most recently stacked state and switches back to it,
// running the same hook sequence. The optional argument rides on both the
// Unbecome sentinel delivered to the departing state and the Become
// sentinel delivered to the restored one. Fails with ErrStackEmpty when no
// stacked switch is outstanding.
func (b *Behavior) Unbecome(ctx context.Context, args ...any) error {
	if b.current == nil {
		return ErrNotInitialized
	}
	if b.transitioning {
		return fmt.Errorf("%w: unbecome called from inside a lifecycle hook", ErrTransitionInFlight)
	}
	if len(b.stack) == 0 {
		return fmt.Errorf("%w: no behavior to return to", ErrStackEmpty)
	}

	name := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	arg := argOf(args)
	return b.transition(ctx, kindUnbecome, name, arg, arg, false)
}

// Receive forwards an ordinary message to the current state's handler and
// returns its resolved result. Become/Unbecome sentinels are rejected;
// Activate/Deactivate may be injected by the hosting layer.
func (b *Behavior) Receive(ctx context.Context, msg any) (any, error) {
	if b.current == nil {
		return nil, ErrNotInitialized
	}

	switch msg.(type) {
	case Become, *Become, Unbecome, *Unbecome:
		return nil, fmt.Errorf("%w: '%s' is produced by the transition protocol only", ErrLifecycleMessage, msgText(msg))
	}

	result, err := b.invoke(ctx, b.current, msg)
	b.metrics.MessageProcessed(msgTypeOf(msg), err == nil)
	return result, err
}

// transition runs the shared switching protocol: guard, Deactivate(old),
// Unbecome(old), optional stack push, switch, Become(new), Activate(new),
// new etag. The guard is released on every exit path; current/stack are
// left as they stood when a hook fails (no rollback).
func (b *Behavior) transition(ctx context.Context, kind, target string, leaveArg, enterArg any, push bool) (err error) {
	if b.current == nil {
		return ErrNotInitialized
	}
	if b.transitioning {
		return fmt.Errorf("%w: cannot %s(%q) from inside a lifecycle hook", ErrTransitionInFlight, kind, target)
	}

	next, err := b.state(target)
	if err != nil {
		return err
	}

	b.transitioning = true
	defer func() { b.transitioning = false }()

	timer := b.metrics.TransitionDuration(kind)
	defer timer.ObserveDuration()
	defer func() { b.metrics.TransitionCompleted(kind, err == nil) }()

	from := b.current

	if err = b.deliver(ctx, from, Deactivate{}); err != nil {
		return err
	}
	if err = b.deliver(ctx, from, Unbecome{Argument: leaveArg}); err != nil {
		return err
	}

	if push {
		b.stack = append(b.stack, from.name)
	}
	b.current = next

	if err = b.deliver(ctx, next, Become{Argument: enterArg}); err != nil {
		return err
	}
	if err = b.deliver(ctx, next, Activate{}); err != nil {
		return err
	}

	b.etag = newEtag()
	b.metrics.StackDepth(len(b.stack))
	b.log.Debug("behavior switched",
		slog.String("kind", kind),
		slog.String("from", from.name),
		slog.String("to", next.name),
		slog.String("etag", b.etag),
	)
	return nil
}

// deliver invokes a lifecycle hook on s, discarding the result.
func (b *Behavior) deliver(ctx context.Context, s *State, msg any) error {
	_, err := b.invoke(ctx, s, msg)
	return err
}

func (b *Behavior) invoke(ctx context.Context, s *State, msg any) (any, error) {
	fut := s.receive(ctx, msg)
	if fut == nil {
		return nil, fmt.Errorf("%w: behavior %q returns nil future on handling '%s' message", ErrNilFuture, s.name, msgText(msg))
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case reply := <-fut:
		return reply.Result, reply.Error
	}
}

func (b *Behavior) state(name string) (*State, error) {
	s, ok := b.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStateNotRegistered, name)
	}
	return s, nil
}

func argOf(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func newEtag() string { return gonanoid.Must() }
