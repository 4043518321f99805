// Package behavior implements a switchable-behavior state machine for
// actor-like units: a single stateful owner dispatches incoming messages to
// one of several named, interchangeable handler routines ("states") and can
// switch between them at runtime with a strict lifecycle protocol.
//
// # States
//
// A state pairs a name with a [Receive] handler. Handlers return a [Future]
// that settles with the handling outcome; [Sync] adapts a plain function:
//
//	b := behavior.New(behavior.Options{})
//	b.RegisterState("closed", behavior.Sync(func(ctx context.Context, msg any) (any, error) {
//	    switch msg.(type) {
//	    case behavior.Become:
//	        // entering this state
//	    }
//	    return "it is closed", nil
//	}))
//	b.RegisterState("open", behavior.Sync(handleOpen))
//
// The initial state is set once, silently (no lifecycle hooks fire):
//
//	if err := b.Initial("closed"); err != nil { ... }
//
// # Switching
//
// [Behavior.Become] switches laterally; [Behavior.BecomeStacked] remembers
// the departed state so a later [Behavior.Unbecome] can return to it. Every
// committed switch runs the full hook sequence against the involved states,
// in order:
//
//	Deactivate(old) -> Unbecome(old) -> Become(new) -> Activate(new)
//
// and installs a fresh [Behavior.Etag]. Hooks are delivered through the same
// dispatch path as ordinary messages, as values of the sentinel types
// [Activate], [Deactivate], [Become] and [Unbecome]. An optional switch
// argument rides on the Become sentinel (and, for Unbecome calls, on the
// Unbecome sentinel as well).
//
// Calling a switching operation from inside a hook of an in-flight switch is
// a programming error and fails with [ErrTransitionInFlight]; the outer
// switch fails as well.
//
// # Dispatch
//
// [Behavior.Receive] forwards an ordinary message to the current state's
// handler and returns its result. Become/Unbecome sentinels may never be
// injected this way; Activate/Deactivate may, so a hosting layer can trigger
// lifecycle hooks on activation and shutdown.
//
// # Concurrency
//
// A Behavior is not internally synchronized. The hosting layer must
// serialize all calls into one instance, one in-flight operation at a time,
// as an actor's turn-based mailbox loop does (see the host package).
package behavior
