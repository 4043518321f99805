package behavior

import "github.com/codewandler/bhvr-go/internal/reflector"

type (
	// Activate is delivered to a state right after it becomes current.
	// Hosting layers may also inject it via [Behavior.Receive] to trigger
	// activation logic outside a switch.
	Activate struct{}

	// Deactivate is delivered to the current state at the start of a
	// switch, before it is left. Hosting layers may also inject it via
	// [Behavior.Receive] on shutdown.
	Deactivate struct{}

	// Become is delivered to the target state of a committed switch.
	// Argument carries the optional switch argument, nil when none was
	// given. Become values are produced by the transition protocol only
	// and are rejected by [Behavior.Receive].
	Become struct {
		Argument any
	}

	// Unbecome is delivered to the state being left during a switch.
	// Argument is set only for [Behavior.Unbecome] calls that supplied
	// one. Not to be confused with the Unbecome operation itself: this is
	// the notification, that is the undo. Rejected by [Behavior.Receive].
	Unbecome struct {
		Argument any
	}
)

func (Activate) MsgType() string   { return "behavior/activate" }
func (Deactivate) MsgType() string { return "behavior/deactivate" }
func (Become) MsgType() string     { return "behavior/become" }
func (Unbecome) MsgType() string   { return "behavior/unbecome" }

type msgTyper interface{ MsgType() string }

// msgTypeOf names a message for logs and metric labels.
func msgTypeOf(msg any) string {
	if mt, ok := msg.(msgTyper); ok {
		return mt.MsgType()
	}
	return reflector.TypeNameOf(msg)
}

// msgText renders a message for error text. Strings pass through verbatim,
// everything else is identified by type.
func msgText(msg any) string {
	if s, ok := msg.(string); ok {
		return s
	}
	return msgTypeOf(msg)
}
