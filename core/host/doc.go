// Package host runs one behavior per actor behind a mailbox, providing the
// single-writer discipline the behavior package requires: a single goroutine
// drains the mailbox and issues one operation at a time.
//
// A host activates on New (restoring the behavior state from a snapshot
// repository when one is configured), deactivates on Stop and persists a
// snapshot of the active state and etag so the next activation resumes
// where the actor left off:
//
//	b := behavior.New(behavior.Options{})
//	b.RegisterState("closed", handleClosed)
//	b.RegisterState("open", handleOpen)
//
//	h, err := host.New(host.Options{
//	    ID:           "door-1",
//	    InitialState: "closed",
//	    Snapshots:    snapshots,
//	}, b)
//
//	res, err := h.Ask(ctx, KnockKnock{})
//	err = h.Become(ctx, "open")
//	h.Stop()
package host
