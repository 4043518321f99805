package behavior

import "errors"

var (
	// Configuration errors
	ErrInitialAlreadySet  = errors.New("initial behavior already set")
	ErrNotInitialized     = errors.New("initial behavior not set")
	ErrStateNotRegistered = errors.New("behavior state not registered")

	// Protocol violations
	ErrTransitionInFlight = errors.New("behavior transition already in progress")
	ErrStackEmpty         = errors.New("behavior stack is empty")
	ErrLifecycleMessage   = errors.New("lifecycle message cannot be sent directly")

	// Handler contract violations
	ErrNilFuture = errors.New("behavior returned nil future")
)
