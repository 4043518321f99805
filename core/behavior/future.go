package behavior

import "context"

type (
	// Reply carries the outcome of handling a single message.
	Reply struct {
		Result any   // Handler return value (nil for fire-and-forget)
		Error  error // Handler error, if any
	}

	// Future settles with the outcome of handling a single message.
	// Handlers must never return a nil Future; that is a contract
	// violation surfaced to the caller as [ErrNilFuture].
	Future <-chan Reply

	// Receive handles one message dispatched to a state, lifecycle
	// sentinels included.
	Receive func(ctx context.Context, msg any) Future
)

// Resolve returns an already settled Future carrying result.
func Resolve(result any) Future { return settled(Reply{Result: result}) }

// Fail returns an already settled Future carrying err.
func Fail(err error) Future { return settled(Reply{Error: err}) }

// Sync adapts a synchronous handler function into a [Receive]. The returned
// future is settled before the handler returns.
func Sync(fn func(ctx context.Context, msg any) (any, error)) Receive {
	return func(ctx context.Context, msg any) Future {
		result, err := fn(ctx, msg)
		return settled(Reply{Result: result, Error: err})
	}
}

func settled(r Reply) Future {
	out := make(chan Reply, 1)
	out <- r
	close(out)
	return out
}
