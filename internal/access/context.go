package access

import "context"

type callerKey struct{}

// WithCaller stores the caller for transport between middleware and handlers.
// Policy functions take the Caller as an argument, never the context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}
