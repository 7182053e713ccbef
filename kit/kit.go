// Package kit holds the small transport-neutral plumbing shared by the HTTP
// and MCP surfaces: the Endpoint shape, middleware chaining, and context
// propagation of request metadata.
package kit

import "context"

// Endpoint is one transport-neutral operation: typed request in, typed
// response out. Transports decode into it and encode out of it.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares outermost-first: Chain(a, b)(e) runs a, then
// b, then e.
func Chain(mws ...Middleware) Middleware {
	return func(e Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			e = mws[i](e)
		}
		return e
	}
}
