package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware outermost first: Chain(a, b)(h) serves a(b(h)).
// Nil entries are skipped.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				final = mws[i](final)
			}
		}
		return final
	}
}

// Wrap applies mws to a single handler func, for per-route stacks.
func Wrap(h http.HandlerFunc, mws ...Middleware) http.Handler {
	return Chain(mws...)(h)
}
