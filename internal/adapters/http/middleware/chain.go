package middleware

import "net/http"

// Chain composes middleware into one. The first argument is the outermost:
// Chain(Recovery, RequestID, Logging)(h) is Recovery(RequestID(Logging(h))).
// Nil entries are skipped so optional middleware can be passed in place.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			handler = middlewares[i](handler)
		}
		return handler
	}
}
