package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// WrapRoute applies standard http middleware to a single httprouter handle,
// preserving the route params.
func WrapRoute(h httprouter.Handle, middlewares ...func(http.Handler) http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var inner http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, ps)
		})
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		inner.ServeHTTP(w, r)
	}
}
