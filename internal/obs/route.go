package obs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route returns the chi pattern that matched r, or fallback when r was not
// routed. Sub-router patterns are only complete once the router has
// dispatched, so middleware calls it after next.ServeHTTP returns.
func Route(r *http.Request, fallback string) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return fallback
}
