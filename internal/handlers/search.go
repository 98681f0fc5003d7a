package handlers

import (
	"net/http"
	"strings"

	"github.com/example/castify/internal/catalog"
	"github.com/example/castify/internal/platform/analytics"
	"github.com/example/castify/internal/platform/api"
	"github.com/example/castify/internal/platform/httpserver"
)

// Search ranks directory shows by fuzzy title match.
func Search(svc *catalog.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.BadRequest(w, "MISSING_QUERY", "q is required", rid, nil)
			return
		}

		results, err := svc.Search(r.Context(), q)
		if err != nil {
			writeCatalogError(w, rid)
			return
		}

		events.Publish(analytics.SubjectSearchPerformed, "search.performed", "", map[string]any{
			"query":   q,
			"results": len(results),
		})
		api.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}
