package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/castify/internal/catalog"
	"github.com/example/castify/internal/platform/analytics"
	"github.com/example/castify/internal/platform/api"
	"github.com/example/castify/internal/platform/httpserver"
)

// ListShows lists directory previews with optional genre filter and sort.
func ListShows(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		opt, err := catalog.ParseSortOption(r.URL.Query().Get("sort"))
		if err != nil {
			api.BadRequest(w, "INVALID_SORT", err.Error(), rid, nil)
			return
		}

		var genreID *int
		if raw := r.URL.Query().Get("genre"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				api.BadRequest(w, "INVALID_GENRE", "genre must be a number", rid, nil)
				return
			}
			genreID = &n
		}

		previews, err := svc.Shows(r.Context(), genreID, opt)
		if err != nil {
			writeCatalogError(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"shows": previews})
	}
}

// GetShow returns the full detail record for one show.
func GetShow(svc *catalog.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		showID := chi.URLParam(r, "show_id")
		if showID == "" {
			api.BadRequest(w, "MISSING_ID", "show_id is required", rid, nil)
			return
		}

		show, err := svc.Show(r.Context(), showID)
		if err != nil {
			writeCatalogError(w, rid)
			return
		}

		events.Publish(analytics.SubjectShowViewed, "catalog.show_viewed", "", map[string]any{"show_id": showID})
		api.WriteJSON(w, http.StatusOK, show)
	}
}

// GetSeason returns one season of a show.
func GetSeason(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		showID := chi.URLParam(r, "show_id")
		number, err := strconv.Atoi(chi.URLParam(r, "season_no"))
		if showID == "" || err != nil {
			api.BadRequest(w, "MISSING_ID", "show_id and numeric season_no are required", rid, nil)
			return
		}

		season, err := svc.Season(r.Context(), showID, number)
		if err != nil {
			if errors.Is(err, catalog.ErrSeasonNotFound) {
				api.NotFound(w, "SEASON_NOT_FOUND", "Season not found", rid)
				return
			}
			writeCatalogError(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, season)
	}
}
