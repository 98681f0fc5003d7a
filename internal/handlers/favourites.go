package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/castify/internal/catalog"
	"github.com/example/castify/internal/favourites"
	"github.com/example/castify/internal/platform/analytics"
	"github.com/example/castify/internal/platform/api"
	platformauth "github.com/example/castify/internal/platform/auth"
	"github.com/example/castify/internal/platform/httpserver"
	"github.com/example/castify/internal/share"
)

type addFavouriteReq struct {
	ShowID             string    `json:"show_id"`
	ShowTitle          string    `json:"show_title"`
	ShowUpdated        time.Time `json:"show_updated"`
	SeasonID           string    `json:"season_id"`
	EpisodeID          string    `json:"episode_id"`
	EpisodeTitle       string    `json:"episode_title"`
	EpisodeDescription string    `json:"episode_description"`
	EpisodeFile        string    `json:"episode_file"`
}

// ListFavourites returns the caller's favourites, with an optional re-sort
// and the share token for their public list.
func ListFavourites(store favourites.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		opt, err := catalog.ParseSortOption(r.URL.Query().Get("sort"))
		if err != nil {
			api.BadRequest(w, "INVALID_SORT", err.Error(), rid, nil)
			return
		}

		favs, err := store.List(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, map[string]any{
			"favourites":  favourites.Sort(favs, opt),
			"share_token": share.EncodeToken(uid),
		})
	}
}

// AddFavourite saves one episode to the caller's favourites.
func AddFavourite(store favourites.Store, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		var req addFavouriteReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if req.ShowID == "" || req.SeasonID == "" || req.EpisodeID == "" {
			api.BadRequest(w, "MISSING_KEY", "show_id, season_id and episode_id are required", rid, nil)
			return
		}

		f := favourites.Favourite{
			UserID:             uid,
			ShowID:             req.ShowID,
			ShowTitle:          req.ShowTitle,
			ShowUpdated:        req.ShowUpdated,
			SeasonID:           req.SeasonID,
			EpisodeID:          req.EpisodeID,
			EpisodeTitle:       req.EpisodeTitle,
			EpisodeDescription: req.EpisodeDescription,
			EpisodeFile:        req.EpisodeFile,
		}
		if err := store.Add(r.Context(), f); err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectFavouriteAdded, "favourites.added", uid, map[string]any{
			"show_id":    req.ShowID,
			"season_id":  req.SeasonID,
			"episode_id": req.EpisodeID,
		})
		api.WriteJSON(w, http.StatusCreated, f)
	}
}

// RemoveFavourite deletes one favourite by its composite key.
func RemoveFavourite(store favourites.Store, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		key := favourites.Key{
			ShowID:    chi.URLParam(r, "show_id"),
			SeasonID:  chi.URLParam(r, "season_id"),
			EpisodeID: chi.URLParam(r, "episode_id"),
		}
		if key.ShowID == "" || key.SeasonID == "" || key.EpisodeID == "" {
			api.BadRequest(w, "MISSING_KEY", "show_id, season_id and episode_id are required", rid, nil)
			return
		}

		if err := store.Remove(r.Context(), uid, key); err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectFavouriteRemoved, "favourites.removed", uid, map[string]any{
			"show_id":    key.ShowID,
			"season_id":  key.SeasonID,
			"episode_id": key.EpisodeID,
		})
		api.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// SharedFavourites resolves a share token and returns that user's
// favourites read-only. No authentication required.
func SharedFavourites(store favourites.Store, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		uid, err := share.DecodeToken(chi.URLParam(r, "token"))
		if err != nil {
			api.BadRequest(w, "INVALID_SHARE_TOKEN", "Invalid share token", rid, nil)
			return
		}

		favs, err := store.List(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectFavouritesShared, "favourites.shared", uid, nil)
		api.WriteJSON(w, http.StatusOK, map[string]any{"favourites": favs})
	}
}
