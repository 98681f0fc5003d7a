package handlers

import (
	"net/http"

	"github.com/example/castify/internal/platform/analytics"
	"github.com/example/castify/internal/platform/api"
	platformauth "github.com/example/castify/internal/platform/auth"
	"github.com/example/castify/internal/platform/httpserver"
	"github.com/example/castify/internal/player"
)

type startPlayerReq struct {
	ShowID      string `json:"show_id"`
	SeasonID    string `json:"season_id"`
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// playerResponse is the full player view returned by every player endpoint.
type playerResponse struct {
	Phase player.Phase `json:"phase"`
	State player.State `json:"state"`
}

// GetPlayer returns the caller's current player state.
func GetPlayer(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		st, phase, err := mgr.State(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, playerResponse{Phase: phase, State: st})
	}
}

// StartPlayer selects an episode for playback.
func StartPlayer(mgr *player.Manager, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		var req startPlayerReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if req.ShowID == "" || req.SeasonID == "" || req.Episode <= 0 || req.File == "" {
			api.BadRequest(w, "MISSING_EPISODE", "show_id, season_id, episode and file are required", rid, nil)
			return
		}

		ref := player.EpisodeRef{
			Identifier:  player.EpisodeIdentifier(req.ShowID, req.SeasonID, req.Episode),
			Episode:     req.Episode,
			Title:       req.Title,
			Description: req.Description,
			File:        req.File,
		}

		resume, st, err := mgr.Start(r.Context(), uid, ref)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectPlaybackStarted, "playback.started", uid, map[string]any{
			"identifier": ref.Identifier,
			"resume":     resume,
		})
		api.WriteJSON(w, http.StatusOK, map[string]any{
			"phase":  player.PhaseLoading,
			"state":  st,
			"resume": resume,
		})
	}
}

// PlayerEvents applies one reported media-element event.
func PlayerEvents(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		var ev player.Event
		if !decodeJSON(w, r, rid, &ev) {
			return
		}
		if ev.Type == "" {
			api.BadRequest(w, "MISSING_EVENT_TYPE", "type is required", rid, nil)
			return
		}

		st, phase, err := mgr.Apply(r.Context(), uid, ev)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, playerResponse{Phase: phase, State: st})
	}
}

// ClosePlayer dismisses the player surface.
func ClosePlayer(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		st, err := mgr.Close(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, playerResponse{Phase: player.PhaseIdle, State: st})
	}
}

// ResetPlayHistory clears the caller's entire play history.
func ResetPlayHistory(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := platformauth.UserIDFromContext(r.Context())

		st, err := mgr.ResetHistory(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"state": st})
	}
}
