package handlers

import (
	"errors"
	"net/http"

	"github.com/example/castify/internal/auth"
	"github.com/example/castify/internal/favourites"
	"github.com/example/castify/internal/platform/api"
	"github.com/example/castify/internal/player"
)

// writeDomainError translates domain-layer errors into the API envelope.
// Anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, rid string, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		api.BadRequest(w, "VALIDATION", "Invalid request", rid, map[string]any{verr.Field: verr.Reason})
	case errors.Is(err, auth.ErrConflict):
		api.Conflict(w, "USER_ALREADY_EXISTS", "User already exists", rid, nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "Invalid credentials", rid)
	case errors.Is(err, auth.ErrInvalidRefresh):
		api.Unauthorized(w, "AUTH_INVALID_REFRESH", "Invalid refresh token", rid)
	case errors.Is(err, auth.ErrNotFound):
		api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
	case errors.Is(err, favourites.ErrConflict):
		api.Conflict(w, "FAVOURITE_EXISTS", "Episode is already a favourite", rid, nil)
	case errors.Is(err, favourites.ErrNotFound):
		api.NotFound(w, "FAVOURITE_NOT_FOUND", "Favourite not found", rid)
	case errors.Is(err, player.ErrInvalidTransition):
		api.Conflict(w, "PLAYER_INVALID_EVENT", err.Error(), rid, nil)
	case errors.Is(err, player.ErrUnknownEvent):
		api.BadRequest(w, "PLAYER_UNKNOWN_EVENT", err.Error(), rid, nil)
	default:
		api.Internal(w, rid)
	}
}

// writeCatalogError reports an upstream directory failure. The client shows
// a page-level error and does not retry.
func writeCatalogError(w http.ResponseWriter, rid string) {
	api.BadGateway(w, "CATALOG_UNAVAILABLE", "Podcast directory is unavailable", rid)
}
