// Package favourites stores per-user favourite episodes, keyed by the
// (user, show, season, episode) tuple. Rows carry denormalized display
// fields so a favourites listing never has to hit the catalog.
package favourites

import (
	"context"
	"errors"
	"time"

	"github.com/example/castify/internal/catalog"
)

var (
	ErrConflict = errors.New("favourite already exists")
	ErrNotFound = errors.New("favourite not found")
)

// Favourite is one saved episode.
type Favourite struct {
	UserID             string    `json:"-"`
	ShowID             string    `json:"show_id"`
	ShowTitle          string    `json:"show_title"`
	ShowUpdated        time.Time `json:"show_updated"`
	SeasonID           string    `json:"season_id"`
	EpisodeID          string    `json:"episode_id"`
	EpisodeTitle       string    `json:"episode_title"`
	EpisodeDescription string    `json:"episode_description"`
	EpisodeFile        string    `json:"episode_file"`
	CreatedAt          time.Time `json:"created_at"`
}

// Key identifies one favourite within a user's list.
type Key struct {
	ShowID    string
	SeasonID  string
	EpisodeID string
}

// Store is the persistence surface for favourites. List returns rows
// ordered by show id then season id.
type Store interface {
	List(ctx context.Context, userID string) ([]Favourite, error)
	Add(ctx context.Context, f Favourite) error
	Remove(ctx context.Context, userID string, key Key) error
}

// Sort re-orders a favourites listing with the catalog sort options, using
// the denormalized show title and updated timestamp. SortDefault keeps the
// store order.
func Sort(favs []Favourite, opt catalog.SortOption) []Favourite {
	out := make([]Favourite, len(favs))
	copy(out, favs)
	catalog.SortSlice(out, opt,
		func(f Favourite) string { return f.ShowTitle },
		func(f Favourite) time.Time { return f.ShowUpdated })
	return out
}
