// Package catalog fetches, caches and queries the podcast directory served
// by the upstream read-only API. The upstream is the source of truth; this
// package only shapes it: genre mapping, sorting and fuzzy title search.
package catalog

import "time"

// Preview is the lightweight show summary returned by the list endpoint.
// GenreIDs reference the fixed genre table; the detail endpoint resolves
// them to titles upstream.
type Preview struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Seasons     int       `json:"seasons"`
	Image       string    `json:"image"`
	GenreIDs    []int     `json:"genres"`
	Updated     time.Time `json:"updated"`
}

// Show is the full detail record including every season and episode.
type Show struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Genres      []string  `json:"genres"`
	Updated     time.Time `json:"updated"`
	Seasons     []Season  `json:"seasons"`
}

type Season struct {
	Season   int       `json:"season"`
	Title    string    `json:"title"`
	Image    string    `json:"image"`
	Episodes []Episode `json:"episodes"`
}

type Episode struct {
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// SeasonByNumber returns the season with the given number, if present.
func (s *Show) SeasonByNumber(n int) (Season, bool) {
	for _, season := range s.Seasons {
		if season.Season == n {
			return season, true
		}
	}
	return Season{}, false
}
