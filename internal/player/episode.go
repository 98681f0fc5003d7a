// Package player owns the playback session state for each user: what is
// playing, where playback stands, and the durable history of every episode
// ever started. All mutation goes through the Store; HTTP handlers and the
// progress worker only relay media-element events into it.
package player

import (
	"fmt"
	"regexp"
	"strconv"
)

// EpisodeRef identifies and describes one playable episode. It is immutable
// once constructed; the Identifier is the primary key for history lookups.
type EpisodeRef struct {
	Identifier  string `json:"identifier"`
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// EpisodeIdentifier builds the composite episode key used across the whole
// catalog: "show-{showId}-S{seasonId}-E{episode}".
func EpisodeIdentifier(showID, seasonID string, episode int) string {
	return fmt.Sprintf("show-%s-S%s-E%d", showID, seasonID, episode)
}

var identifierRe = regexp.MustCompile(`^show-(.+)-S(.+)-E(\d+)$`)

// ParseIdentifier splits a composite episode key back into its parts.
func ParseIdentifier(id string) (showID, seasonID string, episode int, err error) {
	m := identifierRe.FindStringSubmatch(id)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid episode identifier %q", id)
	}
	episode, err = strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid episode number in %q", id)
	}
	return m[1], m[2], episode, nil
}
