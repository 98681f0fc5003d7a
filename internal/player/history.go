package player

// HistoryRecord tracks playback progress and completion for one episode.
// There is at most one record per identifier and the list only grows until
// the user explicitly clears it.
//
// Invariants:
//   - EpisodeLength, once set, is never overwritten.
//   - Progress is present only while WasPlayedFully is false; marking an
//     episode fully played clears it.
type HistoryRecord struct {
	Identifier     string   `json:"identifier"`
	WasPlayedFully bool     `json:"wasPlayedFully"`
	Progress       *float64 `json:"progress,omitempty"`
	EpisodeLength  *float64 `json:"episodeLength,omitempty"`
}

func (r HistoryRecord) clone() HistoryRecord {
	out := r
	if r.Progress != nil {
		v := *r.Progress
		out.Progress = &v
	}
	if r.EpisodeLength != nil {
		v := *r.EpisodeLength
		out.EpisodeLength = &v
	}
	return out
}

func cloneHistory(in []HistoryRecord) []HistoryRecord {
	if in == nil {
		return nil
	}
	out := make([]HistoryRecord, len(in))
	for i, r := range in {
		out[i] = r.clone()
	}
	return out
}
