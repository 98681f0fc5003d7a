package player

import (
	"sync"
)

// State is the complete in-memory player state for one user.
// JSON field names follow the persisted schema; new fields may be added but
// existing names and types must never be repurposed.
type State struct {
	CurrentlyPlaying *EpisodeRef     `json:"currentlyPlaying,omitempty"`
	CurrentAudioTime float64         `json:"currentAudioTime"`
	IsAudioPlaying   bool            `json:"isAudioPlaying"`
	History          []HistoryRecord `json:"playerHistory"`
}

// PersistedState is the durable subset of State. IsAudioPlaying is
// deliberately absent from the type rather than filtered out at save time:
// playback must never auto-resume across sessions.
type PersistedState struct {
	CurrentlyPlaying *EpisodeRef     `json:"currentlyPlaying,omitempty"`
	CurrentAudioTime float64         `json:"currentAudioTime"`
	History          []HistoryRecord `json:"playerHistory"`
}

// Store is the single owner and sole mutator of one user's player state.
// All methods are safe for concurrent use; mutations are serialized by an
// internal mutex (single-writer semantics).
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates an empty store: nothing playing, empty history.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom rehydrates a store from persisted state. IsAudioPlaying
// always starts false regardless of what was last known.
func NewStoreFrom(ps PersistedState) *Store {
	return &Store{state: State{
		CurrentlyPlaying: ps.CurrentlyPlaying,
		CurrentAudioTime: ps.CurrentAudioTime,
		IsAudioPlaying:   false,
		History:          cloneHistory(ps.History),
	}}
}

// StartEpisode makes ref the currently playing episode and starts playback.
// A first-ever play appends a fresh history record; a replay resumes from
// the record's last known progress. Returns the resume position in seconds.
func (s *Store) StartEpisode(ref EpisodeRef) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	resume := 0.0
	rec := s.findRecord(ref.Identifier)
	if rec == nil {
		s.state.History = append(s.state.History, HistoryRecord{Identifier: ref.Identifier})
	} else if rec.Progress != nil {
		resume = *rec.Progress
	}

	s.state.CurrentlyPlaying = &ref
	s.state.CurrentAudioTime = resume
	s.state.IsAudioPlaying = true
	return resume
}

// SetCurrentAudioTime overwrites the live playback position. Called on every
// media time-update tick, so it does nothing but the assignment.
func (s *Store) SetCurrentAudioTime(seconds float64) {
	s.mu.Lock()
	s.state.CurrentAudioTime = seconds
	s.mu.Unlock()
}

// UpdateHistoryProgress records the last known playback offset for an
// episode. It is a no-op once the record is marked fully played; progress
// tracking stops for a finished episode until it is replayed from the start.
func (s *Store) UpdateHistoryProgress(identifier string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(identifier)
	if rec == nil || rec.WasPlayedFully {
		return
	}
	rec.Progress = &seconds
}

// SetEpisodeLength sets the episode's total duration, first write wins.
// Later, possibly slightly different, duration reports never overwrite the
// canonical value.
func (s *Store) SetEpisodeLength(identifier string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(identifier)
	if rec == nil || rec.EpisodeLength != nil {
		return
	}
	rec.EpisodeLength = &seconds
}

// MarkPlayedFully marks the episode as completely played and clears its
// progress. Idempotent.
func (s *Store) MarkPlayedFully(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(identifier)
	if rec == nil {
		return
	}
	rec.WasPlayedFully = true
	rec.Progress = nil
}

// TogglePlaying sets the playing flag to explicit when given, otherwise
// flips it. Returns the new value.
func (s *Store) TogglePlaying(explicit *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if explicit != nil {
		s.state.IsAudioPlaying = *explicit
	} else {
		s.state.IsAudioPlaying = !s.state.IsAudioPlaying
	}
	return s.state.IsAudioPlaying
}

// ClosePlayer clears the currently playing episode and resets the live
// position. History is untouched.
func (s *Store) ClosePlayer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentlyPlaying = nil
	s.state.CurrentAudioTime = 0
	s.state.IsAudioPlaying = false
}

// ResetHistory empties the play history. Irreversible; callers are expected
// to have confirmed the action with the user.
func (s *Store) ResetHistory() {
	s.mu.Lock()
	s.state.History = nil
	s.mu.Unlock()
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	if s.state.CurrentlyPlaying != nil {
		ref := *s.state.CurrentlyPlaying
		out.CurrentlyPlaying = &ref
	}
	out.History = cloneHistory(s.state.History)
	return out
}

// Snapshot returns the durable subset of the current state.
func (s *Store) Snapshot() PersistedState {
	st := s.State()
	return PersistedState{
		CurrentlyPlaying: st.CurrentlyPlaying,
		CurrentAudioTime: st.CurrentAudioTime,
		History:          st.History,
	}
}

// Record returns a copy of the history record for identifier, if present.
func (s *Store) Record(identifier string) (HistoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(identifier)
	if rec == nil {
		return HistoryRecord{}, false
	}
	return rec.clone(), true
}

// findRecord must be called with the mutex held.
func (s *Store) findRecord(identifier string) *HistoryRecord {
	for i := range s.state.History {
		if s.state.History[i].Identifier == identifier {
			return &s.state.History[i]
		}
	}
	return nil
}
