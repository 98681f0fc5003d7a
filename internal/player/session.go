package player

import (
	"errors"
	"fmt"
	"sync"
)

// Phase is the playback surface's position in its lifecycle. The surface
// (the browser's media element) reports events; the session validates them
// against the current phase before they reach the store.
type Phase string

const (
	// PhaseIdle means no episode is selected; the surface renders nothing.
	PhaseIdle Phase = "idle"
	// PhaseLoading means the media source was just (re)assigned and the
	// surface is waiting for the first usable data.
	PhaseLoading Phase = "loading"
	PhasePlaying Phase = "playing"
	PhasePaused  Phase = "paused"
	// PhaseEnded means the media resource finished naturally.
	PhaseEnded Phase = "ended"
	// PhaseFailed is terminal for this playback attempt: the media source
	// could not be loaded. The selected episode stays set so the surface
	// can show what failed.
	PhaseFailed Phase = "failed"
)

// EventType names every media-element event the surface can report.
type EventType string

const (
	EventLoadStarted    EventType = "load_started"
	EventLoadedMetadata EventType = "loaded_metadata"
	EventTick           EventType = "tick"
	EventToggle         EventType = "toggle"
	EventSeek           EventType = "seek"
	EventEnded          EventType = "ended"
	EventLoadFailed     EventType = "load_failed"
	EventClosed         EventType = "closed"
)

// Event is one reported media-element event.
type Event struct {
	Type EventType `json:"type"`
	// Position is the playback offset in seconds (tick, seek).
	Position float64 `json:"position,omitempty"`
	// Duration is the media length in seconds (loaded_metadata).
	Duration float64 `json:"duration,omitempty"`
	// Playing forces the play/pause flag instead of flipping it (toggle).
	Playing *bool `json:"playing,omitempty"`
	// Reason describes a load failure (load_failed).
	Reason string `json:"reason,omitempty"`
	// ClientTS is the client's millisecond timestamp, used for
	// last-write-wins ordering of progress writes.
	ClientTS int64 `json:"client_ts_ms,omitempty"`
}

// ErrInvalidTransition is returned when an event is not legal in the
// session's current phase.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnknownEvent is returned for event types the session does not know.
var ErrUnknownEvent = errors.New("unknown event type")

// Session pairs one user's store with the surface state machine. Each
// transition is a named method so it can be exercised in isolation.
// Events from the same user race in practice (ticks against a toggle or
// seek), so every entry point serializes on the session mutex; transition
// methods assume it is held.
type Session struct {
	mu    sync.Mutex
	store *Store
	phase Phase
}

// NewSession creates a session over store. A rehydrated store with an
// episode still selected starts in Paused (position restored, not playing);
// otherwise the session is Idle.
func NewSession(store *Store) *Session {
	s := &Session{store: store, phase: PhaseIdle}
	if store.State().CurrentlyPlaying != nil {
		s.phase = PhasePaused
	}
	return s
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Store() *Store { return s.store }

// Start selects ref for playback and re-enters Loading. Selecting an
// episode always reloads the media source, even when the same episode is
// already playing. Returns the resume position seeded into the surface.
func (s *Session) Start(ref EpisodeRef) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	resume := s.store.StartEpisode(ref)
	s.phase = PhaseLoading
	return resume
}

// Apply advances the session for one reported media-element event.
func (s *Session) Apply(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e.Type {
	case EventLoadStarted:
		return s.beginLoading()
	case EventLoadedMetadata:
		return s.finishLoading(e.Duration)
	case EventTick:
		return s.recordTick(e.Position)
	case EventToggle:
		return s.togglePlayback(e.Playing)
	case EventSeek:
		return s.seekTo(e.Position)
	case EventEnded:
		return s.finishPlayback()
	case EventLoadFailed:
		return s.failLoading()
	case EventClosed:
		return s.close()
	default:
		return fmt.Errorf("%w %q", ErrUnknownEvent, e.Type)
	}
}

// beginLoading re-enters Loading when the surface reloads its source.
func (s *Session) beginLoading() error {
	if s.phase == PhaseIdle {
		return fmt.Errorf("%w: load_started in %s", ErrInvalidTransition, s.phase)
	}
	s.phase = PhaseLoading
	return nil
}

// finishLoading leaves Loading once the media resource has usable data.
// This is the one point where the history record's episode length is set,
// first write wins.
func (s *Session) finishLoading(duration float64) error {
	if s.phase != PhaseLoading {
		return fmt.Errorf("%w: loaded_metadata in %s", ErrInvalidTransition, s.phase)
	}
	st := s.store.State()
	if st.CurrentlyPlaying != nil && duration > 0 {
		s.store.SetEpisodeLength(st.CurrentlyPlaying.Identifier, duration)
	}
	if st.IsAudioPlaying {
		s.phase = PhasePlaying
	} else {
		s.phase = PhasePaused
	}
	return nil
}

// recordTick refreshes the live position and, while the episode is not yet
// fully played, its history progress. Ticks arriving outside Playing/Paused
// are dropped: they are fire-and-forget and a stale one is worthless.
func (s *Session) recordTick(position float64) error {
	if s.phase != PhasePlaying && s.phase != PhasePaused {
		return nil
	}
	s.store.SetCurrentAudioTime(position)
	if st := s.store.State(); st.CurrentlyPlaying != nil {
		s.store.UpdateHistoryProgress(st.CurrentlyPlaying.Identifier, position)
	}
	return nil
}

// togglePlayback flips (or forces) the play/pause flag.
func (s *Session) togglePlayback(explicit *bool) error {
	switch s.phase {
	case PhasePlaying, PhasePaused, PhaseEnded:
	default:
		return fmt.Errorf("%w: toggle in %s", ErrInvalidTransition, s.phase)
	}
	if s.store.TogglePlaying(explicit) {
		s.phase = PhasePlaying
	} else {
		s.phase = PhasePaused
	}
	return nil
}

// seekTo moves the playback position without changing the play/pause state.
func (s *Session) seekTo(position float64) error {
	if s.phase != PhasePlaying && s.phase != PhasePaused {
		return fmt.Errorf("%w: seek in %s", ErrInvalidTransition, s.phase)
	}
	s.store.SetCurrentAudioTime(position)
	return nil
}

// finishPlayback handles natural end-of-media: the episode is marked fully
// played (clearing progress), the position resets to zero and playback
// stops.
func (s *Session) finishPlayback() error {
	if s.phase != PhasePlaying {
		return fmt.Errorf("%w: ended in %s", ErrInvalidTransition, s.phase)
	}
	if st := s.store.State(); st.CurrentlyPlaying != nil {
		s.store.MarkPlayedFully(st.CurrentlyPlaying.Identifier)
	}
	s.store.SetCurrentAudioTime(0)
	off := false
	s.store.TogglePlaying(&off)
	s.phase = PhaseEnded
	return nil
}

// failLoading records a terminal load failure for this playback attempt.
// The selected episode stays in the store.
func (s *Session) failLoading() error {
	if s.phase != PhaseLoading {
		return fmt.Errorf("%w: load_failed in %s", ErrInvalidTransition, s.phase)
	}
	off := false
	s.store.TogglePlaying(&off)
	s.phase = PhaseFailed
	return nil
}

// close returns the surface to Idle. History is untouched.
func (s *Session) close() error {
	s.store.ClosePlayer()
	s.phase = PhaseIdle
	return nil
}
