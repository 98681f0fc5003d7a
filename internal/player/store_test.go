package player

import (
	"encoding/json"
	"strings"
	"testing"
)

func episodeRef(show, season string, ep int) EpisodeRef {
	return EpisodeRef{
		Identifier: EpisodeIdentifier(show, season, ep),
		Episode:    ep,
		Title:      "Episode",
		File:       "https://example.com/placeholder.mp3",
	}
}

func TestStore_StartEpisode_FirstPlay(t *testing.T) {
	s := NewStore()
	ref := episodeRef("42", "3", 7)

	resume := s.StartEpisode(ref)
	if resume != 0 {
		t.Fatalf("first play should start at 0, got %v", resume)
	}

	st := s.State()
	if st.CurrentlyPlaying == nil || st.CurrentlyPlaying.Identifier != "show-42-S3-E7" {
		t.Fatalf("unexpected currently playing: %+v", st.CurrentlyPlaying)
	}
	if !st.IsAudioPlaying {
		t.Fatal("starting an episode should set playing")
	}
	if len(st.History) != 1 || st.History[0].Identifier != ref.Identifier {
		t.Fatalf("expected one history record for the episode, got %+v", st.History)
	}
	if st.History[0].Progress != nil || st.History[0].WasPlayedFully {
		t.Fatalf("fresh record should be empty, got %+v", st.History[0])
	}
}

func TestStore_StartEpisode_ResumesFromProgress(t *testing.T) {
	s := NewStore()
	ref := episodeRef("42", "3", 7)

	s.StartEpisode(ref)
	s.UpdateHistoryProgress(ref.Identifier, 125.5)
	s.ClosePlayer()

	resume := s.StartEpisode(ref)
	if resume != 125.5 {
		t.Fatalf("expected resume at 125.5, got %v", resume)
	}
	st := s.State()
	if st.CurrentAudioTime != 125.5 {
		t.Fatalf("expected position 125.5, got %v", st.CurrentAudioTime)
	}
	if len(st.History) != 1 {
		t.Fatalf("replay must not append a second record, got %d", len(st.History))
	}
}

func TestStore_UpdateHistoryProgress_StopsAfterFullyPlayed(t *testing.T) {
	s := NewStore()
	ref := episodeRef("1", "1", 1)

	s.StartEpisode(ref)
	s.MarkPlayedFully(ref.Identifier)
	s.UpdateHistoryProgress(ref.Identifier, 42)

	rec, ok := s.Record(ref.Identifier)
	if !ok {
		t.Fatal("record missing")
	}
	if rec.Progress != nil {
		t.Fatalf("progress must stay clear after fully played, got %v", *rec.Progress)
	}
}

func TestStore_SetEpisodeLength_FirstWriteWins(t *testing.T) {
	s := NewStore()
	ref := episodeRef("1", "1", 1)
	s.StartEpisode(ref)

	s.SetEpisodeLength(ref.Identifier, 1800)
	s.SetEpisodeLength(ref.Identifier, 1799.96)

	rec, _ := s.Record(ref.Identifier)
	if rec.EpisodeLength == nil || *rec.EpisodeLength != 1800 {
		t.Fatalf("expected length 1800, got %+v", rec.EpisodeLength)
	}
}

func TestStore_MarkPlayedFully_ClearsProgressAndIsIdempotent(t *testing.T) {
	s := NewStore()
	ref := episodeRef("1", "1", 1)
	s.StartEpisode(ref)
	s.UpdateHistoryProgress(ref.Identifier, 30)

	s.MarkPlayedFully(ref.Identifier)
	s.MarkPlayedFully(ref.Identifier)

	rec, _ := s.Record(ref.Identifier)
	if !rec.WasPlayedFully {
		t.Fatal("expected wasPlayedFully")
	}
	if rec.Progress != nil {
		t.Fatalf("progress should be cleared, got %v", *rec.Progress)
	}
}

func TestStore_PlayThirtySecondsThenFinish(t *testing.T) {
	s := NewStore()
	ref := episodeRef("42", "3", 7)

	s.StartEpisode(ref)
	s.SetEpisodeLength(ref.Identifier, 1800)
	s.SetCurrentAudioTime(30)
	s.UpdateHistoryProgress(ref.Identifier, 30)

	rec, _ := s.Record(ref.Identifier)
	if rec.Progress == nil || *rec.Progress != 30 {
		t.Fatalf("expected progress 30, got %+v", rec.Progress)
	}

	s.MarkPlayedFully(ref.Identifier)

	rec, _ = s.Record(ref.Identifier)
	if !rec.WasPlayedFully || rec.Progress != nil {
		t.Fatalf("finished record wrong: %+v", rec)
	}
	if rec.EpisodeLength == nil || *rec.EpisodeLength != 1800 {
		t.Fatalf("length must survive completion, got %+v", rec.EpisodeLength)
	}
}

func TestStore_TogglePlaying(t *testing.T) {
	s := NewStore()
	s.StartEpisode(episodeRef("1", "1", 1))

	if got := s.TogglePlaying(nil); got {
		t.Fatal("toggle from playing should pause")
	}
	if got := s.TogglePlaying(nil); !got {
		t.Fatal("toggle from paused should play")
	}
	on := true
	if got := s.TogglePlaying(&on); !got {
		t.Fatal("explicit true should play")
	}
	if got := s.TogglePlaying(&on); !got {
		t.Fatal("explicit true should be idempotent")
	}
}

func TestStore_ClosePlayer_KeepsHistory(t *testing.T) {
	s := NewStore()
	ref := episodeRef("1", "1", 1)
	s.StartEpisode(ref)
	s.UpdateHistoryProgress(ref.Identifier, 12)

	s.ClosePlayer()

	st := s.State()
	if st.CurrentlyPlaying != nil || st.IsAudioPlaying || st.CurrentAudioTime != 0 {
		t.Fatalf("close should reset live state, got %+v", st)
	}
	if len(st.History) != 1 {
		t.Fatal("close must not touch history")
	}
}

func TestStore_ResetHistory(t *testing.T) {
	s := NewStore()
	s.StartEpisode(episodeRef("1", "1", 1))
	s.StartEpisode(episodeRef("1", "1", 2))

	s.ResetHistory()

	if got := s.State().History; len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
}

func TestStore_RehydrateNeverResumesPlayback(t *testing.T) {
	s := NewStore()
	ref := episodeRef("42", "3", 7)
	s.StartEpisode(ref)
	s.SetCurrentAudioTime(200)
	s.UpdateHistoryProgress(ref.Identifier, 200)

	if !s.State().IsAudioPlaying {
		t.Fatal("precondition: playing before snapshot")
	}

	restored := NewStoreFrom(s.Snapshot())
	st := restored.State()
	if st.IsAudioPlaying {
		t.Fatal("rehydrated state must not be playing")
	}
	if st.CurrentlyPlaying == nil || st.CurrentlyPlaying.Identifier != ref.Identifier {
		t.Fatalf("selected episode should survive rehydration, got %+v", st.CurrentlyPlaying)
	}
	if st.CurrentAudioTime != 200 {
		t.Fatalf("position should survive rehydration, got %v", st.CurrentAudioTime)
	}
}

func TestPersistedState_OmitsPlayingFlag(t *testing.T) {
	s := NewStore()
	s.StartEpisode(episodeRef("42", "3", 7))

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "isAudioPlaying") {
		t.Fatalf("snapshot must not serialize the playing flag: %s", data)
	}
	for _, want := range []string{"currentlyPlaying", "currentAudioTime", "playerHistory"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("snapshot missing %q: %s", want, data)
		}
	}
}

func TestStore_StateIsDeepCopy(t *testing.T) {
	s := NewStore()
	ref := episodeRef("1", "1", 1)
	s.StartEpisode(ref)
	s.UpdateHistoryProgress(ref.Identifier, 10)

	st := s.State()
	*st.History[0].Progress = 999
	st.CurrentlyPlaying.Identifier = "mutated"

	rec, _ := s.Record(ref.Identifier)
	if *rec.Progress != 10 {
		t.Fatal("mutating the returned state must not affect the store")
	}
	if s.State().CurrentlyPlaying.Identifier != ref.Identifier {
		t.Fatal("mutating the returned ref must not affect the store")
	}
}
