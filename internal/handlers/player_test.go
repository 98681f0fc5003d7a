package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/example/castify/internal/player"
)

func newPlayerManager() *player.Manager {
	return player.NewManager(player.NewMemoryPersister(), zap.NewNop())
}

func startBody() map[string]any {
	return map[string]any{
		"show_id":   "42",
		"season_id": "3",
		"episode":   7,
		"title":     "Episode 7",
		"file":      "https://example.com/7.mp3",
	}
}

func applyEvent(t *testing.T, mgr *player.Manager, uid string, ev map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/events", ev), uid)
	rr := httptest.NewRecorder()
	PlayerEvents(mgr).ServeHTTP(rr, req)
	return rr
}

func TestStartPlayer_OK(t *testing.T) {
	mgr := newPlayerManager()

	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/start", startBody()), "user-1")
	rr := httptest.NewRecorder()
	StartPlayer(mgr, nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Phase  player.Phase `json:"phase"`
		State  player.State `json:"state"`
		Resume float64      `json:"resume"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Phase != player.PhaseLoading || resp.Resume != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.State.CurrentlyPlaying == nil || resp.State.CurrentlyPlaying.Identifier != "show-42-S3-E7" {
		t.Fatalf("unexpected state: %+v", resp.State)
	}
}

func TestStartPlayer_MissingFields(t *testing.T) {
	body := startBody()
	delete(body, "file")
	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/start", body), "user-1")
	rr := httptest.NewRecorder()
	StartPlayer(newPlayerManager(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPlayerEvents_FullPlaybackFlow(t *testing.T) {
	mgr := newPlayerManager()

	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/start", startBody()), "user-1")
	StartPlayer(mgr, nil).ServeHTTP(httptest.NewRecorder(), req)

	rr := applyEvent(t, mgr, "user-1", map[string]any{"type": "loaded_metadata", "duration": 1800})
	if rr.Code != http.StatusOK {
		t.Fatalf("loaded_metadata: %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Phase player.Phase `json:"phase"`
		State player.State `json:"state"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Phase != player.PhasePlaying {
		t.Fatalf("expected playing, got %s", resp.Phase)
	}

	rr = applyEvent(t, mgr, "user-1", map[string]any{"type": "tick", "position": 30, "client_ts_ms": 1000})
	if rr.Code != http.StatusOK {
		t.Fatalf("tick: %d", rr.Code)
	}

	rr = applyEvent(t, mgr, "user-1", map[string]any{"type": "ended"})
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Phase != player.PhaseEnded {
		t.Fatalf("expected ended, got %s", resp.Phase)
	}
	if len(resp.State.History) != 1 || !resp.State.History[0].WasPlayedFully {
		t.Fatalf("expected fully played history, got %+v", resp.State.History)
	}
}

func TestPlayerEvents_InvalidTransition(t *testing.T) {
	mgr := newPlayerManager()
	rr := applyEvent(t, mgr, "user-1", map[string]any{"type": "ended"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestPlayerEvents_UnknownType(t *testing.T) {
	mgr := newPlayerManager()
	rr := applyEvent(t, mgr, "user-1", map[string]any{"type": "jump"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetPlayer_EmptySession(t *testing.T) {
	req := asAuthUser(httptest.NewRequest(http.MethodGet, "/v1/player", nil), "user-1")
	rr := httptest.NewRecorder()
	GetPlayer(newPlayerManager()).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Phase player.Phase `json:"phase"`
		State player.State `json:"state"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Phase != player.PhaseIdle || resp.State.CurrentlyPlaying != nil {
		t.Fatalf("expected empty idle player, got %+v", resp)
	}
}

func TestClosePlayer_KeepsHistory(t *testing.T) {
	mgr := newPlayerManager()
	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/start", startBody()), "user-1")
	StartPlayer(mgr, nil).ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	ClosePlayer(mgr).ServeHTTP(rr, asAuthUser(httptest.NewRequest(http.MethodPost, "/v1/player/close", nil), "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Phase player.Phase `json:"phase"`
		State player.State `json:"state"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Phase != player.PhaseIdle || resp.State.CurrentlyPlaying != nil {
		t.Fatalf("close should clear the surface: %+v", resp)
	}
	if len(resp.State.History) != 1 {
		t.Fatalf("close must keep history: %+v", resp.State.History)
	}
}

func TestResetPlayHistory(t *testing.T) {
	mgr := newPlayerManager()
	req := asAuthUser(jsonReq(http.MethodPost, "/v1/player/start", startBody()), "user-1")
	StartPlayer(mgr, nil).ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	ResetPlayHistory(mgr).ServeHTTP(rr, asAuthUser(httptest.NewRequest(http.MethodDelete, "/v1/player/history", nil), "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		State player.State `json:"state"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.State.History) != 0 {
		t.Fatalf("expected empty history, got %+v", resp.State.History)
	}
}
