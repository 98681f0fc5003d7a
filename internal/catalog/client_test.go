package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ListShows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shows" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"10716","title":"Something Was Wrong","seasons":14,"genres":[1,2],"updated":"2022-11-03T07:00:00.000Z"},
			{"id":"5276","title":"Truth & Justice","seasons":10,"genres":[2],"updated":"2022-11-01T07:00:00.000Z"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	previews, err := c.ListShows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(previews))
	}
	if previews[0].ID != "10716" || previews[0].Seasons != 14 {
		t.Fatalf("unexpected preview: %+v", previews[0])
	}
	if len(previews[0].GenreIDs) != 2 || previews[0].GenreIDs[0] != 1 {
		t.Fatalf("unexpected genres: %+v", previews[0].GenreIDs)
	}
	if previews[0].Updated.IsZero() {
		t.Fatal("updated should parse")
	}
}

func TestClient_GetShow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/id/10716" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"10716","title":"Something Was Wrong","genres":["True Crime and Investigative Journalism"],
			"updated":"2022-11-03T07:00:00.000Z",
			"seasons":[{"season":1,"title":"Season 1","episodes":[
				{"episode":1,"title":"Pilot","file":"https://example.com/1.mp3"}
			]}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	show, err := c.GetShow(context.Background(), "10716")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show.Title != "Something Was Wrong" || len(show.Seasons) != 1 {
		t.Fatalf("unexpected show: %+v", show)
	}
	if show.Seasons[0].Episodes[0].File != "https://example.com/1.mp3" {
		t.Fatalf("unexpected episode: %+v", show.Seasons[0].Episodes[0])
	}
}

func TestClient_GetShow_RequiresID(t *testing.T) {
	c := NewClient("http://unused")
	if _, err := c.GetShow(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.ListShows(context.Background()); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}
