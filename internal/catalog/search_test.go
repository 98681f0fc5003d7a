package catalog

import "testing"

func TestSearchPreviews_RanksBestFirst(t *testing.T) {
	previews := []Preview{
		{ID: "1", Title: "The Daily Brief"},
		{ID: "2", Title: "Deep Dive History"},
		{ID: "3", Title: "Daily Deep Thoughts"},
	}
	got := SearchPreviews(previews, "daily")
	if len(got) == 0 {
		t.Fatal("expected matches")
	}
	for _, p := range got {
		if p.ID == "2" {
			t.Fatal("non-matching title should be excluded")
		}
	}
}

func TestSearchPreviews_NoMatch(t *testing.T) {
	previews := []Preview{{ID: "1", Title: "The Daily Brief"}}
	if got := SearchPreviews(previews, "zzzzqqq"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestSearchPreviews_EmptyQuery(t *testing.T) {
	previews := []Preview{{ID: "1", Title: "The Daily Brief"}}
	if got := SearchPreviews(previews, ""); len(got) != 0 {
		t.Fatalf("empty query should return nothing, got %+v", got)
	}
}
