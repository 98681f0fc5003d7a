package catalog

import (
	"testing"
	"time"
)

func sortFixture() []Preview {
	return []Preview{
		{ID: "1", Title: "beta", Updated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Alpha", Updated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Title: "gamma", Updated: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func ids(previews []Preview) []string {
	out := make([]string, len(previews))
	for i, p := range previews {
		out[i] = p.ID
	}
	return out
}

func TestParseSortOption(t *testing.T) {
	if opt, err := ParseSortOption(""); err != nil || opt != SortDefault {
		t.Fatalf("empty should parse as default, got %q, %v", opt, err)
	}
	if opt, err := ParseSortOption("titleDesc"); err != nil || opt != SortTitleDesc {
		t.Fatalf("got %q, %v", opt, err)
	}
	if _, err := ParseSortOption("newest"); err == nil {
		t.Fatal("expected error for unknown option")
	}
}

func TestSortPreviews(t *testing.T) {
	cases := []struct {
		opt  SortOption
		want []string
	}{
		{SortDefault, []string{"1", "2", "3"}},
		{SortTitleAsc, []string{"2", "1", "3"}},
		{SortTitleDesc, []string{"3", "1", "2"}},
		{SortDateAsc, []string{"2", "3", "1"}},
		{SortDateDesc, []string{"1", "3", "2"}},
	}
	for _, tc := range cases {
		got := ids(SortPreviews(sortFixture(), tc.opt))
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.opt, got, tc.want)
			}
		}
	}
}

func TestSortPreviews_DoesNotMutateInput(t *testing.T) {
	in := sortFixture()
	_ = SortPreviews(in, SortTitleAsc)
	if in[0].ID != "1" {
		t.Fatal("input slice was reordered")
	}
}
