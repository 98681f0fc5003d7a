package player

import "testing"

func TestEpisodeIdentifier_Format(t *testing.T) {
	got := EpisodeIdentifier("42", "3", 7)
	if got != "show-42-S3-E7" {
		t.Fatalf("unexpected identifier: %q", got)
	}
}

func TestParseIdentifier_RoundTrip(t *testing.T) {
	show, season, episode, err := ParseIdentifier(EpisodeIdentifier("10716", "1", 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show != "10716" || season != "1" || episode != 12 {
		t.Fatalf("got (%q, %q, %d)", show, season, episode)
	}
}

func TestParseIdentifier_RejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "show-42", "show-42-S3", "show-42-S3-Eseven", "42-S3-E7"} {
		if _, _, _, err := ParseIdentifier(id); err == nil {
			t.Fatalf("expected error for %q", id)
		}
	}
}
