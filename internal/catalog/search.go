package catalog

import "github.com/sahilm/fuzzy"

// previewSource adapts a preview slice to the fuzzy matcher.
type previewSource []Preview

func (s previewSource) String(i int) string { return s[i].Title }
func (s previewSource) Len() int            { return len(s) }

// SearchPreviews ranks previews by fuzzy title match against query, best
// first. An empty query or no match returns an empty slice.
func SearchPreviews(previews []Preview, query string) []Preview {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, previewSource(previews))
	out := make([]Preview, 0, len(matches))
	for _, m := range matches {
		out = append(out, previews[m.Index])
	}
	return out
}
