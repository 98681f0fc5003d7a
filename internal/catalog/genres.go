package catalog

// genreTitles is the fixed genre table used by the upstream directory.
// IDs are stable and never reused.
var genreTitles = map[int]string{
	1: "Personal Growth",
	2: "True Crime and Investigative Journalism",
	3: "History",
	4: "Comedy",
	5: "Entertainment",
	6: "Business",
	7: "Fiction",
	8: "News",
	9: "Kids and Family",
}

// GenreTitle resolves a genre id to its display title.
func GenreTitle(id int) (string, bool) {
	t, ok := genreTitles[id]
	return t, ok
}

// GenreTitles resolves a list of ids, skipping unknown ones.
func GenreTitles(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := genreTitles[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// FilterByGenre returns the previews tagged with the given genre id.
func FilterByGenre(previews []Preview, genreID int) []Preview {
	out := make([]Preview, 0, len(previews))
	for _, p := range previews {
		for _, id := range p.GenreIDs {
			if id == genreID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
