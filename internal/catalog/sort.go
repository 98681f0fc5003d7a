package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortOption names the orderings the listing surfaces accept.
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortTitleAsc  SortOption = "titleAsc"
	SortTitleDesc SortOption = "titleDesc"
	SortDateAsc   SortOption = "dateAsc"
	SortDateDesc  SortOption = "dateDesc"
)

// ParseSortOption validates a raw sort query value. Empty means default.
func ParseSortOption(raw string) (SortOption, error) {
	switch SortOption(raw) {
	case "", SortDefault:
		return SortDefault, nil
	case SortTitleAsc, SortTitleDesc, SortDateAsc, SortDateDesc:
		return SortOption(raw), nil
	default:
		return "", fmt.Errorf("unknown sort option %q", raw)
	}
}

// SortSlice orders items in place by opt, using the given accessors. Title
// comparison is case-insensitive; SortDefault leaves the upstream order.
func SortSlice[T any](items []T, opt SortOption, title func(T) string, updated func(T) time.Time) {
	switch opt {
	case SortTitleAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(title(items[i])) < strings.ToLower(title(items[j]))
		})
	case SortTitleDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(title(items[i])) > strings.ToLower(title(items[j]))
		})
	case SortDateAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return updated(items[i]).Before(updated(items[j]))
		})
	case SortDateDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return updated(items[i]).After(updated(items[j]))
		})
	}
}

// SortPreviews returns a sorted copy of previews.
func SortPreviews(previews []Preview, opt SortOption) []Preview {
	out := make([]Preview, len(previews))
	copy(out, previews)
	SortSlice(out, opt,
		func(p Preview) string { return p.Title },
		func(p Preview) time.Time { return p.Updated })
	return out
}
