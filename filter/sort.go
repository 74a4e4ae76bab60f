package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/s0up4200/moviescout/tmdb"
)

// SortMode orders search results. A leading "-" reverses the order.
type SortMode string

const (
	SortNone       SortMode = ""
	SortTitle      SortMode = "title"
	SortTitleDesc  SortMode = "-title"
	SortRating     SortMode = "rating"
	SortRatingDesc SortMode = "-rating"
)

// ParseSortMode validates a sort mode given on the command line
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case SortNone, SortTitle, SortTitleDesc, SortRating, SortRatingDesc:
		return mode, nil
	default:
		return SortNone, fmt.Errorf("invalid sort mode %q (must be title, -title, rating or -rating)", s)
	}
}

// Sort orders movies in place. Ties keep their search order. Titles compare
// case-insensitively; ratings ascend for "rating" and descend for "-rating".
func Sort(movies []tmdb.Movie, mode SortMode) {
	var compare func(a, b tmdb.Movie) int

	switch mode {
	case SortTitle:
		compare = compareTitle
	case SortTitleDesc:
		compare = func(a, b tmdb.Movie) int { return compareTitle(b, a) }
	case SortRating:
		compare = compareRating
	case SortRatingDesc:
		compare = func(a, b tmdb.Movie) int { return compareRating(b, a) }
	default:
		return
	}

	slices.SortStableFunc(movies, compare)
}

func compareTitle(a, b tmdb.Movie) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

func compareRating(a, b tmdb.Movie) int {
	return cmp.Compare(a.Rating, b.Rating)
}
