package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/moviescout/tmdb"
)

// maxOverview bounds the overview shown per movie
const maxOverview = 160

// formatMovieList formats a list of movies for console display
func formatMovieList(movies []tmdb.Movie, isPlaceholder func(string) bool) string {
	if len(movies) == 0 {
		return "No movies found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		formatMovie(&sb, movie, isLast, isPlaceholder)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatMovie formats a single movie entry
func formatMovie(sb *strings.Builder, movie tmdb.Movie, isLast bool, isPlaceholder func(string) bool) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s ★ %.1f\n", prefix, movie.Title, movie.Rating)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if len(movie.Genres) > 0 {
		fmt.Fprintf(sb, "%sGenres: %s\n", indent, strings.Join(movie.Genres, ", "))
	}

	if movie.HasTrailer() {
		fmt.Fprintf(sb, "%sTrailer: %s\n", indent, movie.TrailerURL)
	}

	if isPlaceholder == nil || !isPlaceholder(movie.PosterURL) {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, movie.PosterURL)
	}

	if overview := truncate(movie.Overview, maxOverview); overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, overview)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
