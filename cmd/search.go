package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviescout/filter"
	"github.com/s0up4200/moviescout/tmdb"
)

var (
	// Command flags
	filterExpr string
	preset     string
	sortFlag   string
	jsonOutput bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search TMDb for movies",
	Long: `Search TMDb and list every hit with its rating, genres and trailer link.

Filter expressions see Title, Overview, Rating, Genres, TrailerURL,
HasTrailer, HasPoster and ID, plus the helpers hasGenre, contains,
startsWith, endsWith, lower and upper. Examples:

  moviescout search blade runner --filter 'Rating > 7 and HasTrailer'
  moviescout search alien --preset high --sort -rating`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a named filter (see 'filters')")
	searchCmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "sort by title, -title, rating or -rating")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	sortMode, err := filter.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	logger.Info().Str("query", query).Msg("Searching movies")

	movies, err := client.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	movies, err = applyFilter(movies)
	if err != nil {
		return err
	}

	filter.Sort(movies, sortMode)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(movies)
	}

	fmt.Print(formatMovieList(movies, client.IsPlaceholder))
	return nil
}

// applyFilter picks the filter to use. Priority: command line filter >
// preset > default expression > none.
func applyFilter(movies []tmdb.Movie) ([]tmdb.Movie, error) {
	switch {
	case filterExpr != "":
		f, err := filters.Compile(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return filter.Apply(f, movies)
	case preset != "":
		return filters.ApplyPreset(preset, movies)
	case cfg.Filter.DefaultExpression != "":
		f, err := filters.Compile(cfg.Filter.DefaultExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter.default_expression: %w", err)
		}
		return filter.Apply(f, movies)
	default:
		return movies, nil
	}
}

// filtersCmd lists the named filters
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the named filters usable with --preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range filters.ListFilters() {
			f, _ := filters.GetFilter(name)
			fmt.Printf("%-12s %s\n", name, f.Expression())
		}
		return nil
	},
}
