package filter

import (
	"testing"

	"github.com/s0up4200/moviescout/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovies() []tmdb.Movie {
	return []tmdb.Movie{
		{
			ID:         78,
			Title:      "Blade Runner",
			Overview:   "A blade runner must pursue four replicants.",
			PosterURL:  "https://image.tmdb.org/t/p/w500/br.jpg",
			Rating:     7.9,
			TrailerURL: "https://www.youtube.com/watch?v=eogpIG53Cis",
			Genres:     []string{"Science Fiction", "Drama", "Thriller"},
		},
		{
			ID:        335984,
			Title:     "Blade Runner 2049",
			Overview:  "Thirty years after the events of the first film.",
			PosterURL: tmdb.DefaultPlaceholderPosterURL,
			Rating:    7.5,
			Genres:    []string{"Science Fiction", "Drama"},
		},
		{
			ID:        12,
			Title:     "blade",
			Overview:  "",
			PosterURL: "https://image.tmdb.org/t/p/w500/b.jpg",
			Rating:    6.7,
			Genres:    []string{},
		},
	}
}

func ids(movies []tmdb.Movie) []int64 {
	out := make([]int64, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "rating comparison", expression: "Rating > 7"},
		{name: "genre helper", expression: `hasGenre("drama") and not HasTrailer`},
		{name: "string helpers", expression: `contains(Title, "runner") or startsWith(Overview, "thirty")`},
		{name: "genre list", expression: `"Drama" in Genres and len(Genres) > 1`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasGenre("unclosed`, wantErr: true},
		{name: "unknown identifier", expression: "Year > 2000", wantErr: true},
		{name: "non-boolean result", expression: "Rating + 1", wantErr: true},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []int64
	}{
		{name: "high rating", expression: "Rating > 7", want: []int64{78, 335984}},
		{name: "low rating", expression: "Rating <= 7", want: []int64{12}},
		{name: "has trailer", expression: "HasTrailer", want: []int64{78}},
		{name: "has poster", expression: "HasPoster", want: []int64{78, 12}},
		{name: "genre case insensitive", expression: `hasGenre("THRILLER")`, want: []int64{78}},
		{name: "no genres", expression: "len(Genres) == 0", want: []int64{12}},
		{name: "title match", expression: `contains(Title, "2049")`, want: []int64{335984}},
		{name: "by id", expression: "ID == 12", want: []int64{12}},
		{name: "nothing", expression: "Rating > 9", want: []int64{}},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			got, err := Apply(filter, testMovies())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyEvaluationError(t *testing.T) {
	compiler := NewCompiler(WithCustomFunctions(map[string]any{
		"explode": func(s string) bool {
			panic("boom")
		},
	}))

	filter, err := compiler.Compile(`explode(Title)`)
	require.NoError(t, err)

	_, err = Apply(filter, testMovies())
	require.Error(t, err)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Blade Runner", evalErr.MovieTitle)
}

func TestCustomPlaceholder(t *testing.T) {
	movies := testMovies()
	compiler := NewCompiler(WithPlaceholder(movies[0].PosterURL))

	filter, err := compiler.Compile("not HasPoster")
	require.NoError(t, err)

	got, err := Apply(filter, movies)
	require.NoError(t, err)
	assert.Equal(t, []int64{78}, ids(got))
}

func TestManager(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "low", "trailer"}, manager.ListFilters())

	got, err := manager.ApplyPreset("HIGH", testMovies())
	require.NoError(t, err)
	assert.Equal(t, []int64{78, 335984}, ids(got))

	require.NoError(t, manager.RegisterFilters(map[string]string{
		"high":  "Rating >= 7.9",
		"drama": `hasGenre("Drama")`,
	}))

	got, err = manager.ApplyPreset("high", testMovies())
	require.NoError(t, err)
	assert.Equal(t, []int64{78}, ids(got))

	_, err = manager.ApplyPreset("missing", testMovies())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: drama, high, low, trailer")
}

func TestManagerRegisterIsAllOrNothing(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	err = manager.RegisterFilters(map[string]string{
		"good": "Rating > 1",
		"bad":  "Rating >",
	})
	require.Error(t, err)

	var compErr *CompilationError
	assert.ErrorAs(t, err, &compErr)

	_, exists := manager.GetFilter("good")
	assert.False(t, exists)
}
