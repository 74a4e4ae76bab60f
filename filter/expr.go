package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/s0up4200/moviescout/tmdb"
)

// Filter is a compiled expression evaluated against one movie at a time.
// It is safe for concurrent use.
type Filter struct {
	expression  string
	program     *vm.Program
	helpers     map[string]any
	placeholder string
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithPlaceholder sets the poster URL that hasPoster treats as missing
func WithPlaceholder(url string) CompilerOption {
	return func(c *Compiler) {
		c.placeholder = url
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// Compiler compiles expressions over search results
type Compiler struct {
	helperFuncs map[string]any
	placeholder string
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helperFuncs: createHelperFunctions(),
		placeholder: tmdb.DefaultPlaceholderPosterURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression into an executable filter. Unknown
// identifiers and non-boolean results are compile errors.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// A zero movie gives the checker every variable and its type
	program, err := expr.Compile(expression,
		expr.Env(c.environment(tmdb.Movie{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression:  expression,
		program:     program,
		helpers:     c.helperFuncs,
		placeholder: c.placeholder,
	}, nil
}

// Match evaluates the filter against a movie
func (f *Filter) Match(movie tmdb.Movie) (bool, error) {
	result, err := expr.Run(f.program, environment(movie, f.placeholder, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Apply returns the movies matching f in their original order
func Apply(f *Filter, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	matches := make([]tmdb.Movie, 0, len(movies))
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, movie)
		}
	}
	return matches, nil
}

func (c *Compiler) environment(movie tmdb.Movie) map[string]any {
	return environment(movie, c.placeholder, c.helperFuncs)
}

// createHelperFunctions creates the movie-independent helper functions
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 8)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// environment creates the evaluation environment for one movie
func environment(movie tmdb.Movie, placeholder string, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+12)
	maps.Copy(env, helpers)

	env["hasGenre"] = createHasGenreFunc(movie.Genres)

	// Direct movie properties
	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["Overview"] = movie.Overview
	env["Rating"] = movie.Rating
	env["PosterURL"] = movie.PosterURL
	env["TrailerURL"] = movie.TrailerURL
	env["Genres"] = genresOrEmpty(movie.Genres)
	env["HasTrailer"] = movie.HasTrailer()
	env["HasPoster"] = movie.PosterURL != "" && movie.PosterURL != placeholder

	return env
}

func createHasGenreFunc(genres []string) func(string) bool {
	// Pre-convert to lowercase for case-insensitive comparison
	lower := make([]string, len(genres))
	for i, g := range genres {
		lower[i] = strings.ToLower(g)
	}
	return func(genre string) bool {
		return slices.Contains(lower, strings.ToLower(genre))
	}
}

func genresOrEmpty(genres []string) []string {
	if genres == nil {
		return []string{}
	}
	return genres
}
