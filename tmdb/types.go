package tmdb

// Movie is a search hit enriched with its trailer and genres
type Movie struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Overview  string  `json:"overview"`
	PosterURL string  `json:"poster_url"`
	Rating    float64 `json:"rating"`
	// TrailerURL is empty when no trailer was found or the lookup failed
	TrailerURL string   `json:"trailer_url,omitempty"`
	Genres     []string `json:"genres"`
}

// HasTrailer reports whether a trailer link is present
func (m *Movie) HasTrailer() bool {
	return m.TrailerURL != ""
}

// searchResponse is the first page of /search/movie.
// Results is nil when the key is absent or null.
type searchResponse struct {
	Page    int        `json:"page"`
	Results []rawMovie `json:"results"`
}

// rawMovie uses pointers so absent and null mandatory fields can be told
// apart from zero values
type rawMovie struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
}

// videosResponse is /movie/{id}/videos
type videosResponse struct {
	ID      int64   `json:"id"`
	Results []video `json:"results"`
}

type video struct {
	Type string  `json:"type"`
	Site string  `json:"site"`
	Key  *string `json:"key"`
	Name string  `json:"name"`
}

// detailsResponse is the part of /movie/{id} used for genres
type detailsResponse struct {
	ID     int64   `json:"id"`
	Genres []genre `json:"genres"`
}

type genre struct {
	ID   int     `json:"id"`
	Name *string `json:"name"`
}
