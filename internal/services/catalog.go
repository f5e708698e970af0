package services

import "github.com/amaumene/rdstream/internal/models"

const (
	posterSize   = "w=300&h=450&fit=crop"
	backdropSize = "w=1200&h=675&fit=crop"
)

// Catalog serves the trending movies shown on the home screen. There is no
// metadata provider behind it; the list is fixed.
type Catalog struct {
	movies []models.Movie
}

func NewCatalog() *Catalog {
	return &Catalog{movies: trendingMovies()}
}

// Trending returns a copy of the catalog.
func (c *Catalog) Trending() []models.Movie {
	out := make([]models.Movie, len(c.movies))
	for i, m := range c.movies {
		m.Genre = append([]string(nil), m.Genre...)
		out[i] = m
	}
	return out
}

func unsplash(photo, size string) string {
	return "https://images.unsplash.com/" + photo + "?" + size
}

func movie(id, title, overview, photo, released string, rating float64, duration int, genre ...string) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       title,
		Overview:    overview,
		PosterURL:   unsplash(photo, posterSize),
		BackdropURL: unsplash(photo, backdropSize),
		ReleaseDate: released,
		Rating:      rating,
		Genre:       genre,
		Duration:    duration,
	}
}

func trendingMovies() []models.Movie {
	return []models.Movie{
		movie("1", "The Dark Knight",
			"When the menace known as the Joker wreaks havoc and chaos on the people of Gotham...",
			"photo-1489599211381-1b0b5bacdaa8", "2008-07-18", 9.0, 152, "Action", "Crime", "Drama"),
		movie("2", "Inception",
			"A thief who steals corporate secrets through dream-sharing technology...",
			"photo-1518676590629-3dcbd9c5a5c9", "2010-07-16", 8.8, 148, "Action", "Sci-Fi", "Thriller"),
		movie("3", "Interstellar",
			"A team of explorers travel through a wormhole in space...",
			"photo-1446776653964-20c1d3a81b06", "2014-11-07", 8.6, 169, "Adventure", "Drama", "Sci-Fi"),
		movie("4", "The Matrix",
			"A computer hacker learns from mysterious rebels about the true nature of his reality...",
			"photo-1626814026160-2237a95fc5a0", "1999-03-31", 8.7, 136, "Action", "Sci-Fi"),
		movie("5", "Pulp Fiction",
			"The lives of two mob hitmen, a boxer, a gangster and his wife intertwine...",
			"photo-1489599211381-1b0b5bacdaa8", "1994-10-14", 8.9, 154, "Crime", "Drama"),
		movie("6", "Fight Club",
			"An insomniac office worker and a devil-may-care soapmaker form an underground fight club...",
			"photo-1518676590629-3dcbd9c5a5c9", "1999-10-15", 8.8, 139, "Drama"),
	}
}
