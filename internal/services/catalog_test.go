package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTrending(t *testing.T) {
	movies := NewCatalog().Trending()
	require.Len(t, movies, 6)

	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		titles = append(titles, m.Title)
		assert.NotEmpty(t, m.PosterURL)
		assert.NotEmpty(t, m.Genre)
	}
	assert.Equal(t, []string{"The Dark Knight", "Inception", "Interstellar", "The Matrix", "Pulp Fiction", "Fight Club"}, titles)
	assert.Equal(t, 9.0, movies[0].Rating)
	assert.Equal(t, "https://images.unsplash.com/photo-1489599211381-1b0b5bacdaa8?w=300&h=450&fit=crop", movies[0].PosterURL)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := NewCatalog()
	first := c.Trending()
	first[0].Title = "changed"
	first[0].Genre[0] = "changed"

	second := c.Trending()
	assert.Equal(t, "The Dark Knight", second[0].Title)
	assert.Equal(t, "Action", second[0].Genre[0])
}
