package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const moviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Comedy
2,Heat (1995),Action|Crime|Thriller
3,Documental sin año,Documentary
abc,Fila rota,Drama
4,Sin géneros,
`

const ratingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,100
1,2,3.5,100
2,1,5.0,100
1,1,2.0,200
2,2,9.0,100
x,1,4.0,100
3,3,0.5,100
`

func TestLoadMovies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "movies.csv", moviesCSV)

	movies, err := LoadMovies(path)
	require.NoError(t, err)

	// la fila con movieId no numérico se omite
	require.Len(t, movies, 4)

	assert.Equal(t, 1, movies[0].MovieID)
	assert.Equal(t, "Toy Story (1995)", movies[0].Title)
	require.NotNil(t, movies[0].Year)
	assert.Equal(t, 1995, *movies[0].Year)
	assert.Equal(t, []string{"Adventure", "Animation", "Comedy"}, movies[0].Genres)

	// título sin año entre paréntesis
	assert.Nil(t, movies[2].Year)

	// campo de géneros vacío
	assert.Empty(t, movies[3].Genres)
}

func TestLoadRatings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ratings.csv", ratingsCSV)

	ratings, err := LoadRatings(path)
	require.NoError(t, err)

	// 9.0 está fuera de rango y "x" no es userId: ambas filas fuera.
	// (1,1) aparece dos veces y colapsa en una.
	require.Len(t, ratings, 4)

	// el duplicado (1,1) conserva la posición de la primera aparición pero
	// gana el rating del timestamp más reciente
	assert.Equal(t, 1, ratings[0].UserID)
	assert.Equal(t, 1, ratings[0].MovieID)
	assert.Equal(t, 2.0, ratings[0].Rating)
	assert.Equal(t, int64(200), ratings[0].Timestamp)

	// el mínimo del rango (0.5) sí entra
	assert.Equal(t, 0.5, ratings[3].Rating)
}

func TestLoadRequiresBothFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "movies.csv", moviesCSV)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratings.csv")
}

func TestGenreVocabularySorted(t *testing.T) {
	movies := []Movie{
		{MovieID: 1, Genres: []string{"Thriller", "Action"}},
		{MovieID: 2, Genres: []string{"Comedy", "Action"}},
	}
	assert.Equal(t, []string{"Action", "Comedy", "Thriller"}, GenreVocabulary(movies))
}

func TestMovieByID(t *testing.T) {
	ds := New([]Movie{{MovieID: 7, Title: "Seven"}}, nil)

	m, ok := ds.MovieByID(7)
	require.True(t, ok)
	assert.Equal(t, "Seven", m.Title)

	_, ok = ds.MovieByID(99)
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	ds := New([]Movie{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "Heat (1995)", Genres: []string{"Action"}},
		{MovieID: 3, Title: "Toy Story 2 (1999)", Genres: []string{"Comedy"}},
	}, nil)

	// substring case-insensitive
	got := ds.Search("toy", "", 0)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].MovieID)
	assert.Equal(t, 3, got[1].MovieID)

	// filtro por género exacto
	got = ds.Search("", "Action", 0)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].MovieID)

	// ambos filtros + límite
	got = ds.Search("toy", "Comedy", 1)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].MovieID)
}
