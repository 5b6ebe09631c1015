package profile

import (
	"testing"

	"nodosml-tf/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Dataset {
	movies := []dataset.Movie{
		{MovieID: 1, Title: "Comedia A", Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "Drama B", Genres: []string{"Drama"}},
		{MovieID: 3, Title: "Mixta C", Genres: []string{"Comedy", "Drama"}},
	}
	ratings := []dataset.Rating{
		{UserID: 1, MovieID: 1, Rating: 5.0},
		{UserID: 1, MovieID: 2, Rating: 1.0},
		{UserID: 2, MovieID: 3, Rating: 3.0},
	}
	return dataset.New(movies, ratings)
}

func TestBuildSingleRating(t *testing.T) {
	b := NewBuilder(testDataset())

	// vocabulario ["Comedy", "Drama"] -> dim 4
	require.Equal(t, 4, b.Dim())

	vec := b.Build(map[string]float64{"1": 5.0})

	// [mean Comedy, mean Drama, mean global, cantidad]
	assert.Equal(t, []float64{5.0, 0.0, 5.0, 1.0}, vec)
}

func TestBuildGenreMeans(t *testing.T) {
	b := NewBuilder(testDataset())

	vec := b.Build(map[string]float64{
		"1": 5.0, // Comedy
		"2": 1.0, // Drama
		"3": 3.0, // Comedy|Drama
	})

	assert.InDelta(t, 4.0, vec[0], 1e-9) // Comedy: (5+3)/2
	assert.InDelta(t, 2.0, vec[1], 1e-9) // Drama: (1+3)/2
	assert.InDelta(t, 3.0, vec[2], 1e-9) // promedio global
	assert.Equal(t, 3.0, vec[3])
}

func TestBuildSkipsBadEntries(t *testing.T) {
	b := NewBuilder(testDataset())

	vec := b.Build(map[string]float64{
		"1":    5.0,
		"abc":  4.0, // movieId no numérico
		"2":    7.0, // fuera de rango
		"9999": 4.0, // no está en el catálogo
	})

	// solo el rating de la película 1 cuenta
	assert.Equal(t, []float64{5.0, 0.0, 5.0, 1.0}, vec)
}

func TestBuildEmpty(t *testing.T) {
	b := NewBuilder(testDataset())
	vec := b.Build(nil)
	assert.Equal(t, []float64{0, 0, 0, 0}, vec)
}

func TestBuildScaledColdStart(t *testing.T) {
	b := NewBuilder(testDataset())

	// sin scaler persistido: ajusta uno sobre el único perfil, el vector
	// escalado queda en el origen pero la llamada no falla
	raw, scaled, err := b.BuildScaled(map[string]float64{"1": 5.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{5.0, 0.0, 5.0, 1.0}, raw)
	assert.Equal(t, []float64{0, 0, 0, 0}, scaled)
}

func TestBuildScaledWithFittedScaler(t *testing.T) {
	b := NewBuilder(testDataset())
	sc := &Scaler{
		Mean: []float64{1, 1, 1, 1},
		Std:  []float64{2, 2, 2, 2},
	}

	_, scaled, err := b.BuildScaled(map[string]float64{"1": 5.0}, sc)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.0, -0.5, 2.0, 0.0}, scaled)
}

func TestBuildAllSortedAndDeterministic(t *testing.T) {
	ds := testDataset()
	b := NewBuilder(ds)

	userIDs, raw := BuildAll(ds, b)
	require.Equal(t, []int{1, 2}, userIDs)
	require.Len(t, raw, 2)

	// segunda corrida idéntica
	userIDs2, raw2 := BuildAll(ds, b)
	assert.Equal(t, userIDs, userIDs2)
	assert.Equal(t, raw, raw2)

	// usuario 2 solo calificó la mixta
	assert.Equal(t, []float64{3.0, 3.0, 3.0, 1.0}, raw[1])
}
