package recommend

import (
	"testing"

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Dataset {
	movies := []dataset.Movie{
		{MovieID: 1, Title: "Comedia A", Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "Comedia B", Genres: []string{"Comedy"}},
		{MovieID: 3, Title: "Drama A", Genres: []string{"Drama"}},
		{MovieID: 4, Title: "Drama B", Genres: []string{"Drama"}},
	}
	ratings := []dataset.Rating{
		// usuario 1: fan de comedias
		{UserID: 1, MovieID: 1, Rating: 5.0},
		{UserID: 1, MovieID: 2, Rating: 5.0},
		// usuario 2: fan de comedias, un poco menos entusiasta
		{UserID: 2, MovieID: 1, Rating: 4.5},
		{UserID: 2, MovieID: 2, Rating: 4.0},
		// usuario 3: fan de dramas
		{UserID: 3, MovieID: 3, Rating: 5.0},
		{UserID: 3, MovieID: 4, Rating: 5.0},
	}
	return dataset.New(movies, ratings)
}

// entrena perfiles + knn sobre el dataset y devuelve el bundle cargado,
// mismo camino que el trainer
func trainBundle(t *testing.T, ds *dataset.Dataset, b *profile.Builder) *artifacts.Bundle {
	t.Helper()

	userIDs, raw := profile.BuildAll(ds, b)
	scaler := profile.FitScaler(raw)
	scaled, err := scaler.TransformAll(raw)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, artifacts.SaveProfiles(dir, &artifacts.Profiles{
		Genres:  b.Vocabulary(),
		UserIDs: userIDs,
		Raw:     raw,
		Scaled:  scaled,
		Scaler:  scaler,
	}))
	require.NoError(t, artifacts.SaveKNN(dir, &artifacts.KNN{
		NNeighbors: 2,
		UserIDs:    userIDs,
		Vectors:    scaled,
	}))

	bundle, err := artifacts.LoadBundle(dir)
	require.NoError(t, err)
	return bundle
}

func TestRecommendPersonalized(t *testing.T) {
	ds := testDataset()
	b := profile.NewBuilder(ds)
	bundle := trainBundle(t, ds, b)

	agg := NewAggregator(ds, b, 0, 2)

	// visitante que calificó la Comedia A: sus vecinos son los dos fans de
	// comedias, y la única película de ellos que no vio es la Comedia B
	items, mode, err := agg.Recommend(map[string]float64{"1": 5.0}, bundle, 10)
	require.NoError(t, err)
	assert.Equal(t, ModeUserKNN, mode)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].MovieID)
	assert.Equal(t, "Comedia B", items[0].Title)
	// promedio de los ratings de los vecinos: (5.0 + 4.0) / 2
	assert.InDelta(t, 4.5, items[0].Score, 1e-9)
}

func TestRecommendExcludesRated(t *testing.T) {
	ds := testDataset()
	b := profile.NewBuilder(ds)
	bundle := trainBundle(t, ds, b)

	agg := NewAggregator(ds, b, 0, 2)

	// ya vio las dos comedias: no queda nada que recomendar en modo knn
	items, mode, err := agg.Recommend(map[string]float64{"1": 5.0, "2": 5.0}, bundle, 10)
	require.NoError(t, err)
	assert.Equal(t, ModeUserKNN, mode)
	for _, it := range items {
		assert.NotContains(t, []int{1, 2}, it.MovieID)
	}
}

func TestRecommendFallbackWithoutIndex(t *testing.T) {
	ds := testDataset()
	b := profile.NewBuilder(ds)

	agg := NewAggregator(ds, b, 0, 2)

	// bundle vacío (sin artefactos): degrada a popularidad en vez de fallar
	items, mode, err := agg.Recommend(map[string]float64{"1": 5.0}, &artifacts.Bundle{}, 10)
	require.NoError(t, err)
	assert.Equal(t, ModePopular, mode)
	assert.NotEmpty(t, items)
}

func TestRecommendEmptyRatingsIsPopular(t *testing.T) {
	ds := testDataset()
	b := profile.NewBuilder(ds)
	bundle := trainBundle(t, ds, b)

	agg := NewAggregator(ds, b, 0, 2)

	_, mode, err := agg.Recommend(nil, bundle, 10)
	require.NoError(t, err)
	assert.Equal(t, ModePopular, mode)
}

func TestPopularThreshold(t *testing.T) {
	movies := []dataset.Movie{
		{MovieID: 1, Title: "Muy vista", Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "Joya de nicho", Genres: []string{"Drama"}},
	}
	var ratings []dataset.Rating
	// película 1: 12 ratings de 4.0
	for u := 1; u <= 12; u++ {
		ratings = append(ratings, dataset.Rating{UserID: u, MovieID: 1, Rating: 4.0})
	}
	// película 2: 3 ratings de 5.0, por debajo del umbral
	for u := 1; u <= 3; u++ {
		ratings = append(ratings, dataset.Rating{UserID: u, MovieID: 2, Rating: 5.0})
	}
	ds := dataset.New(movies, ratings)

	agg := NewAggregator(ds, profile.NewBuilder(ds), 10, 2)

	items := agg.Popular(10)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].MovieID)
	assert.InDelta(t, 4.0, items[0].Score, 1e-9)

	// el umbral es estricto: exactamente 10 ratings tampoco entra
	agg12 := NewAggregator(ds, profile.NewBuilder(ds), 12, 2)
	assert.Empty(t, agg12.Popular(10))
}

func TestPopularTieKeepsCatalogOrder(t *testing.T) {
	movies := []dataset.Movie{
		{MovieID: 5, Title: "Primera"},
		{MovieID: 3, Title: "Segunda"},
		{MovieID: 9, Title: "Tercera"},
	}
	var ratings []dataset.Rating
	for _, id := range []int{5, 3, 9} {
		ratings = append(ratings, dataset.Rating{UserID: 1, MovieID: id, Rating: 4.0})
		ratings = append(ratings, dataset.Rating{UserID: 2, MovieID: id, Rating: 4.0})
	}
	ds := dataset.New(movies, ratings)

	agg := NewAggregator(ds, profile.NewBuilder(ds), 1, 2)

	items := agg.Popular(10)
	require.Len(t, items, 3)
	assert.Equal(t, 5, items[0].MovieID)
	assert.Equal(t, 3, items[1].MovieID)
	assert.Equal(t, 9, items[2].MovieID)
}

func TestClampN(t *testing.T) {
	assert.Equal(t, DefaultN, clampN(0))
	assert.Equal(t, DefaultN, clampN(-3))
	assert.Equal(t, MaxN, clampN(1000))
	assert.Equal(t, 7, clampN(7))
}
