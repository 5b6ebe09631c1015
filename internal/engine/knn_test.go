package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := BuildIndex(
		[]int{10, 20, 30, 40},
		[][]float64{
			{0, 0},
			{1, 0},
			{0, 1},
			{5, 5},
		},
	)
	require.NoError(t, err)
	return ix
}

func TestBuildIndexValidation(t *testing.T) {
	_, err := BuildIndex([]int{1, 2}, [][]float64{{0}})
	require.Error(t, err)

	_, err = BuildIndex(nil, nil)
	require.Error(t, err)
}

func TestQueryOrdering(t *testing.T) {
	ix := testIndex(t)

	hits, err := ix.Query([]float64{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// ascendente por distancia
	assert.Equal(t, 10, hits[0].UserID)
	assert.Equal(t, 0.0, hits[0].Distance)

	// empate de distancia (1.0): conserva el orden de fila original
	assert.Equal(t, 20, hits[1].UserID)
	assert.Equal(t, 30, hits[2].UserID)
}

func TestQueryClampsN(t *testing.T) {
	ix := testIndex(t)

	hits, err := ix.Query([]float64{0, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, ix.Len())
}

func TestQueryErrors(t *testing.T) {
	ix := testIndex(t)

	_, err := ix.Query([]float64{0, 0, 0}, 2)
	require.Error(t, err)

	_, err = ix.Query([]float64{0, 0}, 0)
	require.Error(t, err)
}
