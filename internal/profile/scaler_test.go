package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScaler(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{3, 10},
	}
	sc := FitScaler(rows)

	assert.Equal(t, []float64{2, 10}, sc.Mean)
	// desviación poblacional, no muestral
	assert.InDelta(t, 1.0, sc.Std[0], 1e-9)
	// columna constante: std 0 -> 1 para no dividir entre cero
	assert.Equal(t, 1.0, sc.Std[1])
}

func TestTransform(t *testing.T) {
	sc := FitScaler([][]float64{{1, 10}, {3, 10}})

	out, err := sc.Transform([]float64{3, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.Equal(t, 0.0, out[1])
}

func TestTransformDimMismatch(t *testing.T) {
	sc := FitScaler([][]float64{{1, 2}})

	_, err := sc.Transform([]float64{1, 2, 3})
	require.Error(t, err)

	_, err = sc.TransformAll([][]float64{{1, 2}, {1}})
	require.Error(t, err)
}

func TestTransformAllRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 5}, {2, 6}, {3, 7}}
	sc := FitScaler(rows)

	scaled, err := sc.TransformAll(rows)
	require.NoError(t, err)
	require.Len(t, scaled, 3)

	// por columna: media 0 después de estandarizar
	for j := 0; j < 2; j++ {
		sum := 0.0
		for _, row := range scaled {
			sum += row[j]
		}
		assert.InDelta(t, 0.0, sum, 1e-9)
	}
}
