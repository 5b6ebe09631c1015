package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateKs(t *testing.T) {
	assert.Equal(t, []int{2, 3, 4, 5}, CandidateKs(5))

	// paso 2 para rangos medianos
	ks := CandidateKs(60)
	assert.Equal(t, 2, ks[0])
	assert.Equal(t, 4, ks[1])
	assert.Equal(t, 60, ks[len(ks)-1])

	// paso 5 para rangos grandes
	ks = CandidateKs(120)
	assert.Equal(t, 2, ks[0])
	assert.Equal(t, 7, ks[1])

	assert.Nil(t, CandidateKs(1))
}

func TestChooseKElbow(t *testing.T) {
	// tres nubes bien separadas: el quiebre de inercia está en k=3
	data := clusteredData()

	k, err := ChooseK(data, 6, MethodElbow)
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestChooseKSilhouette(t *testing.T) {
	data := clusteredData()

	k, err := ChooseK(data, 6, MethodSilhouette)
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestChooseKFewCandidates(t *testing.T) {
	// con 3 puntos solo quedan los candidatos 2 y 3: sin segunda
	// diferencia, elbow devuelve el mayor
	data := [][]float64{{0}, {5}, {10}}

	k, err := ChooseK(data, 10, MethodElbow)
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestChooseKErrors(t *testing.T) {
	data := clusteredData()

	_, err := ChooseK(data, 6, "gap-statistic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "desconocido")

	_, err = ChooseK([][]float64{{1}}, 6, MethodElbow)
	require.Error(t, err)
}

func TestMeanSilhouette(t *testing.T) {
	data := [][]float64{{0}, {0.1}, {10}, {10.1}}
	labels := []int{0, 0, 1, 1}

	// separación perfecta: silueta cercana a 1
	s := MeanSilhouette(data, labels, 2)
	assert.Greater(t, s, 0.9)

	// partición mala: silueta claramente menor
	bad := MeanSilhouette(data, []int{0, 1, 0, 1}, 2)
	assert.Less(t, bad, s)
}
