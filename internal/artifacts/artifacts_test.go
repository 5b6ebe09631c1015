package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nodosml-tf/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfiles() *Profiles {
	return &Profiles{
		Genres:  []string{"Comedy", "Drama"},
		UserIDs: []int{1, 2},
		Raw:     [][]float64{{5, 0, 5, 1}, {3, 3, 3, 1}},
		Scaled:  [][]float64{{1, -1, 1, 0}, {-1, 1, -1, 0}},
		Scaler: &profile.Scaler{
			Mean: []float64{4, 1.5, 4, 1},
			Std:  []float64{1, 1.5, 1, 1},
		},
	}
}

func TestProfilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleProfiles()

	require.NoError(t, SaveProfiles(dir, want))

	got, err := LoadProfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestKNNRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &KNN{
		NNeighbors: 5,
		UserIDs:    []int{1, 2, 3},
		Vectors:    [][]float64{{0, 0}, {1, 1}, {2, 2}},
		TrainedAt:  "2026-01-01T00:00:00Z",
	}

	require.NoError(t, SaveKNN(dir, want))

	got, err := LoadKNN(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadKMeans(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KNNFile), []byte("{no es json"), 0o644))

	_, err := LoadKNN(dir)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "corrupto")
}

func TestLoadBundleEmptyDir(t *testing.T) {
	b, err := LoadBundle(t.TempDir())
	require.NoError(t, err)

	// sin artefactos no hay índice ni scaler: el serving degrada a popular
	assert.Nil(t, b.Profiles)
	assert.Nil(t, b.KMeans)
	assert.Nil(t, b.KNN)
	assert.Nil(t, b.Index())
	assert.Nil(t, b.Scaler())
}

func TestLoadBundleBuildsIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveProfiles(dir, sampleProfiles()))
	require.NoError(t, SaveKNN(dir, &KNN{
		NNeighbors: 2,
		UserIDs:    []int{1, 2},
		Vectors:    [][]float64{{1, -1, 1, 0}, {-1, 1, -1, 0}},
	}))

	b, err := LoadBundle(dir)
	require.NoError(t, err)
	require.NotNil(t, b.Index())
	require.NotNil(t, b.Scaler())

	hits, err := b.Index().Query([]float64{1, -1, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].UserID)
}

func TestLoadBundleCorruptIsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProfilesFile), []byte("xx"), 0o644))

	_, err := LoadBundle(dir)
	require.Error(t, err)
}

func TestStoreReloadSwaps(t *testing.T) {
	empty := t.TempDir()
	b0, err := LoadBundle(empty)
	require.NoError(t, err)

	store := NewStore(b0)
	assert.Same(t, b0, store.Current())

	// dejar un artefacto en otro dir y recargar
	dir := t.TempDir()
	require.NoError(t, SaveKNN(dir, &KNN{
		NNeighbors: 1,
		UserIDs:    []int{7},
		Vectors:    [][]float64{{0, 0}},
	}))

	b1, err := store.Reload(dir)
	require.NoError(t, err)
	assert.Same(t, b1, store.Current())
	assert.NotNil(t, store.Current().Index())

	// recarga fallida: el bundle vigente no cambia
	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, KNNFile), []byte("xx"), 0o644))
	_, err = store.Reload(bad)
	require.Error(t, err)
	assert.Same(t, b1, store.Current())
}
