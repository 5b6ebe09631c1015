package service

import (
	"context"
	"testing"

	"nodosml-tf/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrUpdateValidation(t *testing.T) {
	ds := dataset.New([]dataset.Movie{{MovieID: 1, Title: "Única"}}, nil)
	// la validación corre antes de tocar Mongo, así que no hace falta repo
	svc := NewRatingService(nil, ds)
	ctx := context.Background()

	err := svc.AddOrUpdate(ctx, 1, 1, 0.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuera de rango")

	err = svc.AddOrUpdate(ctx, 1, 1, 5.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuera de rango")

	err = svc.AddOrUpdate(ctx, 1, 1, 3.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "múltiplo de 0.5")

	err = svc.AddOrUpdate(ctx, 1, 99, 4.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catálogo")
}
