package service

import (
	"context"

	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/models"
	"nodosml-tf/internal/recommend"
)

// MovieService sirve el catálogo en memoria (referencia inmutable cargada
// una vez al arranque, no hay CRUD de películas).
type MovieService struct {
	ds  *dataset.Dataset
	agg *recommend.Aggregator
}

func NewMovieService(ds *dataset.Dataset, agg *recommend.Aggregator) *MovieService {
	return &MovieService{ds: ds, agg: agg}
}

func (s *MovieService) GetMovie(ctx context.Context, id int) (dataset.Movie, bool) {
	return s.ds.MovieByID(id)
}

func (s *MovieService) Search(ctx context.Context, q, genre string, limit int) []dataset.Movie {
	return s.ds.Search(q, genre, limit)
}

// Genres devuelve el vocabulario de géneros (para los filtros del frontend).
func (s *MovieService) Genres(ctx context.Context) []string {
	return s.ds.Genres
}

// Top devuelve las mejores películas por rating promedio global,
// aplicando el umbral mínimo de cantidad de ratings.
func (s *MovieService) Top(ctx context.Context, limit int) []models.RecItem {
	return s.agg.Popular(limit)
}
