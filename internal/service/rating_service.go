package service

import (
	"context"
	"fmt"
	"math"

	"nodosml-tf/internal/cache"
	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/models"
	"nodosml-tf/internal/repository"
)

type RatingService struct {
	ratings *repository.RatingRepository
	ds      *dataset.Dataset
}

func NewRatingService(r *repository.RatingRepository, ds *dataset.Dataset) *RatingService {
	return &RatingService{
		ratings: r,
		ds:      ds,
	}
}

// AddOrUpdate valida y guarda (upsert) el rating de un usuario.
// Rango permitido [0.5, 5.0] en pasos de 0.5, como el dataset original.
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < dataset.MinRating || rating > dataset.MaxRating {
		return fmt.Errorf("rating %.2f fuera de rango [%.1f, %.1f]", rating, dataset.MinRating, dataset.MaxRating)
	}
	if math.Mod(rating*2, 1) != 0 {
		return fmt.Errorf("rating %.2f inválido: debe ser múltiplo de 0.5", rating)
	}
	if _, ok := s.ds.MovieByID(movieID); !ok {
		return fmt.Errorf("movie %d no está en el catálogo", movieID)
	}

	if err := s.ratings.UpsertRating(ctx, userID, movieID, rating); err != nil {
		return err
	}

	// el rating cambió: la recomendación cacheada por defecto ya no vale
	_ = cache.Invalidate(ctx, defaultRecCacheKey(userID))
	return nil
}

// Delete borra un rating del usuario; false si no existía.
func (s *RatingService) Delete(ctx context.Context, userID, movieID int) (bool, error) {
	ok, err := s.ratings.DeleteRating(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	if ok {
		_ = cache.Invalidate(ctx, defaultRecCacheKey(userID))
	}
	return ok, nil
}

func (s *RatingService) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}

// GetRatingsMap devuelve movieId(string) -> rating, el formato que consume
// el builder de perfiles.
func (s *RatingService) GetRatingsMap(ctx context.Context, userID int) (map[string]float64, error) {
	return s.ratings.GetRatingsMap(ctx, userID)
}
