package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/cache"
	"nodosml-tf/internal/models"
	"nodosml-tf/internal/recommend"
	"nodosml-tf/internal/repository"
)

// ErrNoRatings: el usuario pidió recomendaciones personalizadas sin haber
// calificado nada. No es un crash, el handler lo traduce a un mensaje.
var ErrNoRatings = errors.New("el usuario no tiene ratings: califica al menos una película")

type RecommendService struct {
	ratings *repository.RatingRepository
	recRepo *repository.RecommendationRepository
	agg     *recommend.Aggregator
	store   *artifacts.Store
}

func NewRecommendService(
	r *repository.RatingRepository,
	recRepo *repository.RecommendationRepository,
	agg *recommend.Aggregator,
	store *artifacts.Store,
) *RecommendService {
	return &RecommendService{
		ratings: r,
		recRepo: recRepo,
		agg:     agg,
		store:   store,
	}
}

type RecRequest struct {
	UserID  int
	N       int
	Refresh bool
}

func cacheKey(req RecRequest) string {
	// Cachea por usuario + n (no incluye refresh, refresh solo decide si usar cache)
	return fmt.Sprintf("rec:user:%d:n:%d", req.UserID, req.N)
}

func defaultRecCacheKey(userID int) string {
	return fmt.Sprintf("rec:user:%d:n:%d", userID, recommend.DefaultN)
}

// Recommend arma la lista personalizada de un usuario registrado: sus
// ratings desde Mongo, su perfil fresco por request, y el bundle de
// artefactos vigente (solo lectura).
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]models.RecItem, string, error) {
	if req.N <= 0 {
		req.N = recommend.DefaultN
	} else if req.N > recommend.MaxN {
		req.N = recommend.MaxN
	}

	// 1) Cache Redis (solo si refresh = false)
	var cached []models.RecItem
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return cached, recommend.ModeUserKNN, nil
		}
	}

	// 2) Ratings del usuario
	userRatings, err := s.ratings.GetRatingsMap(ctx, req.UserID)
	if err != nil {
		return nil, "", err
	}
	if len(userRatings) == 0 {
		return nil, "", ErrNoRatings
	}

	// 3) Agregación (KNN o fallback popularidad)
	items, mode, err := s.agg.Recommend(userRatings, s.store.Current(), req.N)
	if err != nil {
		return nil, "", err
	}

	// 4) Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID: req.UserID,
			Mode:   mode,
			Params: map[string]any{
				"n":       req.N,
				"refresh": req.Refresh,
			},
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	// 5) Cachear en Redis (1 hora)
	if err := cache.SetJSON(ctx, cacheKey(req), items, 60*60); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}

	return items, mode, nil
}

// RecommendAnonymous atiende el caso sin sesión: el cliente manda su mapa
// de ratings en el body. Sin cache ni historial.
func (s *RecommendService) RecommendAnonymous(ctx context.Context, userRatings map[string]float64, n int) ([]models.RecItem, string, error) {
	if len(userRatings) == 0 {
		return nil, "", ErrNoRatings
	}
	return s.agg.Recommend(userRatings, s.store.Current(), n)
}

// Popular devuelve el top global (modo popularidad), cacheado 1 hora.
func (s *RecommendService) Popular(ctx context.Context, n int) ([]models.RecItem, error) {
	if n <= 0 {
		n = recommend.DefaultN
	} else if n > recommend.MaxN {
		n = recommend.MaxN
	}

	key := fmt.Sprintf("rec:popular:n:%d", n)
	var cached []models.RecItem
	if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	items := s.agg.Popular(n)

	if err := cache.SetJSON(ctx, key, items, 60*60); err != nil {
		log.Printf("error cacheando top popular en Redis: %v", err)
	}
	return items, nil
}

// History lista el historial de recomendaciones persistido.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.recRepo.FindByUser(ctx, userID, limit)
}
