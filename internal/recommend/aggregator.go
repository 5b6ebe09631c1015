package recommend

import (
	"log"
	"sort"
	"strconv"

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/models"
	"nodosml-tf/internal/profile"
)

// Agregador de recomendaciones. Dos modos, en este orden de prioridad:
//  1. user-knn: perfil del usuario → scaler compartido → vecinos del índice
//     KNN → promedio de ratings de esos vecinos por película.
//  2. popular: promedio global por película, filtrando las que tienen pocos
//     ratings para que un solo 5 estrellas no las infle.
// El modo popular también es el fallback cuando no hay índice KNN cargado.

const (
	ModeUserKNN = "user-knn"
	ModePopular = "popular"

	DefaultN = 10
	MaxN     = 50 // por seguridad, no deja pedir 1000 ítems
)

type Aggregator struct {
	ds        *dataset.Dataset
	builder   *profile.Builder
	minRating int // umbral de cantidad de ratings para el modo popular
	neighbors int // vecinos a consultar en el modo personalizado
}

func NewAggregator(ds *dataset.Dataset, b *profile.Builder, minPopularRatings, neighbors int) *Aggregator {
	if minPopularRatings < 0 {
		minPopularRatings = 0
	}
	if neighbors <= 0 {
		neighbors = 5
	}
	return &Aggregator{
		ds:        ds,
		builder:   b,
		minRating: minPopularRatings,
		neighbors: neighbors,
	}
}

// Recommend devuelve hasta n recomendaciones y el modo usado. Con ratings
// no vacíos intenta el modo personalizado; sin ratings (o sin modelo KNN)
// usa popularidad. Nunca muta los artefactos.
func (a *Aggregator) Recommend(userRatings map[string]float64, bundle *artifacts.Bundle, n int) ([]models.RecItem, string, error) {
	n = clampN(n)

	if len(userRatings) > 0 {
		items, err := a.personalized(userRatings, bundle, n)
		if err != nil {
			return nil, "", err
		}
		if items != nil {
			return items, ModeUserKNN, nil
		}
		// sin índice KNN: degradar a popularidad en vez de fallar
		log.Printf("[recommend] sin índice KNN cargado, fallback a modo popular")
	}

	return a.Popular(n), ModePopular, nil
}

// personalized devuelve nil (sin error) cuando no hay índice disponible.
func (a *Aggregator) personalized(userRatings map[string]float64, bundle *artifacts.Bundle, n int) ([]models.RecItem, error) {
	ix := bundle.Index()
	if ix == nil {
		return nil, nil
	}

	_, scaled, err := a.builder.BuildScaled(userRatings, bundle.Scaler())
	if err != nil {
		return nil, err
	}

	hits, err := ix.Query(scaled, a.neighbors)
	if err != nil {
		return nil, err
	}

	neighborSet := make(map[int]bool, len(hits))
	for _, h := range hits {
		neighborSet[h.UserID] = true
	}

	// promedio de rating por película sobre los eventos de los vecinos
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range a.ds.Ratings {
		if !neighborSet[r.UserID] {
			continue
		}
		sums[r.MovieID] += r.Rating
		counts[r.MovieID]++
	}

	// películas ya calificadas por el usuario quedan fuera
	rated := make(map[int]bool, len(userRatings))
	for idStr := range userRatings {
		if id, err := strconv.Atoi(idStr); err == nil {
			rated[id] = true
		}
	}

	return a.rank(n, func(movieID int) (float64, bool) {
		c, ok := counts[movieID]
		if !ok || rated[movieID] {
			return 0, false
		}
		return sums[movieID] / float64(c), true
	}), nil
}

// Popular calcula el top global: promedio por película entre todos los
// eventos de rating, solo películas con más de minRating ratings.
func (a *Aggregator) Popular(n int) []models.RecItem {
	n = clampN(n)

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range a.ds.Ratings {
		sums[r.MovieID] += r.Rating
		counts[r.MovieID]++
	}

	return a.rank(n, func(movieID int) (float64, bool) {
		c := counts[movieID]
		if c <= a.minRating {
			return 0, false
		}
		return sums[movieID] / float64(c), true
	})
}

// rank recorre el catálogo en su orden (join estable: los empates de score
// conservan el orden del catálogo), arma los candidatos y devuelve el top n
// sin duplicados.
func (a *Aggregator) rank(n int, score func(movieID int) (float64, bool)) []models.RecItem {
	items := make([]models.RecItem, 0, n)
	for _, m := range a.ds.Movies {
		s, ok := score(m.MovieID)
		if !ok {
			continue
		}
		items = append(items, models.RecItem{
			MovieID: m.MovieID,
			Title:   m.Title,
			Genres:  m.Genres,
			Score:   s,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func clampN(n int) int {
	if n <= 0 {
		return DefaultN
	}
	if n > MaxN {
		return MaxN
	}
	return n
}
