package service

import (
	"context"
	"log"

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/config"
	"nodosml-tf/internal/models"
)

// ModelAdminService expone el mantenimiento de los artefactos del modelo:
// inspección y recarga desde disco (después de correr el trainer).
type ModelAdminService struct {
	cfg   *config.Config
	store *artifacts.Store
}

func NewModelAdminService(cfg *config.Config, store *artifacts.Store) *ModelAdminService {
	return &ModelAdminService{cfg: cfg, store: store}
}

// Summary arma el resumen del bundle vigente.
func (s *ModelAdminService) Summary(ctx context.Context) models.ModelSummary {
	return summarize(s.store.Current())
}

// Reload recarga los artefactos desde ModelsDir con swap atómico:
// los requests en vuelo siguen leyendo el bundle anterior.
func (s *ModelAdminService) Reload(ctx context.Context) (*models.ModelReloadResult, error) {
	b, err := s.store.Reload(s.cfg.ModelsDir)
	if err != nil {
		return nil, err
	}

	log.Printf("[admin] artefactos recargados desde %s", s.cfg.ModelsDir)
	return &models.ModelReloadResult{
		Reloaded: true,
		Summary:  summarize(b),
	}, nil
}

func summarize(b *artifacts.Bundle) models.ModelSummary {
	sum := models.ModelSummary{}
	if b == nil {
		return sum
	}

	if b.Profiles != nil {
		sum.HasProfiles = true
		sum.Users = len(b.Profiles.UserIDs)
		sum.GenreCount = len(b.Profiles.Genres)
	}
	if b.KMeans != nil {
		sum.HasKMeans = true
		sum.K = b.KMeans.K
		sum.Method = b.KMeans.Method
		sum.TrainedAt = b.KMeans.TrainedAt

		sizes := make(map[int]int, b.KMeans.K)
		for _, c := range b.KMeans.Clusters {
			sizes[c]++
		}
		sum.ClusterSizes = sizes
	}
	if b.KNN != nil {
		sum.HasKNN = true
		if sum.TrainedAt == "" {
			sum.TrainedAt = b.KNN.TrainedAt
		}
	}
	return sum
}
