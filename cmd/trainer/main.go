package main

import (
	"flag"
	"log"
	"time"

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/config"
	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/engine"
	"nodosml-tf/internal/profile"
)

// Entrenamiento offline: lee los CSV, arma perfiles, elige k, ajusta
// k-means y deja los tres artefactos JSON en -models. El API los levanta
// con POST /admin/model/reload (o reiniciando).
func main() {
	cfg := config.Load()

	dataDir := flag.String("data", cfg.DataDir, "directorio con movies.csv y ratings.csv")
	modelsDir := flag.String("models", cfg.ModelsDir, "directorio de salida de artefactos")
	maxK := flag.Int("max-k", 10, "k máximo a evaluar")
	fixedK := flag.Int("k", 0, "k fijo (si > 0, se salta la selección)")
	method := flag.String("method", engine.MethodElbow, "método de selección de k: elbow | silhouette")
	neighbors := flag.Int("neighbors", cfg.KNNNeighbors, "n_neighbors del índice KNN")
	flag.Parse()

	start := time.Now()

	ds, err := dataset.Load(*dataDir)
	if err != nil {
		log.Fatalf("[trainer] no se pudo cargar el dataset desde %s: %v", *dataDir, err)
	}
	log.Printf("[trainer] dataset: %d películas, %d ratings, %d géneros", len(ds.Movies), len(ds.Ratings), len(ds.Genres))

	// 1) Perfiles de toda la población + scaler ajustado sobre ella
	builder := profile.NewBuilder(ds)
	userIDs, raw := profile.BuildAll(ds, builder)
	if len(userIDs) == 0 {
		log.Fatal("[trainer] no hay usuarios con ratings, nada que entrenar")
	}

	scaler := profile.FitScaler(raw)
	scaled, err := scaler.TransformAll(raw)
	if err != nil {
		log.Fatalf("[trainer] error escalando perfiles: %v", err)
	}
	log.Printf("[trainer] %d perfiles de dimensión %d", len(userIDs), builder.Dim())

	// 2) Selección de k + ajuste final
	k := *fixedK
	if k <= 0 {
		k, err = engine.ChooseK(scaled, *maxK, *method)
		if err != nil {
			log.Fatalf("[trainer] selección de k falló: %v", err)
		}
		log.Printf("[trainer] k óptimo (%s): %d", *method, k)
	} else {
		log.Printf("[trainer] usando k fijo: %d", k)
	}

	km, err := engine.FitKMeans(scaled, k, engine.DefaultRestarts, engine.DefaultMaxIter, engine.DefaultSeed)
	if err != nil {
		log.Fatalf("[trainer] k-means falló: %v", err)
	}

	clusters := make(map[int]int, len(userIDs))
	sizes := make(map[int]int, k)
	for i, uid := range userIDs {
		clusters[uid] = km.Labels[i]
		sizes[km.Labels[i]]++
	}
	log.Printf("[trainer] inercia final: %.4f", km.Inertia)
	for c := 0; c < k; c++ {
		log.Printf("[trainer]   cluster %d: %d usuarios", c, sizes[c])
	}

	// 3) Persistir artefactos
	trainedAt := time.Now().UTC().Format(time.RFC3339)

	if err := artifacts.SaveProfiles(*modelsDir, &artifacts.Profiles{
		Genres:  builder.Vocabulary(),
		UserIDs: userIDs,
		Raw:     raw,
		Scaled:  scaled,
		Scaler:  scaler,
	}); err != nil {
		log.Fatalf("[trainer] guardando perfiles: %v", err)
	}

	if err := artifacts.SaveKMeans(*modelsDir, &artifacts.KMeans{
		K:         km.K,
		Method:    *method,
		Inertia:   km.Inertia,
		Centroids: km.Centroids,
		Clusters:  clusters,
		TrainedAt: trainedAt,
	}); err != nil {
		log.Fatalf("[trainer] guardando kmeans: %v", err)
	}

	if err := artifacts.SaveKNN(*modelsDir, &artifacts.KNN{
		NNeighbors: *neighbors,
		UserIDs:    userIDs,
		Vectors:    scaled,
		TrainedAt:  trainedAt,
	}); err != nil {
		log.Fatalf("[trainer] guardando knn: %v", err)
	}

	log.Printf("✅ [trainer] artefactos escritos en %s (%.1fs)", *modelsDir, time.Since(start).Seconds())
}
