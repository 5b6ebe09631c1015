package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nodosml-tf/internal/profile"
)

// Artefactos del entrenamiento offline. Se persisten como JSON para que el
// round-trip sea exacto: ajustar → guardar → cargar → consultar da lo mismo
// que consultar en memoria.

const (
	ProfilesFile = "user_profiles.json"
	KMeansFile   = "kmeans_model.json"
	KNNFile      = "knn_model.json"
)

// ErrMissing distingue "no existe el archivo" (degradable: el serving cae a
// modo popularidad) de un artefacto corrupto (error real de carga).
var ErrMissing = errors.New("artefacto no encontrado")

// Profiles: perfiles crudos y escalados de toda la población + el scaler
// ajustado sobre ella.
type Profiles struct {
	Genres  []string        `json:"genres"`
	UserIDs []int           `json:"userIds"`
	Raw     [][]float64     `json:"raw"`
	Scaled  [][]float64     `json:"scaled"`
	Scaler  *profile.Scaler `json:"scaler"`
}

// KMeans: partición de usuarios en cohortes de gusto. Solo diagnóstico,
// el camino online no la necesita, pero se persiste por reproducibilidad.
type KMeans struct {
	K         int         `json:"k"`
	Method    string      `json:"method"`
	Inertia   float64     `json:"inertia"`
	Centroids [][]float64 `json:"centroids"`
	Clusters  map[int]int `json:"clusters"` // userId -> cluster
	TrainedAt string      `json:"trainedAt"`
}

// KNN: la matriz escalada indexada + el orden de userIDs (la consulta
// devuelve filas, el orden es parte esencial del artefacto).
type KNN struct {
	NNeighbors int         `json:"nNeighbors"`
	UserIDs    []int       `json:"userIds"`
	Vectors    [][]float64 `json:"vectors"`
	TrainedAt  string      `json:"trainedAt"`
}

func SaveProfiles(dir string, p *Profiles) error { return saveJSON(filepath.Join(dir, ProfilesFile), p) }
func SaveKMeans(dir string, m *KMeans) error     { return saveJSON(filepath.Join(dir, KMeansFile), m) }
func SaveKNN(dir string, k *KNN) error           { return saveJSON(filepath.Join(dir, KNNFile), k) }

func LoadProfiles(dir string) (*Profiles, error) {
	var p Profiles
	if err := loadJSON(filepath.Join(dir, ProfilesFile), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func LoadKMeans(dir string) (*KMeans, error) {
	var m KMeans
	if err := loadJSON(filepath.Join(dir, KMeansFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadKNN(dir string) (*KNN, error) {
	var k KNN
	if err := loadJSON(filepath.Join(dir, KNNFile), &k); err != nil {
		return nil, err
	}
	return &k, nil
}

func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func loadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: artefacto corrupto: %w", path, err)
	}
	return nil
}
