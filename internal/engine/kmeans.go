package engine

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// K-means clásico por reubicación iterativa (Lloyd) con reinicios
// aleatorios: se queda con la corrida de menor inercia. Con la misma
// semilla el resultado es determinista.

const (
	DefaultRestarts = 10
	DefaultMaxIter  = 300
	DefaultSeed     = 42
)

type KMeansModel struct {
	K         int         `json:"k"`
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
	Inertia   float64     `json:"inertia"`
}

// FitKMeans particiona data en k clusters minimizando la suma de distancias
// euclidianas al cuadrado dentro de cada cluster.
func FitKMeans(data [][]float64, k, restarts, maxIter int, seed int64) (*KMeansModel, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("kmeans: no hay datos")
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("kmeans: k=%d inválido para %d puntos", k, n)
	}
	if restarts < 1 {
		restarts = DefaultRestarts
	}
	if maxIter < 1 {
		maxIter = DefaultMaxIter
	}

	rng := rand.New(rand.NewSource(seed))

	best := &KMeansModel{Inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		centroids, labels, inertia := lloyd(data, k, maxIter, rng)
		if inertia < best.Inertia {
			best = &KMeansModel{K: k, Centroids: centroids, Labels: labels, Inertia: inertia}
		}
	}
	return best, nil
}

func lloyd(data [][]float64, k, maxIter int, rng *rand.Rand) ([][]float64, []int, float64) {
	n := len(data)
	dim := len(data[0])

	// centroides iniciales: k puntos distintos del dataset
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), data[perm[i]]...)
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// asignación: cada punto a su centroide más cercano
		for i, p := range data {
			bestC, bestD := 0, math.Inf(1)
			for c, cent := range centroids {
				d := sqDist(p, cent)
				if d < bestD {
					bestC, bestD = c, d
				}
			}
			if labels[i] != bestC {
				labels[i] = bestC
				changed = true
			}
		}
		if !changed {
			break
		}

		// actualización: centroide = media de sus puntos asignados
		for c := range sums {
			for j := range sums[c] {
				sums[c][j] = 0
			}
			counts[c] = 0
		}
		for i, p := range data {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // cluster vacío: conserva su centroide anterior
			}
			copy(centroids[c], sums[c])
			floats.Scale(1/float64(counts[c]), centroids[c])
		}
	}

	inertia := 0.0
	for i, p := range data {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return centroids, labels, inertia
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
