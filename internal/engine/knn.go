package engine

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Índice de vecinos más cercanos por fuerza bruta bajo distancia
// euclidiana. Guarda el orden de userIDs porque la consulta devuelve
// posiciones de fila que hay que mapear de vuelta a usuarios.

type Neighbor struct {
	Distance float64 `json:"distance"`
	UserID   int     `json:"userId"`
}

type Index struct {
	UserIDs []int
	Vectors [][]float64
}

// BuildIndex construye el índice sobre los perfiles escalados.
// La fila i corresponde a userIDs[i].
func BuildIndex(userIDs []int, vectors [][]float64) (*Index, error) {
	if len(userIDs) != len(vectors) {
		return nil, fmt.Errorf("knn: %d userIDs vs %d vectores", len(userIDs), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("knn: índice vacío")
	}
	return &Index{UserIDs: userIDs, Vectors: vectors}, nil
}

func (ix *Index) Len() int { return len(ix.UserIDs) }

// Query devuelve los n usuarios más cercanos al vector de consulta,
// ascendente por distancia; empates conservan el orden de fila original.
// n mayor que la población se recorta en vez de fallar.
func (ix *Index) Query(q []float64, n int) ([]Neighbor, error) {
	if len(q) != len(ix.Vectors[0]) {
		return nil, fmt.Errorf("knn: consulta de dimensión %d, índice de %d", len(q), len(ix.Vectors[0]))
	}
	if n <= 0 {
		return nil, fmt.Errorf("knn: n=%d inválido", n)
	}
	if n > ix.Len() {
		n = ix.Len()
	}

	hits := make([]Neighbor, ix.Len())
	for i, v := range ix.Vectors {
		hits[i] = Neighbor{
			Distance: floats.Distance(q, v, 2),
			UserID:   ix.UserIDs[i],
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits[:n], nil
}
