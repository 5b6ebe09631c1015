package engine

import (
	"fmt"
	"log"
	"math"
)

// Selección del número de clusters. Métodos soportados:
//   - elbow: segunda diferencia discreta de la inercia normalizada,
//     se elige el k del quiebre más marcado.
//   - silhouette: k con mayor coeficiente de silueta promedio.

const (
	MethodElbow      = "elbow"
	MethodSilhouette = "silhouette"
)

// CandidateKs genera el rango de candidatos 2..maxK con paso adaptativo
// al tamaño del rango: 1 hasta 50, 2 hasta 100, 5 de ahí en adelante.
func CandidateKs(maxK int) []int {
	step := 1
	if maxK > 100 {
		step = 5
	} else if maxK > 50 {
		step = 2
	}

	var out []int
	for k := 2; k <= maxK; k += step {
		out = append(out, k)
	}
	return out
}

// ChooseK evalúa los candidatos y devuelve el k óptimo según el método.
// Un método desconocido es error fatal para la herramienta offline.
func ChooseK(data [][]float64, maxK int, method string) (int, error) {
	n := len(data)
	if n < 2 {
		return 0, fmt.Errorf("choosek: se necesitan al menos 2 perfiles, hay %d", n)
	}

	// un cluster por punto es el tope duro
	var cands []int
	for _, k := range CandidateKs(maxK) {
		if k <= n {
			cands = append(cands, k)
		}
	}
	if len(cands) == 0 {
		return 0, fmt.Errorf("choosek: sin candidatos factibles para %d perfiles (maxK=%d)", n, maxK)
	}

	switch method {
	case MethodElbow:
		return chooseKElbow(data, cands)
	case MethodSilhouette:
		return chooseKSilhouette(data, cands)
	default:
		return 0, fmt.Errorf("choosek: método desconocido %q (debe ser elbow|silhouette)", method)
	}
}

func chooseKElbow(data [][]float64, cands []int) (int, error) {
	inertias := make([]float64, len(cands))
	for i, k := range cands {
		m, err := FitKMeans(data, k, DefaultRestarts, DefaultMaxIter, DefaultSeed)
		if err != nil {
			return 0, err
		}
		inertias[i] = m.Inertia
		log.Printf("[choosek] k=%d inercia=%.2f", k, m.Inertia)
	}

	if len(cands) < 3 {
		// sin tres puntos no hay segunda diferencia; devolvemos el mayor candidato
		return cands[len(cands)-1], nil
	}

	// normalizar por la primera inercia de la secuencia
	normalized := make([]float64, len(inertias))
	for i, v := range inertias {
		normalized[i] = v / inertias[0]
	}

	// primera y segunda diferencia discreta
	deltas := diff(normalized)
	deltaDeltas := diff(deltas)

	elbowIdx := 0
	maxAbs := math.Inf(-1)
	for i, dd := range deltaDeltas {
		if math.Abs(dd) > maxAbs {
			maxAbs = math.Abs(dd)
			elbowIdx = i
		}
	}

	// el índice de la segunda diferencia i corresponde al candidato i+1
	return cands[elbowIdx+1], nil
}

func chooseKSilhouette(data [][]float64, cands []int) (int, error) {
	n := len(data)

	bestK := 0
	bestScore := math.Inf(-1)
	for _, k := range cands {
		if k > n-1 {
			continue // silueta necesita al menos un punto fuera de cada cluster
		}
		m, err := FitKMeans(data, k, DefaultRestarts, DefaultMaxIter, DefaultSeed)
		if err != nil {
			return 0, err
		}
		score := MeanSilhouette(data, m.Labels, k)
		log.Printf("[choosek] k=%d silueta=%.4f", k, score)
		if score > bestScore {
			bestK, bestScore = k, score
		}
	}

	if bestK == 0 {
		return 0, fmt.Errorf("choosek: ningún candidato factible para silhouette con %d perfiles", n)
	}
	return bestK, nil
}

func diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}
