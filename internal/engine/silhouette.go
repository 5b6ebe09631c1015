package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MeanSilhouette calcula el coeficiente de silueta promedio de una
// partición: por punto, s = (b - a) / max(a, b), donde a es la distancia
// media a su propio cluster y b la menor distancia media a otro cluster.
// Puntos en clusters de tamaño 1 aportan s = 0.
func MeanSilhouette(data [][]float64, labels []int, k int) float64 {
	n := len(data)
	if n == 0 || k < 2 {
		return 0
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	// sumas de distancia de cada punto hacia cada cluster
	sums := make([][]float64, n)
	for i := range sums {
		sums[i] = make([]float64, k)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(data[i], data[j], 2)
			sums[i][labels[j]] += d
			sums[j][labels[i]] += d
		}
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := labels[i]
		if sizes[own] <= 1 {
			continue // s = 0
		}

		a := sums[i][own] / float64(sizes[own]-1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if avg := sums[i][c] / float64(sizes[c]); avg < b {
				b = avg
			}
		}

		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}
