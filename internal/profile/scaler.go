package profile

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler estandariza cada feature: (x - mean) / std.
// Se ajusta una sola vez sobre la población completa de perfiles crudos y
// se reutiliza tal cual para cualquier consulta posterior; reajustarlo
// dejaría los vectores en espacios no comparables.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler ajusta media y desviación estándar poblacional por columna.
// Columnas con varianza cero escalan por 1 para no dividir entre cero.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	dim := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
	}

	col := make([]float64, len(rows))
	for j := 0; j < dim; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Std[j] = std
	}
	return s
}

func (s *Scaler) Dim() int { return len(s.Mean) }

// Transform devuelve el vector estandarizado. Falla si la dimensión no
// coincide con la del ajuste.
func (s *Scaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: dimensión %d no coincide con la ajustada %d", len(v), len(s.Mean))
	}
	out := make([]float64, len(v))
	for j, x := range v {
		out[j] = (x - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformAll estandariza una matriz fila por fila.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
