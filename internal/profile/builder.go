package profile

import (
	"log"
	"sort"
	"strconv"

	"nodosml-tf/internal/dataset"

	"gonum.org/v1/gonum/stat"
)

// Builder construye el vector de gustos de un usuario: promedio de rating
// por género + dos features agregadas (rating promedio global y cantidad de
// películas calificadas). Dimensión = |vocabulario| + 2; las dos extras son
// obligatorias para que el vector calce con el scaler ajustado offline.

type Builder struct {
	vocab    []string
	genreIdx map[string]int
	genresOf map[int][]string // movieId -> géneros
}

func NewBuilder(ds *dataset.Dataset) *Builder {
	b := &Builder{
		vocab:    ds.Genres,
		genreIdx: make(map[string]int, len(ds.Genres)),
		genresOf: make(map[int][]string, len(ds.Movies)),
	}
	for i, g := range ds.Genres {
		b.genreIdx[g] = i
	}
	for _, m := range ds.Movies {
		b.genresOf[m.MovieID] = m.Genres
	}
	return b
}

// Dim es la dimensión de los vectores que produce el builder.
func (b *Builder) Dim() int { return len(b.vocab) + 2 }

// Vocabulary devuelve el vocabulario de géneros (orden = posiciones del vector).
func (b *Builder) Vocabulary() []string { return b.vocab }

// Build arma el vector crudo a partir de un mapa movieId(string) -> rating,
// que es el formato que entrega el rating store. Entradas malformadas
// (id no numérico, rating fuera de [0.5, 5.0]) o con película desconocida
// se omiten sin hacer fallar la llamada.
func (b *Builder) Build(ratings map[string]float64) []float64 {
	sums := make([]float64, len(b.vocab))
	counts := make([]int, len(b.vocab))

	var values []float64
	for idStr, rating := range ratings {
		movieID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Printf("[profile] movieId inválido %q, se omite", idStr)
			continue
		}
		if rating < dataset.MinRating || rating > dataset.MaxRating {
			log.Printf("[profile] rating fuera de rango para movieId=%d: %v, se omite", movieID, rating)
			continue
		}
		genres, ok := b.genresOf[movieID]
		if !ok {
			// película fuera del catálogo: no aporta géneros ni estadísticas
			continue
		}

		values = append(values, rating)
		for _, g := range genres {
			if j, ok := b.genreIdx[g]; ok {
				sums[j] += rating
				counts[j]++
			}
		}
	}

	vec := make([]float64, b.Dim())
	for j := range b.vocab {
		if counts[j] > 0 {
			vec[j] = sums[j] / float64(counts[j])
		}
	}
	if len(values) > 0 {
		vec[len(b.vocab)] = stat.Mean(values, nil)
	}
	vec[len(b.vocab)+1] = float64(len(values))
	return vec
}

// BuildScaled devuelve el vector crudo y el escalado. Si no hay scaler
// ajustado (sin artefactos persistidos) ajusta uno al vuelo sobre este
// único vector: degrada la calidad pero no puede romper la llamada.
func (b *Builder) BuildScaled(ratings map[string]float64, sc *Scaler) (raw, scaled []float64, err error) {
	raw = b.Build(ratings)
	if sc == nil {
		log.Printf("[profile] sin scaler ajustado, se ajusta uno con un solo perfil (cold start)")
		sc = FitScaler([][]float64{raw})
	}
	scaled, err = sc.Transform(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, scaled, nil
}

// BuildAll construye el perfil crudo de cada usuario presente en el dataset
// de ratings (usuarios sin ratings no generan perfil). Los userIDs salen
// ordenados ascendente: esa posición es la fila del usuario en la matriz y
// el índice KNN depende de ella.
func BuildAll(ds *dataset.Dataset, b *Builder) (userIDs []int, raw [][]float64) {
	byUser := make(map[int]map[string]float64)
	for _, r := range ds.Ratings {
		m, ok := byUser[r.UserID]
		if !ok {
			m = make(map[string]float64)
			byUser[r.UserID] = m
		}
		m[strconv.Itoa(r.MovieID)] = r.Rating
	}

	userIDs = make([]int, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	raw = make([][]float64, len(userIDs))
	for i, id := range userIDs {
		raw[i] = b.Build(byUser[id])
	}
	return userIDs, raw
}
