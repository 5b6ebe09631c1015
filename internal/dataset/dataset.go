package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Paquete dataset: carga movies.csv y ratings.csv (formato MovieLens) en
// memoria. Son datos de referencia de solo lectura, se cargan una vez por
// proceso; los ratings "vivos" de los usuarios van por Mongo.

const (
	MinRating = 0.5
	MaxRating = 5.0
)

type Movie struct {
	MovieID int      `json:"movieId"`
	Title   string   `json:"title"`
	Year    *int     `json:"year,omitempty"`
	Genres  []string `json:"genres"`
}

type Rating struct {
	UserID    int     `json:"userId"`
	MovieID   int     `json:"movieId"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

type Dataset struct {
	Movies  []Movie
	Ratings []Rating
	Genres  []string // vocabulario de géneros, orden lexicográfico

	byID map[int]int // movieId -> índice en Movies
}

var yearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)

// Load carga movies.csv y ratings.csv desde dataDir. Ambos archivos son
// obligatorios: si falta alguno el arranque debe abortar.
func Load(dataDir string) (*Dataset, error) {
	movies, err := LoadMovies(filepath.Join(dataDir, "movies.csv"))
	if err != nil {
		return nil, fmt.Errorf("cargando movies.csv: %w", err)
	}
	ratings, err := LoadRatings(filepath.Join(dataDir, "ratings.csv"))
	if err != nil {
		return nil, fmt.Errorf("cargando ratings.csv: %w", err)
	}
	return New(movies, ratings), nil
}

// New arma el dataset en memoria a partir de slices ya cargados.
func New(movies []Movie, ratings []Rating) *Dataset {
	d := &Dataset{
		Movies:  movies,
		Ratings: ratings,
		Genres:  GenreVocabulary(movies),
		byID:    make(map[int]int, len(movies)),
	}
	for i, m := range movies {
		d.byID[m.MovieID] = i
	}
	return d
}

func (d *Dataset) MovieByID(id int) (Movie, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Movie{}, false
	}
	return d.Movies[i], true
}

// GenreVocabulary devuelve el conjunto de géneros observados, ordenado
// lexicográficamente. El orden define las posiciones del vector de perfil,
// así que tiene que ser determinista.
func GenreVocabulary(movies []Movie) []string {
	seen := make(map[string]bool)
	for _, m := range movies {
		for _, g := range m.Genres {
			seen[g] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// LoadMovies lee el CSV de películas: movieId,title,genres.
// Extrae el año del título si viene como "Titulo (1999)".
func LoadMovies(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Movie
	line := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("línea %d: %w", line+1, err)
		}
		line++
		if line == 1 || len(rec) < 3 {
			continue // header o fila incompleta
		}

		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			log.Printf("[dataset] movies.csv línea %d: movieId inválido %q, se omite", line, rec[0])
			continue
		}

		m := Movie{
			MovieID: id,
			Title:   rec[1],
			Genres:  splitGenres(rec[2]),
		}
		if mYear := yearRe.FindStringSubmatch(rec[1]); mYear != nil {
			if y, err := strconv.Atoi(mYear[1]); err == nil {
				m.Year = &y
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadRatings lee el CSV de ratings: userId,movieId,rating,timestamp.
// Filas malformadas o con rating fuera de [0.5, 5.0] se omiten con warning.
// Duplicados (userId, movieId) colapsan al de timestamp más reciente,
// manteniendo la posición de la primera aparición.
func LoadRatings(path string) ([]Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	type key struct{ user, movie int }
	idx := make(map[key]int)

	var out []Rating
	line := 0
	skipped := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("línea %d: %w", line+1, err)
		}
		line++
		if line == 1 || len(rec) < 4 {
			continue
		}

		userID, err1 := strconv.Atoi(strings.TrimSpace(rec[0]))
		movieID, err2 := strconv.Atoi(strings.TrimSpace(rec[1]))
		rating, err3 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		ts, err4 := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			skipped++
			continue
		}
		if rating < MinRating || rating > MaxRating {
			skipped++
			continue
		}

		k := key{userID, movieID}
		if i, ok := idx[k]; ok {
			// unicidad (user, movie): gana el timestamp más reciente
			if ts >= out[i].Timestamp {
				out[i].Rating = rating
				out[i].Timestamp = ts
			}
			continue
		}
		idx[k] = len(out)
		out = append(out, Rating{UserID: userID, MovieID: movieID, Rating: rating, Timestamp: ts})
	}

	if skipped > 0 {
		log.Printf("[dataset] ratings.csv: %d filas omitidas (malformadas o fuera de rango)", skipped)
	}
	return out, nil
}

// Search filtra el catálogo por substring del título (case-insensitive) y/o
// género exacto, hasta limit resultados. Respeta el orden del catálogo.
func (d *Dataset) Search(q, genre string, limit int) []Movie {
	if limit <= 0 {
		limit = 100
	}
	q = strings.ToLower(q)

	var out []Movie
	for _, m := range d.Movies {
		if q != "" && !strings.Contains(strings.ToLower(m.Title), q) {
			continue
		}
		if genre != "" && !hasGenre(m.Genres, genre) {
			continue
		}
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func hasGenre(genres []string, g string) bool {
	for _, x := range genres {
		if x == g {
			return true
		}
	}
	return false
}
