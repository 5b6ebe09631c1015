package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nodosml-tf/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: s}
}

// @Summary Obtener película por id
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} dataset.Movie
// @Failure 404
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	m, ok := h.svc.GetMovie(r.Context(), id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

// @Summary Buscar películas por título y/o género
// @Tags movies
// @Produce json
// @Param q query string false "substring del título"
// @Param genre query string false "género exacto"
// @Param limit query int false "límite (default: 100)"
// @Success 200 {array} dataset.Movie
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	_ = json.NewEncoder(w).Encode(h.svc.Search(r.Context(), q, genre, limit))
}

// @Summary Lista de géneros del catálogo
// @Tags movies
// @Produce json
// @Success 200 {array} string
// @Router /movies/genres [get]
func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.svc.Genres(r.Context()))
}

// @Summary Top de películas por rating promedio global
// @Tags movies
// @Produce json
// @Param limit query int false "límite (default: 10, máx 50)"
// @Success 200 {array} models.RecItem
// @Router /movies/top [get]
func (h *MovieHandler) Top(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	_ = json.NewEncoder(w).Encode(h.svc.Top(r.Context(), limit))
}
