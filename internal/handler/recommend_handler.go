package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nodosml-tf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

type recResponse struct {
	UserID int    `json:"userId,omitempty"`
	Mode   string `json:"mode"`
	Items  any    `json:"items"`
}

// @Summary Recomendaciones para un usuario (ADMIN)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} recResponse
// @Failure 400 {string} string "el usuario no tiene ratings"
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.get(w, r, userID)
}

// @Summary Mis recomendaciones
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param n query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} recResponse
// @Failure 400 {string} string "el usuario no tiene ratings"
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, UserIDFromContext(r.Context()))
}

func (h *RecommendHandler) get(w http.ResponseWriter, r *http.Request, userID int) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, mode, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		N:       n,
		Refresh: refresh,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoRatings) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recResponse{UserID: userID, Mode: mode, Items: items})
}

type anonRecRequest struct {
	// movieId (string) -> rating, mismo formato que los perfiles
	Ratings map[string]float64 `json:"ratings"`
	N       int                `json:"n"`
}

// @Summary Recomendaciones anónimas (ratings en el body, sin sesión)
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body anonRecRequest true "ratings del visitante"
// @Success 200 {object} recResponse
// @Failure 400 {string} string "body inválido o sin ratings"
// @Router /recommendations [post]
func (h *RecommendHandler) PostAnonymous(w http.ResponseWriter, r *http.Request) {
	var req anonRecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	items, mode, err := h.svc.RecommendAnonymous(r.Context(), req.Ratings, req.N)
	if err != nil {
		if errors.Is(err, service.ErrNoRatings) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recResponse{Mode: mode, Items: items})
}

// @Summary Top global por popularidad
// @Tags recommend
// @Produce json
// @Param n query int false "cantidad (máx 50)"
// @Success 200 {array} models.RecItem
// @Router /recommendations/popular [get]
func (h *RecommendHandler) GetPopular(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	items, err := h.svc.Popular(r.Context(), n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// @Summary Mi historial de recomendaciones
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "límite (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	hist, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	// Mensaje inicial
	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	// Etapas del pipeline (perfil -> vecinos -> agregación)
	for i, stage := range []string{"perfil", "vecinos", "agregación"} {
		conn.WriteJSON(map[string]any{
			"type":  "progress",
			"step":  i + 1,
			"stage": stage,
		})
	}

	items, mode, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		N:       n,
		Refresh: refresh,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	// Mensaje final con recomendaciones
	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"mode":        mode,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
