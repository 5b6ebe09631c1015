package handler

import (
	"encoding/json"
	"net/http"

	"nodosml-tf/internal/service"

	"github.com/go-chi/chi/v5"
)

// ModelAdminHandler expone endpoints de mantenimiento del modelo.
type ModelAdminHandler struct {
	svc *service.ModelAdminService
}

// NewModelAdminHandler crea el handler.
func NewModelAdminHandler(svc *service.ModelAdminService) *ModelAdminHandler {
	return &ModelAdminHandler{svc: svc}
}

// @Summary Resumen del modelo vigente
// @Description Devuelve qué artefactos están cargados (perfiles, k-means, knn) y sus tamaños.
// @Tags admin-model
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.ModelSummary
// @Router /admin/model/summary [get]
// GET /admin/model/summary
func (h *ModelAdminHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Summary(r.Context()))
}

// @Summary Recargar artefactos del modelo
// @Description Relee los JSON de MODELS_DIR (generados por el trainer) y los activa con swap atómico.
// @Tags admin-model
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.ModelReloadResult
// @Failure 500 {string} string "artefactos corruptos o ilegibles"
// @Router /admin/model/reload [post]
// POST /admin/model/reload
func (h *ModelAdminHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reload(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Helper para montar rutas en main.go
func MountModelAdminRoutes(r chi.Router, h *ModelAdminHandler) {
	r.Route("/admin/model", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Post("/reload", h.PostReload)
	})
}
