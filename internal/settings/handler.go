// AngelaMos | 2026
// handler.go

package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/breathnew/backend/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Put)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.All(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, all)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if len(req) == 0 {
		core.BadRequest(w, "no settings provided")
		return
	}

	if err := h.service.Put(r.Context(), req); err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	all, err := h.service.All(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, all)
}
