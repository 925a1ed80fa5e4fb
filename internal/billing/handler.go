// AngelaMos | 2026
// handler.go

package billing

import (
	"errors"
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
	r.Route("/billing", func(r chi.Router) {
		r.Post("/checkout", h.Checkout)
		r.Get("/confirm", h.Confirm)
		r.Post("/cancel", h.Cancel)
		r.Get("/portal", h.Portal)
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.BeginCheckout(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("checkout")

	p, upgraded, err := h.service.Confirm(r.Context(), status)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"upgraded": upgraded,
		"profile":  p,
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Cancel(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	url := h.service.PortalURL()
	if url == "" {
		core.NotFound(w, "billing portal")
		return
	}

	core.OK(w, map[string]string{"portalUrl": url})
}
