// AngelaMos | 2026
// handler.go

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/breathnew/backend/internal/core"
)

// MilestoneLookup resolves the most recently reached health milestone
// for a smoke-free duration. Wired from the milestone package in main
// to keep this package free of a catalog dependency.
type MilestoneLookup func(ctx context.Context, sinceQuit time.Duration) (any, bool)

type Handler struct {
	service         *Service
	validator       *validator.Validate
	latestMilestone MilestoneLookup
}

func NewHandler(service *Service, latestMilestone MilestoneLookup) *Handler {
	return &Handler{
		service:         service,
		validator:       validator.New(validator.WithRequiredStructEnabled()),
		latestMilestone: latestMilestone,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Post("/", h.Onboard)
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Reset)
		r.Post("/cravings", h.ResistCraving)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.Stats)
		r.Get("/summary", h.Summary)
	})
}

func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Onboard(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			core.Conflict(w, "profile already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context())
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

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Update(r.Context(), req)
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

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ResistCraving(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ResistCraving(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int{"cravingsResisted": count})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	_, stats, err := h.service.Stats(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if h.latestMilestone != nil {
		elapsed := time.Duration(
			summary.DaysSmokeFree * 24 * float64(time.Hour),
		)
		if m, ok := h.latestMilestone(r.Context(), elapsed); ok {
			summary.LatestMilestone = m
		}
	}

	core.OK(w, summary)
}
