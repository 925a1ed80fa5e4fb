// AngelaMos | 2026
// handler.go

package milestone

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/breathnew/backend/internal/core"
	"github.com/breathnew/backend/internal/profile"
)

// LanguageSource reports the user's display language for catalog text.
type LanguageSource interface {
	Language(ctx context.Context) string
}

type Handler struct {
	profiles *profile.Service
	lang     LanguageSource
}

func NewHandler(profiles *profile.Service, lang LanguageSource) *Handler {
	return &Handler{
		profiles: profiles,
		lang:     lang,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/milestones", func(r chi.Router) {
		r.Get("/", h.Timeline)
		r.Get("/{milestoneID}", h.Get)
	})
	r.Get("/achievements", h.Achievements)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	p, stats, err := h.profiles.Stats(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	sinceQuit := time.Duration(stats.SecondsSmokeFree) * time.Second
	entries := Timeline(sinceQuit, p.IsPro, h.language(r.Context()))

	core.OK(w, entries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	milestoneID := chi.URLParam(r, "milestoneID")

	p, stats, err := h.profiles.Stats(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if LockedFor(milestoneID, p.IsPro) {
		core.UpgradeRequired(w, "unlock the full health timeline with Pro")
		return
	}

	sinceQuit := time.Duration(stats.SecondsSmokeFree) * time.Second
	for _, entry := range Timeline(sinceQuit, p.IsPro, h.language(r.Context())) {
		if entry.ID == milestoneID {
			core.OK(w, entry)
			return
		}
	}

	core.NotFound(w, "milestone")
}

type achievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	p, stats, err := h.profiles.Stats(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	lang := h.language(r.Context())

	out := make([]achievementResponse, 0, len(Achievements))
	for _, a := range Achievements {
		text := a.Localize(lang)
		out = append(out, achievementResponse{
			ID:          a.ID,
			Title:       text.Title,
			Description: text.Description,
			Unlocked:    a.Unlocked(p, stats),
		})
	}

	core.OK(w, out)
}

func (h *Handler) language(ctx context.Context) string {
	if h.lang == nil {
		return LangEN
	}
	if lang := h.lang.Language(ctx); lang != "" {
		return lang
	}
	return LangEN
}
