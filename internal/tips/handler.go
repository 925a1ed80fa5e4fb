// AngelaMos | 2026
// handler.go

package tips

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/breathnew/backend/internal/core"
)

type LanguageSource interface {
	Language(ctx context.Context) string
}

type Handler struct {
	service   *Service
	lang      LanguageSource
	validator *validator.Validate
}

func NewHandler(service *Service, lang LanguageSource) *Handler {
	return &Handler{
		service:   service,
		lang:      lang,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tips", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/random", h.Random)
	})
}

func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	tip, err := h.service.Random(r.Context(), h.language(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tip)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tips, err := h.service.List(r.Context(), h.language(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tips)
}

type addTipRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req addTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tip, err := h.service.Add(r.Context(), req.Text, h.language(r))
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	core.Created(w, tip)
}

// language honors an explicit ?lang= query before the persisted
// preference.
func (h *Handler) language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang == "en" || lang == "zh" {
		return lang
	}
	if h.lang != nil {
		return h.lang.Language(r.Context())
	}
	return "en"
}
