// AngelaMos | 2026
// handler.go

package coach

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/breathnew/backend/internal/core"
)

type Handler struct {
	manager   *Manager
	client    *Client
	reports   ReportRepository
	validator *validator.Validate
}

func NewHandler(
	manager *Manager,
	client *Client,
	reports ReportRepository,
) *Handler {
	return &Handler{
		manager:   manager,
		client:    client,
		reports:   reports,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/coach", func(r chi.Router) {
		r.Post("/session", h.StartSession)
		r.Get("/messages", h.Messages)
		r.Post("/messages", h.Send)
		r.Delete("/messages/{messageID}", h.Delete)
		r.Post("/messages/{messageID}/report", h.Report)
		r.Post("/undo", h.Undo)
		r.Get("/transcript", h.Transcript)
	})

	r.Get("/motivation", h.Motivation)
	r.Post("/speech", h.Speech)
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	messages, err := h.manager.StartSession(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, messages)
}

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.manager.Messages()
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "coach session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, messages)
}

type sendRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	messages, err := h.manager.Send(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "coach session")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "message is empty after sanitization")
		case errors.Is(err, core.ErrUpgradeRequired):
			core.UpgradeRequired(
				w,
				"free message limit reached, upgrade to Pro for "+
					"unlimited coaching",
			)
		default:
			core.ServiceError(w, err)
		}
		return
	}

	core.OK(w, messages)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	messages, err := h.manager.Delete(messageID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "message")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, messages)
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	messages, restored, err := h.manager.Undo()
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "coach session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"restored": restored,
		"messages": messages,
	})
}

type reportRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Report files an abuse report for a coach message. Idempotent per
// message: a second report for the same ID is a conflict.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	msg, err := h.manager.Find(messageID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "message")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	report := &Report{
		MessageID:   messageID,
		Reason:      req.Reason,
		MessageText: msg.Text,
	}

	if err := h.reports.Create(r.Context(), report); err != nil {
		if errors.Is(err, core.ErrConflict) {
			core.Conflict(w, "message already reported")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	// The message was found above; a concurrent delete just means there
	// is nothing left to flag.
	_ = h.manager.MarkReported(messageID) //nolint:errcheck

	core.Created(w, report)
}

func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.manager.Transcript(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "coach session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"transcript": transcript})
}

func (h *Handler) Motivation(w http.ResponseWriter, r *http.Request) {
	line, err := h.manager.Motivation(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"text": line})
}

type speechRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (h *Handler) Speech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.client.Synthesize(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			core.JSONError(w, core.AINotConfiguredError(
				"the AI coach needs an API key before it can speak",
			))
			return
		}
		core.JSONError(w, core.AIUnavailableError(
			"speech synthesis failed, please try again",
		))
		return
	}

	core.OK(w, result)
}
