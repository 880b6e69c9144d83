package rsvp_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-calendar/internal/auth"
	"ms-calendar/internal/errs"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/rsvp"
	"ms-calendar/internal/utils"
)

type Handler struct {
	RSVP   *rsvp.Service
	Logger *logger.Logger
}

func NewHandler(svc *rsvp.Service, log *logger.Logger) *Handler {
	return &Handler{RSVP: svc, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events/{eventId}/response", func(r chi.Router) {
		r.Put("/", h.Respond)
		r.Delete("/", h.RemoveResponse)
		r.Get("/pass", h.EventPass)
	})
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}
	eventID := chi.URLParam(r, "eventId")

	var body struct {
		Status string `json:"response_status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(errs.CodeValidation, "invalid request body"))
		return
	}

	resp, err := h.RSVP.Respond(r.Context(), userID, eventID, body.Status, body.Notes)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Respond: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogRSVP(userID, eventID, "response saved: "+resp.ResponseStatus)

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("response saved", resp))
}

func (h *Handler) RemoveResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}
	eventID := chi.URLParam(r, "eventId")

	if err := h.RSVP.Remove(r.Context(), userID, eventID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RemoveResponse: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogRSVP(userID, eventID, "response removed")

	w.WriteHeader(http.StatusNoContent)
}

// EventPass streams the caller's encrypted QR entry pass as PNG.
func (h *Handler) EventPass(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}
	eventID := chi.URLParam(r, "eventId")

	png, err := h.RSVP.EventPass(r.Context(), userID, eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("EventPass: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("EventPass: failed to write response: %v", err))
	}
}
