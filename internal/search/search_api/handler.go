package search_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-calendar/internal/errs"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/search"
	"ms-calendar/internal/utils"
)

type Handler struct {
	Search *search.Service
	Logger *logger.Logger
}

func NewHandler(svc *search.Service, log *logger.Logger) *Handler {
	return &Handler{Search: svc, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar/search", h.SearchEvents)
}

func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.Search.Search(r.Context(), query)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Search: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("search complete", results))
}
