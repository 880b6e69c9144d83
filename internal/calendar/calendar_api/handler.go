package calendar_api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-calendar/internal/auth"
	"ms-calendar/internal/calendar"
	"ms-calendar/internal/errs"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/utils"
)

type Handler struct {
	Calendar *calendar.Service
	Logger   *logger.Logger
}

func NewHandler(svc *calendar.Service, log *logger.Logger) *Handler {
	return &Handler{Calendar: svc, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar/events", h.GetCalendarEvents)
}

// GetCalendarEvents resolves and assembles the caller's calendar for
// [start, end]. Dates accept RFC3339 or plain YYYY-MM-DD.
func (h *Handler) GetCalendarEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}

	start, err := parseDate(r.URL.Query().Get("start"), false)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(errs.CodeValidation, "invalid start date"))
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"), true)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(errs.CodeValidation, "invalid end date"))
		return
	}

	views, err := h.Calendar.CalendarView(r.Context(), userID, start, end)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCalendarEvents: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogCalendar(userID, fmt.Sprintf("resolved %d visible events", len(views)))

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("calendar fetched", views))
}

// parseDate accepts RFC3339 or YYYY-MM-DD; bare dates snap to the start or end
// of the day so a one-day range covers the whole day.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return t, nil
}
