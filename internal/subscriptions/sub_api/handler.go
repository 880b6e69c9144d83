package sub_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-calendar/internal/auth"
	"ms-calendar/internal/errs"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/models"
	subscriptions "ms-calendar/internal/subscriptions/service"
	"ms-calendar/internal/utils"
)

type SubsectorLister interface {
	ListSubsectors(ctx context.Context) ([]string, error)
}

type Handler struct {
	Subscriptions *subscriptions.Service
	Subsectors    SubsectorLister
	Logger        *logger.Logger
}

func NewHandler(svc *subscriptions.Service, subsectors SubsectorLister, log *logger.Logger) *Handler {
	return &Handler{Subscriptions: svc, Subsectors: subsectors, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/", h.ListSubscriptions)
		r.Post("/", h.CreateSubscription)
		r.Post("/activate", h.ActivateSubscription)
		r.Delete("/{subscriptionId}", h.DeleteSubscription)
	})
	r.Get("/subsectors", h.ListSubsectors)
}

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}

	subs, err := h.Subscriptions.ListActive(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListSubscriptions: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	if subs == nil {
		subs = []models.UserSubscription{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("subscriptions fetched", subs))
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(errs.CodeValidation, "missing user identity"))
		return
	}

	var body struct {
		Subsector string `json:"subsector"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(errs.CodeValidation, "invalid request body"))
		return
	}

	sub, err := h.Subscriptions.Subscribe(r.Context(), userID, body.Subsector)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateSubscription: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogSubscription("CREATE", sub.ID, fmt.Sprintf("user %s subscribed to %s", userID, sub.Subsector))

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("subscription created", sub))
}

func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID := chi.URLParam(r, "subscriptionId")

	if err := h.Subscriptions.Unsubscribe(r.Context(), subscriptionID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteSubscription: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogSubscription("DELETE", subscriptionID, "subscription removed")

	w.WriteHeader(http.StatusNoContent)
}

// ActivateSubscription is the billing collaborator's success callback carried
// over HTTP. The same path is also fed by the billing Kafka topic.
func (h *Handler) ActivateSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BillingRef string `json:"billing_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(errs.CodeValidation, "invalid request body"))
		return
	}

	sub, err := h.Subscriptions.Activate(r.Context(), body.BillingRef)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ActivateSubscription: %v", err))
		utils.WriteJSON(w, errs.HTTPStatus(err), utils.ErrorResponse(errs.CodeOf(err), errs.Message(err)))
		return
	}
	h.Logger.LogSubscription("ACTIVATE", sub.ID, "subscription activated")

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("subscription activated", sub))
}

func (h *Handler) ListSubsectors(w http.ResponseWriter, r *http.Request) {
	subsectors, err := h.Subsectors.ListSubsectors(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListSubsectors: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(errs.CodeStore, "failed to list subsectors"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("subsectors fetched", subsectors))
}
