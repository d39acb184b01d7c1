package manage_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/service/availability"
	"github.com/coachhq/booking-service/pkg/types"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCoachID     = "invalid coach ID"
	msgInvalidRuleID      = "invalid rule ID"
	msgInvalidDate        = "date must be in YYYY-MM-DD format"
	msgAccessDenied       = "only the coach may manage their availability"
	msgRuleNotFound       = "availability rule not found"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleListRules GET /api/v1/coaches/{coachId}/availability
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	coachID, ok := h.coachID(w, r)
	if !ok {
		return
	}

	rules, err := h.service.ListRules(r.Context(), coachID)
	if err != nil {
		h.logger.Error("GET /coaches/{coachId}/availability - failed: coach_id=%d, error=%v", coachID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &RulesResponse{Rules: make([]*RuleResponse, 0, len(rules))}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, FromDomainRule(rule))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleCreateRule POST /api/v1/coaches/{coachId}/availability/rules
func (h *Handler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	coachID, ok := h.coachID(w, r)
	if !ok {
		return
	}

	var req CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateRule(r.Context(), userID, req.ToDomain(coachID))
	if err != nil {
		h.respondServiceError(w, "POST /coaches/{coachId}/availability/rules", coachID, err)
		return
	}

	h.logger.Info("POST /coaches/{coachId}/availability/rules - created rule_id=%d for coach_id=%d", created.ID, coachID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainRule(created))
}

// HandleDeactivateRule DELETE /api/v1/coaches/{coachId}/availability/rules/{ruleId}
func (h *Handler) HandleDeactivateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	coachID, ok := h.coachID(w, r)
	if !ok {
		return
	}
	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.DeactivateRule(r.Context(), userID, ruleID, coachID); err != nil {
		switch {
		case errors.Is(err, availability.ErrRuleNotFound):
			handlers.RespondNotFound(w, msgRuleNotFound)
		case errors.Is(err, availability.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("DELETE /coaches/{coachId}/availability/rules/{ruleId} - failed: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /coaches/{coachId}/availability/rules/{ruleId} - deactivated rule_id=%d", ruleID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateBlackout POST /api/v1/coaches/{coachId}/availability/blackouts
func (h *Handler) HandleCreateBlackout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	coachID, ok := h.coachID(w, r)
	if !ok {
		return
	}

	var req CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	created, err := h.service.CreateBlackout(r.Context(), userID, &domain.Blackout{
		CoachID:   coachID,
		Date:      date,
		StartTime: types.TimeString(req.StartTime),
		EndTime:   types.TimeString(req.EndTime),
		Reason:    req.Reason,
	})
	if err != nil {
		h.respondServiceError(w, "POST /coaches/{coachId}/availability/blackouts", coachID, err)
		return
	}

	h.logger.Info("POST /coaches/{coachId}/availability/blackouts - created blackout_id=%d for coach_id=%d", created.ID, coachID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainBlackout(created))
}

// HandleListBlackouts GET /api/v1/coaches/{coachId}/availability/blackouts
func (h *Handler) HandleListBlackouts(w http.ResponseWriter, r *http.Request) {
	coachID, ok := h.coachID(w, r)
	if !ok {
		return
	}

	blackouts, err := h.service.ListBlackouts(r.Context(), coachID)
	if err != nil {
		h.logger.Error("GET /coaches/{coachId}/availability/blackouts - failed: coach_id=%d, error=%v", coachID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &BlackoutsResponse{Blackouts: make([]*BlackoutResponse, 0, len(blackouts))}
	for _, b := range blackouts {
		resp.Blackouts = append(resp.Blackouts, FromDomainBlackout(b))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) coachID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return 0, false
	}
	return coachID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, coachID int64, err error) {
	switch {
	case errors.Is(err, availability.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, availability.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	default:
		h.logger.Error("%s - failed: coach_id=%d, error=%v", route, coachID, err)
		handlers.RespondInternalError(w)
	}
}
