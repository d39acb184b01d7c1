package get_calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/domain"
)

const (
	msgInvalidUserID = "invalid user ID"
	msgInvalidMonth  = "month must be in YYYY-MM format"
	msgAccessDenied  = "calendar is only visible to its owner"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/calendar?month=YYYY-MM&as=coach
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	pathUserID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}
	if pathUserID != userID {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	rawMonth := r.URL.Query().Get("month")
	month, err := time.Parse(domain.MonthFormat, rawMonth)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}
	asCoach := r.URL.Query().Get("as") == "coach"

	days, err := h.service.GetCalendar(r.Context(), userID, month, asCoach)
	if err != nil {
		h.logger.Error("GET /users/{userId}/calendar - failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/calendar - user_id=%d, month=%s, days=%d", userID, rawMonth, len(days))
	handlers.RespondJSON(w, http.StatusOK, FromCalendarDays(rawMonth, days))
}
