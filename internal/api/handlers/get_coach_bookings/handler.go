package get_coach_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/service/bookings"
)

const (
	msgInvalidCoachID = "invalid coach ID"
	msgInvalidDate    = "invalid date, expected YYYY-MM-DD"
	msgAccessDenied   = "access denied"
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

// Handle GET /api/v1/coaches/{coachId}/bookings?date=YYYY-MM-DD&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &parsed
	}

	onlyActive := r.URL.Query().Get("includeInactive") != "true"

	result, err := h.service.ListForCoach(r.Context(), coachID, userID, date, onlyActive)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /coaches/{coachId}/bookings - failed: coach_id=%d, error=%v", coachID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": handlers.FromDomainBookingList(result),
	})
}
