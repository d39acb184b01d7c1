package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/domain"
	getAvailableSlots "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidCoachID   = "invalid coach ID"
	msgInvalidServiceID = "invalid service ID"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"
	msgCoachNotFound    = "coach not found"
	msgServiceNotFound  = "service not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/coaches/{coachId}/slots?date=YYYY-MM-DD&serviceId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var serviceID *int64
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		CoachID:   coachID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCoachNotFound):
			handlers.RespondNotFound(w, msgCoachNotFound)
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /coaches/{coachId}/slots - failed: coach_id=%d, error=%v", coachID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
