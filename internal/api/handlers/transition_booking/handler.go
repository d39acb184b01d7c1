package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/service/bookings"
	transitionBooking "github.com/coachhq/booking-service/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidStatus      = "unknown target status"
	msgUseCancelRoute     = "cancellations go through the cancel endpoint"
	msgBookingNotFound    = "booking not found"
	msgAccessDenied       = "only the coach may change booking status"
	msgInvalidTransition  = "status transition not allowed"
)

type TransitionRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	useCase TransitionBookingUseCase
	service BookingsService
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, service BookingsService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	target, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}
	if target == domain.BookingStatusCancelled {
		// Cancellation carries an actor and a reason.
		handlers.RespondBadRequest(w, msgUseCancelRoute)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("PATCH /bookings/{bookingId}/status - failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Confirm, complete and no_show are the coach's calls.
	if booking.CoachID != userID {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionBooking.Request{
		BookingID:    bookingID,
		TargetStatus: target,
	})
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, transitionBooking.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, transitionBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PATCH /bookings/{bookingId}/status - failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId}/status - booking_id=%d now %s", bookingID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(result.Booking))
}
