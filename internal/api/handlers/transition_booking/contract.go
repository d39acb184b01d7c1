package transition_booking

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
	transitionBooking "github.com/coachhq/booking-service/internal/usecase/transition_booking"
)

type TransitionBookingUseCase interface {
	Execute(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
}

type BookingsService interface {
	GetByID(ctx context.Context, id, userID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
