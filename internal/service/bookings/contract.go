package bookings

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
	transitionBooking "github.com/coachhq/booking-service/internal/usecase/transition_booking"
)

// BookingRepository is the ledger read surface.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// BookingTransitioner applies status changes through the status graph.
type BookingTransitioner interface {
	Execute(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
}

// NotifyClient delivers cancellation notices, best effort.
type NotifyClient interface {
	Notify(ctx context.Context, kind, recipient string, data map[string]string) error
}

// Logger is the logging contract this service depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
