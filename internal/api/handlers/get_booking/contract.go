package get_booking

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
)

type BookingsService interface {
	GetByID(ctx context.Context, id, userID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
