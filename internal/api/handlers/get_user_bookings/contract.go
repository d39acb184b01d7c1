package get_user_bookings

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
)

type BookingsService interface {
	ListForStudent(ctx context.Context, studentID int64, status *string) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
