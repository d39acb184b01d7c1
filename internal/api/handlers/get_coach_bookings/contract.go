package get_coach_bookings

import (
	"context"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
)

type BookingsService interface {
	ListForCoach(ctx context.Context, coachID, userID int64, date *time.Time, onlyActive bool) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
