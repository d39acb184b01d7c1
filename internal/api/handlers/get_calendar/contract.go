package get_calendar

import (
	"context"
	"time"

	"github.com/coachhq/booking-service/internal/calendar"
)

type BookingsService interface {
	GetCalendar(ctx context.Context, userID int64, month time.Time, asCoach bool) ([]calendar.Day, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
