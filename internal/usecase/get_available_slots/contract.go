package get_available_slots

import (
	"context"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/integrations/coachservice"
)

// BookingRepository is the booking ledger read path.
type BookingRepository interface {
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityRepository supplies the coach's recurring rules and blackouts.
type AvailabilityRepository interface {
	ListActiveRules(ctx context.Context, coachID int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error)
	ListBlackouts(ctx context.Context, coachID int64, date time.Time) ([]*domain.Blackout, error)
}

// CoachServiceClient resolves coach profiles and their catalogue.
type CoachServiceClient interface {
	GetCoach(ctx context.Context, coachID int64) (*coachservice.Coach, error)
	GetService(ctx context.Context, coachID, serviceID int64) (*coachservice.Service, error)
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging contract this usecase depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
