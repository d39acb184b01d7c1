package availability

import (
	"context"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
)

// AvailabilityRepository is the storage surface for rules and blackouts.
type AvailabilityRepository interface {
	CreateRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	ListRulesByCoach(ctx context.Context, coachID int64) ([]*domain.AvailabilityRule, error)
	DeactivateRule(ctx context.Context, ruleID, coachID int64) error
	CreateBlackout(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error)
	ListBlackoutsByCoach(ctx context.Context, coachID int64, from time.Time) ([]*domain.Blackout, error)
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging contract this service depends on.
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
