package manage_availability

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
)

type AvailabilityService interface {
	CreateRule(ctx context.Context, userID int64, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	ListRules(ctx context.Context, coachID int64) ([]*domain.AvailabilityRule, error)
	DeactivateRule(ctx context.Context, userID, ruleID, coachID int64) error
	CreateBlackout(ctx context.Context, userID int64, blackout *domain.Blackout) (*domain.Blackout, error)
	ListBlackouts(ctx context.Context, coachID int64) ([]*domain.Blackout, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
