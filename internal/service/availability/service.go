package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	availabilityRepo "github.com/coachhq/booking-service/internal/infra/storage/availability"
	"github.com/coachhq/booking-service/pkg/types"
)

// Service manages a coach's recurring availability and blackouts. Every
// write checks that the caller is the coach being edited.
type Service struct {
	repo         AvailabilityRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the availability service.
func NewService(repo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateRule adds a recurring weekly window.
func (s *Service) CreateRule(ctx context.Context, userID int64, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	s.logger.Info("CreateRule: coach=%d, weekday=%d, window=%s-%s",
		rule.CoachID, rule.Weekday, rule.StartTime, rule.EndTime)

	if rule.CoachID != userID {
		return nil, ErrAccessDenied
	}
	if err := validateWindow(rule.Weekday, rule.StartTime, rule.EndTime); err != nil {
		s.logger.Warn("CreateRule: validation failed: %v", err)
		return nil, err
	}

	rule.Active = true

	created, err := s.repo.CreateRule(ctx, rule)
	if err != nil {
		s.logger.Error("CreateRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	return created, nil
}

// ListRules fetches all of a coach's rules.
func (s *Service) ListRules(ctx context.Context, coachID int64) ([]*domain.AvailabilityRule, error) {
	rules, err := s.repo.ListRulesByCoach(ctx, coachID)
	if err != nil {
		s.logger.Error("ListRules: repository error for coach=%d: %v", coachID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}
	return rules, nil
}

// DeactivateRule retires a rule. Future slot grids stop offering its
// windows, existing bookings are untouched.
func (s *Service) DeactivateRule(ctx context.Context, userID, ruleID, coachID int64) error {
	s.logger.Info("DeactivateRule: rule=%d, coach=%d", ruleID, coachID)

	if coachID != userID {
		return ErrAccessDenied
	}

	err := s.repo.DeactivateRule(ctx, ruleID, coachID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		s.logger.Error("DeactivateRule: repository error for rule=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeactivateRule - repository error: %v", ErrInternal, err)
	}

	return nil
}

// CreateBlackout carves a one-off exclusion out of the schedule.
func (s *Service) CreateBlackout(ctx context.Context, userID int64, blackout *domain.Blackout) (*domain.Blackout, error) {
	s.logger.Info("CreateBlackout: coach=%d, date=%s, window=%s-%s",
		blackout.CoachID, blackout.Date.Format(domain.DateFormat), blackout.StartTime, blackout.EndTime)

	if blackout.CoachID != userID {
		return nil, ErrAccessDenied
	}
	if blackout.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := validateTimes(blackout.StartTime, blackout.EndTime); err != nil {
		s.logger.Warn("CreateBlackout: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.CreateBlackout(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	return created, nil
}

// ListBlackouts fetches a coach's blackouts from today onward.
func (s *Service) ListBlackouts(ctx context.Context, coachID int64) ([]*domain.Blackout, error) {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	blackouts, err := s.repo.ListBlackoutsByCoach(ctx, coachID, today)
	if err != nil {
		s.logger.Error("ListBlackouts: repository error for coach=%d: %v", coachID, err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}
	return blackouts, nil
}

func validateWindow(weekday time.Weekday, start, end types.TimeString) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return fmt.Errorf("%w: weekday out of range", ErrInvalidInput)
	}
	return validateTimes(start, end)
}

func validateTimes(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, string(start))
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time %q", ErrInvalidInput, string(end))
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return nil
}
