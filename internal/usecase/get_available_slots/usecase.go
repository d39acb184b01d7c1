package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	coachClient "github.com/coachhq/booking-service/internal/integrations/coachservice"
)

// UseCase generates the bookable slot grid for a coach and date.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	coachClient      CoachServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase creates the slot generator usecase.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	coachClient CoachServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		coachClient:      coachClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute builds the full slot grid of the day. Taken and elapsed slots
// are included with Available=false, so callers can render the whole grid.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: coach=%d, service=%v, date=%s",
		req.CoachID, req.ServiceID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	coach, err := uc.coachClient.GetCoach(ctx, req.CoachID)
	if err != nil {
		if errors.Is(err, coachClient.ErrCoachNotFound) {
			uc.logger.Warn("GetAvailableSlots: coach id=%d not found", req.CoachID)
			return nil, ErrCoachNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get coach id=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: failed to get coach: %v", ErrInternal, err)
	}
	if !coach.Active {
		return nil, ErrCoachNotFound
	}

	durationMinutes := domain.DefaultIntroDurationMinutes
	if req.ServiceID != nil {
		service, err := uc.coachClient.GetService(ctx, req.CoachID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, coachClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found for coach id=%d",
					*req.ServiceID, req.CoachID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			return nil, ErrServiceNotFound
		}
		durationMinutes = service.DurationMinutes
	}

	// All comparisons against "now" happen on the coach's wall clock.
	now := uc.timeProvider.Now()
	if loc, err := time.LoadLocation(coach.Timezone); err == nil {
		now = now.In(loc)
	} else {
		uc.logger.Warn("GetAvailableSlots: unknown timezone %q for coach id=%d, using server time",
			coach.Timezone, req.CoachID)
	}

	rules, err := uc.availabilityRepo.ListActiveRules(ctx, req.CoachID, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	if len(rules) == 0 {
		uc.logger.Info("GetAvailableSlots: coach id=%d has no availability on %s",
			req.CoachID, req.Date.Format(domain.DateFormat))
		return &Response{Date: req.Date, CoachID: req.CoachID, Slots: []Slot{}}, nil
	}

	blackouts, err := uc.availabilityRepo.ListBlackouts(ctx, req.CoachID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blackouts: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	timeSlots, err := tileRules(rules, blackouts, durationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to tile rules: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		CoachID:    &req.CoachID,
		Date:       &req.Date,
		OnlyActive: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots := markAvailability(timeSlots, durationMinutes, bookings, req.Date, now)

	uc.logger.Info("GetAvailableSlots: generated %d slots for coach=%d, date=%s",
		len(slots), req.CoachID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:    req.Date,
		CoachID: req.CoachID,
		Slots:   slots,
	}, nil
}
