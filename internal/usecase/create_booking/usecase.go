package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
	coachClient "github.com/coachhq/booking-service/internal/integrations/coachservice"
)

// UseCase creates bookings. The slot check and the insert run in one
// serializable transaction so two students can never take the same slot.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	coachClient      CoachServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase creates the booking creation usecase.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	coachClient CoachServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		coachClient:      coachClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute creates a pending booking for the requested slot.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: student=%d, coach=%d, service=%v, date=%s, time=%s",
		req.StudentID, req.CoachID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	coach, err := uc.coachClient.GetCoach(ctx, req.CoachID)
	if err != nil {
		if errors.Is(err, coachClient.ErrCoachNotFound) {
			uc.logger.Warn("CreateBooking: coach id=%d not found", req.CoachID)
			return nil, ErrCoachNotFound
		}
		uc.logger.Error("CreateBooking: failed to get coach id=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: failed to get coach: %v", ErrInternal, err)
	}
	if !coach.Active {
		return nil, ErrCoachNotFound
	}

	// Price and duration are frozen at creation time. Later catalogue
	// edits never touch existing bookings.
	kind := domain.BookingKindIntro
	durationMinutes := domain.DefaultIntroDurationMinutes
	price := 0.0
	serviceName := "Intro call"

	if req.ServiceID != nil {
		service, err := uc.coachClient.GetService(ctx, req.CoachID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, coachClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found for coach id=%d",
					*req.ServiceID, req.CoachID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			return nil, ErrServiceNotFound
		}

		parsedKind, ok := domain.ParseBookingKind(service.Kind)
		if !ok {
			uc.logger.Error("CreateBooking: service id=%d has unknown kind %q", service.ID, service.Kind)
			return nil, fmt.Errorf("%w: unknown service kind %q", ErrInternal, service.Kind)
		}

		kind = parsedKind
		durationMinutes = service.DurationMinutes
		price = service.Price
		serviceName = service.Name
	}

	now := uc.timeProvider.Now()
	if loc, err := time.LoadLocation(coach.Timezone); err == nil {
		now = now.In(loc)
	}

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, string(req.StartTime))
	}
	endMinutes := startMinutes + durationMinutes
	if endMinutes > 24*60 {
		return nil, fmt.Errorf("%w: booking runs past midnight", ErrInvalidInput)
	}

	if err := validateNotInPast(req.Date, startMinutes, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rules, err := uc.availabilityRepo.ListActiveRules(txCtx, req.CoachID, req.Date.Weekday())
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get availability rules: %v", err)
			return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
		}

		blackouts, err := uc.availabilityRepo.ListBlackouts(txCtx, req.CoachID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blackouts: %v", err)
			return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
		}

		if !fitsAvailability(rules, blackouts, startMinutes, endMinutes) {
			uc.logger.Warn("CreateBooking: slot %s outside availability of coach id=%d",
				req.StartTime, req.CoachID)
			return ErrSlotUnavailable
		}

		// Lock the coach's day, then check overlaps against what we see.
		bookings, err := uc.bookingRepo.ListWithFilter(txCtx, domain.BookingsFilter{
			CoachID:    &req.CoachID,
			Date:       &req.Date,
			OnlyActive: true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		for _, b := range bookings {
			if domain.BookingOverlaps(b, req.StartTime, durationMinutes) {
				uc.logger.Warn("CreateBooking: slot %s already taken by booking id=%d",
					req.StartTime, b.ID)
				return ErrSlotUnavailable
			}
		}

		booking := &domain.Booking{
			CoachID:         req.CoachID,
			StudentID:       req.StudentID,
			ServiceID:       req.ServiceID,
			Kind:            kind,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: durationMinutes,
			Price:           price,
			Status:          domain.BookingStatusPending,
			ServiceName:     serviceName,
			Notes:           req.Notes,
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d for student=%d, coach=%d",
		result.ID, req.StudentID, req.CoachID)

	return &Response{Booking: result}, nil
}
