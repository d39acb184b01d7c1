package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/coachhq/booking-service/internal/domain"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
)

// UseCase moves bookings through the status graph. Every change passes
// through here so the graph is enforced in exactly one place.
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the transition usecase.
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute applies one transition and returns the updated booking.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, target=%s", req.BookingID, req.TargetStatus)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !domain.CanTransition(booking.Status, req.TargetStatus) {
			uc.logger.Warn("TransitionBooking: %s -> %s forbidden for booking id=%d",
				booking.Status, req.TargetStatus, req.BookingID)
			return fmt.Errorf("%w: cannot move booking from %s to %s",
				ErrInvalidTransition, booking.Status, req.TargetStatus)
		}

		switch req.TargetStatus {
		case domain.BookingStatusCancelled:
			err = uc.bookingRepo.Cancel(txCtx, req.BookingID, req.Actor, req.Reason)
		case domain.BookingStatusCompleted:
			err = uc.bookingRepo.Complete(txCtx, req.BookingID, uc.timeProvider.Now())
		default:
			err = uc.bookingRepo.UpdateStatus(txCtx, req.BookingID, req.TargetStatus)
		}
		if err != nil {
			uc.logger.Error("TransitionBooking: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			uc.logger.Error("TransitionBooking: failed to reload booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionBooking: booking id=%d now %s", result.ID, result.Status)

	return &Response{Booking: result}, nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if _, ok := domain.ParseBookingStatus(string(req.TargetStatus)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(req.TargetStatus))
	}

	if req.TargetStatus == domain.BookingStatusCancelled {
		if _, ok := domain.ParseCancellationActor(string(req.Actor)); !ok {
			return fmt.Errorf("%w: unknown cancellation actor %q", ErrInvalidInput, string(req.Actor))
		}
		if req.Reason == "" {
			return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
		}
	}

	return nil
}
