package commit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/integrations/notifyservice"
	"github.com/coachhq/booking-service/internal/integrations/paymentservice"
	createBooking "github.com/coachhq/booking-service/internal/usecase/create_booking"
)

const (
	chargeTimeout = 30 * time.Second
	notifyTimeout = 5 * time.Second

	paymentCurrency = "GBP"
)

// UseCase turns a finished wizard session into a confirmed booking.
// The slot is claimed first as a pending row, then paid for, then
// confirmed. A failed charge deletes the claim so the slot reopens.
type UseCase struct {
	bookingCreator BookingCreator
	bookingRepo    BookingRepository
	paymentClient  PaymentClient
	notifyClient   NotifyClient
	logger         Logger
}

// NewUseCase creates the commit usecase.
func NewUseCase(
	bookingCreator BookingCreator,
	bookingRepo BookingRepository,
	paymentClient PaymentClient,
	notifyClient NotifyClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingCreator: bookingCreator,
		bookingRepo:    bookingRepo,
		paymentClient:  paymentClient,
		notifyClient:   notifyClient,
		logger:         logger,
	}
}

// Execute commits the booking.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitBooking: student=%d, coach=%d, service=%v, date=%s, time=%s",
		req.StudentID, req.CoachID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	if req.StudentName == "" || req.StudentEmail == "" {
		return nil, fmt.Errorf("%w: contact details are required", ErrInvalidInput)
	}

	created, err := uc.bookingCreator.Execute(ctx, &createBooking.Request{
		StudentID: req.StudentID,
		CoachID:   req.CoachID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, createBooking.ErrSlotUnavailable) {
			uc.logger.Warn("CommitBooking: slot %s taken mid-wizard for coach=%d", req.StartTime, req.CoachID)
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	booking := created.Booking

	paymentID := ""
	if booking.Price > 0 {
		ref, err := uc.charge(ctx, req, booking)
		if err != nil {
			// The claim must not outlive a failed charge.
			uc.rollback(booking.ID)
			uc.logger.Warn("CommitBooking: payment failed for booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		paymentID = ref.ID
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusConfirmed); err != nil {
		uc.logger.Error("CommitBooking: failed to confirm booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}
	booking.Status = domain.BookingStatusConfirmed

	uc.logger.Info("CommitBooking: booking id=%d confirmed, payment=%q", booking.ID, paymentID)

	go uc.notifyConfirmed(req, booking)

	return &Response{Booking: booking, PaymentID: paymentID}, nil
}

func (uc *UseCase) charge(ctx context.Context, req *Request, booking *domain.Booking) (*paymentservice.PaymentReference, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, chargeTimeout)
	defer cancel()

	return uc.paymentClient.Charge(chargeCtx, paymentservice.ChargeRequest{
		Amount:         booking.Price,
		Currency:       paymentCurrency,
		PayerRef:       fmt.Sprintf("student-%d", req.StudentID),
		IdempotencyKey: uuid.NewString(),
		Description:    fmt.Sprintf("%s on %s", booking.ServiceName, booking.BookingDate.Format(domain.DateFormat)),
	})
}

// rollback removes the pending claim after a failed charge. It runs on
// a fresh context so a cancelled request cannot strand the row.
func (uc *UseCase) rollback(bookingID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.bookingRepo.Delete(ctx, bookingID); err != nil {
		uc.logger.Error("CommitBooking: failed to roll back booking id=%d: %v", bookingID, err)
	}
}

func (uc *UseCase) notifyConfirmed(req *Request, booking *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	err := uc.notifyClient.Notify(ctx, notifyservice.KindBookingConfirmed, req.StudentEmail, map[string]string{
		"student_name": req.StudentName,
		"service":      booking.ServiceName,
		"date":         booking.BookingDate.Format(domain.DateFormat),
		"start_time":   string(booking.StartTime),
	})
	if err != nil {
		uc.logger.Warn("CommitBooking: confirmation notification failed for booking id=%d: %v", booking.ID, err)
	}
}
