package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachhq/booking-service/internal/calendar"
	"github.com/coachhq/booking-service/internal/domain"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
	"github.com/coachhq/booking-service/internal/integrations/notifyservice"
	transitionBooking "github.com/coachhq/booking-service/internal/usecase/transition_booking"
)

// Service answers booking reads and owns the cancellation entry point.
type Service struct {
	bookingRepo   BookingRepository
	transitioner  BookingTransitioner
	notifyClient  NotifyClient
	logger        Logger
}

// NewService creates the bookings service.
func NewService(
	bookingRepo BookingRepository,
	transitioner BookingTransitioner,
	notifyClient NotifyClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		transitioner: transitioner,
		notifyClient: notifyClient,
		logger:       logger,
	}
}

// GetByID fetches one booking. Only the booking's student and coach may
// read it.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.StudentID != userID && booking.CoachID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// ListForStudent fetches a student's bookings, optionally narrowed to
// one status.
func (s *Service) ListForStudent(ctx context.Context, studentID int64, status *string) ([]*domain.Booking, error) {
	s.logger.Info("ListForStudent: student=%d, status=%v", studentID, status)

	filter := domain.BookingsFilter{StudentID: &studentID}
	if status != nil {
		parsed, ok := domain.ParseBookingStatus(*status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
		}
		filter.StatusIn = []domain.BookingStatus{parsed}
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListForStudent: repository error for student=%d: %v", studentID, err)
		return nil, fmt.Errorf("%w: ListForStudent - repository error: %v", ErrInternal, err)
	}

	return bookings, nil
}

// ListForCoach fetches a coach's bookings, optionally narrowed to one
// date. Only the coach themselves may call it.
func (s *Service) ListForCoach(ctx context.Context, coachID, userID int64, date *time.Time, onlyActive bool) ([]*domain.Booking, error) {
	s.logger.Info("ListForCoach: coach=%d, user=%d, date=%v, onlyActive=%v", coachID, userID, date, onlyActive)

	if coachID != userID {
		s.logger.Warn("ListForCoach: access denied for user=%d to coach=%d schedule", userID, coachID)
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		CoachID:    &coachID,
		Date:       date,
		OnlyActive: onlyActive,
	})
	if err != nil {
		s.logger.Error("ListForCoach: repository error for coach=%d: %v", coachID, err)
		return nil, fmt.Errorf("%w: ListForCoach - repository error: %v", ErrInternal, err)
	}

	return bookings, nil
}

// GetCalendar builds the day-indexed month view for a user, as student
// or coach depending on which side their bookings are on.
func (s *Service) GetCalendar(ctx context.Context, userID int64, month time.Time, asCoach bool) ([]calendar.Day, error) {
	s.logger.Info("GetCalendar: user=%d, month=%s, asCoach=%v", userID, month.Format(domain.MonthFormat), asCoach)

	filter := domain.BookingsFilter{}
	if asCoach {
		filter.CoachID = &userID
	} else {
		filter.StudentID = &userID
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCalendar: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	inMonth := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.BookingDate.Year() == month.Year() && b.BookingDate.Month() == month.Month() {
			inMonth = append(inMonth, b)
		}
	}

	return calendar.FromBookings(inMonth), nil
}

// Cancel cancels a booking on behalf of the caller. The actor recorded
// on the row follows from which side of the booking the caller is on.
func (s *Service) Cancel(ctx context.Context, id, userID int64, reason string) (*domain.Booking, error) {
	s.logger.Info("Cancel: booking=%d, user=%d", id, userID)

	booking, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	actor := domain.CancellationActorStudent
	if booking.CoachID == userID {
		actor = domain.CancellationActorCoach
	}

	resp, err := s.transitioner.Execute(ctx, &transitionBooking.Request{
		BookingID:    id,
		TargetStatus: domain.BookingStatusCancelled,
		Actor:        actor,
		Reason:       reason,
	})
	if err != nil {
		if errors.Is(err, transitionBooking.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		if errors.Is(err, transitionBooking.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if errors.Is(err, transitionBooking.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: transition failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - transition failed: %v", ErrInternal, err)
	}

	go s.notifyCancelled(resp.Booking, actor)

	return resp.Booking, nil
}

func (s *Service) notifyCancelled(booking *domain.Booking, actor domain.CancellationActor) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recipient := fmt.Sprintf("student-%d", booking.StudentID)
	if actor == domain.CancellationActorStudent {
		recipient = fmt.Sprintf("coach-%d", booking.CoachID)
	}

	err := s.notifyClient.Notify(ctx, notifyservice.KindBookingCancelled, recipient, map[string]string{
		"service":    booking.ServiceName,
		"date":       booking.BookingDate.Format(domain.DateFormat),
		"start_time": string(booking.StartTime),
		"actor":      string(actor),
	})
	if err != nil {
		s.logger.Warn("Cancel: cancellation notification failed for booking id=%d: %v", booking.ID, err)
	}
}
