package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coachhq/booking-service/internal/integrations/coachservice"
	commitBooking "github.com/coachhq/booking-service/internal/usecase/commit_booking"
	getAvailableSlots "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
	"github.com/coachhq/booking-service/pkg/types"
)

// StartParams opens a new session. The optional fields are deep-link
// prefills: a valid prefill skips its step, an invalid one is dropped
// and the session starts at that step instead.
type StartParams struct {
	StudentID int64
	CoachID   int64
	Flow      Flow
	ServiceID *int64
	Date      *time.Time
	StartTime *types.TimeString
}

// Input carries the student's answer for the current step. Only the
// fields belonging to that step are read.
type Input struct {
	ServiceID *int64           // select_service
	Date      *time.Time       // select_datetime
	StartTime *types.TimeString // select_datetime
	Name      string           // enter_details
	Email     string           // enter_details
	Notes     *string          // enter_details
}

// Service drives wizard sessions from start to committed booking.
type Service struct {
	store       *Store
	fsm         *FSM
	slots       SlotProvider
	committer   BookingCommitter
	coachClient CoachServiceClient
	logger      Logger
}

// NewService creates the wizard service.
func NewService(
	store *Store,
	slots SlotProvider,
	committer BookingCommitter,
	coachClient CoachServiceClient,
	logger Logger,
) *Service {
	return &Service{
		store:       store,
		fsm:         NewFSM(),
		slots:       slots,
		committer:   committer,
		coachClient: coachClient,
		logger:      logger,
	}
}

// Start opens a session, applying any deep-link prefills.
func (s *Service) Start(ctx context.Context, params StartParams) (*Session, error) {
	if params.StudentID <= 0 || params.CoachID <= 0 {
		return nil, fmt.Errorf("%w: student and coach are required", ErrInvalidInput)
	}
	if _, ok := ParseFlow(string(params.Flow)); !ok {
		return nil, fmt.Errorf("%w: unknown flow %q", ErrInvalidInput, string(params.Flow))
	}

	session := NewSession(params.StudentID, params.CoachID, params.Flow, s.fsm.InitialStep(params.Flow))

	// Prefills advance the session only as far as they validate.
	if params.Flow == FlowPaid && params.ServiceID != nil {
		if err := s.applyService(ctx, session, *params.ServiceID); err != nil {
			s.logger.Warn("Wizard: dropping service prefill %d for coach=%d: %v",
				*params.ServiceID, params.CoachID, err)
		}
	}

	canPrefillSlot := session.Step == StepSelectDateTime
	if canPrefillSlot && params.Date != nil && params.StartTime != nil {
		if err := s.applySlot(ctx, session, *params.Date, *params.StartTime); err != nil {
			s.logger.Warn("Wizard: dropping slot prefill %s %s for coach=%d: %v",
				params.Date.Format("2006-01-02"), *params.StartTime, params.CoachID, err)
		}
	}

	s.store.Put(session)

	s.logger.Info("Wizard: started session %s (student=%d, coach=%d, flow=%s, step=%s)",
		session.ID, params.StudentID, params.CoachID, params.Flow, session.Step)

	return session, nil
}

// Get returns a live session.
func (s *Service) Get(sessionID string) (*Session, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Advance applies the input to the session's current step and moves it
// forward. Advancing from enter_details commits the booking.
func (s *Service) Advance(ctx context.Context, sessionID string, input Input) (*Session, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	switch session.Step {
	case StepSelectService:
		if input.ServiceID == nil {
			return nil, fmt.Errorf("%w: a service must be picked", ErrInvalidStep)
		}
		if err := s.applyService(ctx, session, *input.ServiceID); err != nil {
			return nil, err
		}

	case StepSelectDateTime:
		if input.Date == nil || input.StartTime == nil {
			return nil, fmt.Errorf("%w: a date and start time must be picked", ErrInvalidStep)
		}
		if err := s.applySlot(ctx, session, *input.Date, *input.StartTime); err != nil {
			return nil, err
		}

	case StepEnterDetails:
		if err := s.applyDetails(session, input); err != nil {
			return nil, err
		}
		if err := s.commit(ctx, session); err != nil {
			return session, err
		}

	case StepDone:
		return nil, ErrSessionFinished

	default:
		return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidStep, string(session.Step))
	}

	session.UpdatedAt = time.Now()
	s.store.Put(session)

	return session, nil
}

// Back moves one step towards the start. Selections and details made
// so far are kept.
func (s *Service) Back(sessionID string) (*Session, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Step == StepDone {
		return nil, ErrSessionFinished
	}

	prev, ok := s.fsm.PrevStep(session.Flow, session.Step)
	if !ok {
		return nil, fmt.Errorf("%w: already at the first step", ErrInvalidStep)
	}

	session.Step = prev
	session.UpdatedAt = time.Now()
	s.store.Put(session)

	return session, nil
}

// Close abandons a session. Closing an unknown session is not an error.
func (s *Service) Close(sessionID string) {
	s.store.Delete(sessionID)
}

func (s *Service) applyService(ctx context.Context, session *Session, serviceID int64) error {
	service, err := s.coachClient.GetService(ctx, session.CoachID, serviceID)
	if err != nil {
		if errors.Is(err, coachservice.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("wizard: fetch service %d: %w", serviceID, err)
	}
	if !service.Active {
		return ErrServiceNotFound
	}

	session.Selection.ServiceID = &service.ID
	if s.fsm.CanTransition(session.Flow, session.Step, StepSelectDateTime) {
		session.Step = StepSelectDateTime
	}
	return nil
}

func (s *Service) applySlot(ctx context.Context, session *Session, date time.Time, start types.TimeString) error {
	resp, err := s.slots.Execute(ctx, &getAvailableSlots.Request{
		CoachID:   session.CoachID,
		ServiceID: session.Selection.ServiceID,
		Date:      date,
	})
	if err != nil {
		return err
	}

	offered := false
	for _, slot := range resp.Slots {
		if slot.StartTime == start && slot.Available {
			offered = true
			break
		}
	}
	if !offered {
		return ErrSlotUnavailable
	}

	session.Selection.Date = &date
	session.Selection.StartTime = &start
	if s.fsm.CanTransition(session.Flow, session.Step, StepEnterDetails) {
		session.Step = StepEnterDetails
	}
	return nil
}

func (s *Service) applyDetails(session *Session, input Input) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	session.Details = ContactDetails{Name: name, Email: email, Notes: input.Notes}
	return nil
}

// commit hands the finished session to the ledger. A slot conflict
// sends the session back to select_datetime with details kept, so the
// student only re-picks the time.
func (s *Service) commit(ctx context.Context, session *Session) error {
	resp, err := s.committer.Execute(ctx, &commitBooking.Request{
		StudentID:    session.StudentID,
		CoachID:      session.CoachID,
		ServiceID:    session.Selection.ServiceID,
		Date:         *session.Selection.Date,
		StartTime:    *session.Selection.StartTime,
		Notes:        session.Details.Notes,
		StudentName:  session.Details.Name,
		StudentEmail: session.Details.Email,
	})
	if err != nil {
		if errors.Is(err, commitBooking.ErrSlotUnavailable) {
			session.Step = StepSelectDateTime
			session.Selection.StartTime = nil
			session.UpdatedAt = time.Now()
			s.store.Put(session)
			return ErrSlotUnavailable
		}
		return err
	}

	session.Step = StepDone
	session.Booking = resp.Booking
	session.UpdatedAt = time.Now()
	s.store.Put(session)

	s.logger.Info("Wizard: session %s committed booking id=%d", session.ID, resp.Booking.ID)

	return nil
}
