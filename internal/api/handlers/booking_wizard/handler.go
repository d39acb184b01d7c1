package booking_wizard

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/domain"
	commitBooking "github.com/coachhq/booking-service/internal/usecase/commit_booking"
	"github.com/coachhq/booking-service/internal/wizard"
	"github.com/coachhq/booking-service/pkg/types"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "date must be in YYYY-MM-DD format"
	msgSessionNotFound    = "wizard session not found or expired"
	msgSessionFinished    = "wizard session is already finished"
	msgSlotUnavailable    = "the selected slot is no longer available"
	msgServiceNotFound    = "service not found"
	msgPaymentFailed      = "payment was declined"
	msgAccessDenied       = "session belongs to another student"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleStart POST /api/v1/wizard/sessions
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req StartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	params := wizard.StartParams{
		StudentID: userID,
		CoachID:   req.CoachID,
		Flow:      wizard.Flow(req.Flow),
		ServiceID: req.ServiceID,
	}
	if req.Date != nil {
		date, err := time.Parse(domain.DateFormat, *req.Date)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		params.Date = &date
	}
	if req.StartTime != nil {
		start := types.TimeString(*req.StartTime)
		params.StartTime = &start
	}

	session, err := h.service.Start(r.Context(), params)
	if err != nil {
		if errors.Is(err, wizard.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /wizard/sessions - failed: student_id=%d, coach_id=%d, error=%v", userID, req.CoachID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /wizard/sessions - started session=%s for student_id=%d", session.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromSession(session))
}

// HandleGet GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleAdvance POST /api/v1/wizard/sessions/{sessionId}/advance
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AdvanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input := wizard.Input{
		ServiceID: req.ServiceID,
		Name:      req.Name,
		Email:     req.Email,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		date, err := time.Parse(domain.DateFormat, *req.Date)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		input.Date = &date
	}
	if req.StartTime != nil {
		start := types.TimeString(*req.StartTime)
		input.StartTime = &start
	}

	updated, err := h.service.Advance(r.Context(), session.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSlotUnavailable):
			// The session itself was rewound to the slot step.
			handlers.RespondConflict(w, msgSlotUnavailable)
		case errors.Is(err, wizard.ErrSessionFinished):
			handlers.RespondConflict(w, msgSessionFinished)
		case errors.Is(err, wizard.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, commitBooking.ErrPaymentFailed):
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)
		case errors.Is(err, wizard.ErrInvalidStep), errors.Is(err, wizard.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /wizard/sessions/{sessionId}/advance - failed: session=%s, error=%v", session.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(updated))
}

// HandleBack POST /api/v1/wizard/sessions/{sessionId}/back
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Back(session.ID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionFinished):
			handlers.RespondConflict(w, msgSessionFinished)
		case errors.Is(err, wizard.ErrInvalidStep):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /wizard/sessions/{sessionId}/back - failed: session=%s, error=%v", session.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(updated))
}

// HandleClose DELETE /api/v1/wizard/sessions/{sessionId}
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	h.service.Close(session.ID)
	h.logger.Info("DELETE /wizard/sessions/{sessionId} - closed session=%s", session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// session loads the session from the path and checks it belongs to the
// authenticated student.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	session, err := h.service.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return nil, false
	}
	if session.StudentID != userID {
		handlers.RespondForbidden(w, msgAccessDenied)
		return nil, false
	}
	return session, true
}
