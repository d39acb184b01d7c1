package booking_wizard

import (
	"context"

	"github.com/coachhq/booking-service/internal/wizard"
)

type WizardService interface {
	Start(ctx context.Context, params wizard.StartParams) (*wizard.Session, error)
	Get(sessionID string) (*wizard.Session, error)
	Advance(ctx context.Context, sessionID string, input wizard.Input) (*wizard.Session, error)
	Back(sessionID string) (*wizard.Session, error)
	Close(sessionID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
