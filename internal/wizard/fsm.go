// Package wizard implements the step-by-step booking dialog.
package wizard

// Step is one screen of the booking wizard.
type Step string

const (
	StepSelectService  Step = "select_service"
	StepSelectDateTime Step = "select_datetime"
	StepEnterDetails   Step = "enter_details"
	StepDone           Step = "done"
)

// Flow selects which step sequence a session walks.
type Flow string

const (
	// FlowIntro books a free intro call, no service selection.
	FlowIntro Flow = "intro"

	// FlowPaid books a paid service from the coach's catalogue.
	FlowPaid Flow = "paid"
)

// FSM holds the per-flow transition tables. Forward and backward moves
// are both listed, StepDone is terminal.
type FSM struct {
	transitions map[Flow]map[Step][]Step
}

// NewFSM creates the wizard FSM.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[Flow]map[Step][]Step{
			FlowIntro: {
				StepSelectDateTime: {StepEnterDetails},
				StepEnterDetails:   {StepDone, StepSelectDateTime},
			},
			FlowPaid: {
				StepSelectService:  {StepSelectDateTime},
				StepSelectDateTime: {StepEnterDetails, StepSelectService},
				StepEnterDetails:   {StepDone, StepSelectDateTime},
			},
		},
	}
}

// CanTransition checks if the flow allows moving between the two steps.
func (f *FSM) CanTransition(flow Flow, from, to Step) bool {
	steps, ok := f.transitions[flow]
	if !ok {
		return false
	}
	for _, s := range steps[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InitialStep returns the first step of a flow.
func (f *FSM) InitialStep(flow Flow) Step {
	if flow == FlowPaid {
		return StepSelectService
	}
	return StepSelectDateTime
}

// PrevStep returns the step Back navigates to, and false at the front
// of the flow.
func (f *FSM) PrevStep(flow Flow, from Step) (Step, bool) {
	switch from {
	case StepEnterDetails:
		return StepSelectDateTime, true
	case StepSelectDateTime:
		if flow == FlowPaid {
			return StepSelectService, true
		}
	}
	return "", false
}

// ParseFlow validates a raw flow string.
func ParseFlow(raw string) (Flow, bool) {
	switch Flow(raw) {
	case FlowIntro:
		return FlowIntro, true
	case FlowPaid:
		return FlowPaid, true
	}
	return "", false
}
