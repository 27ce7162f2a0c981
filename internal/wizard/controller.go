// Package wizard implements the headless vehicle-configurator and service-booking
// flows: selection state, a step sequencer gating forward navigation, and the
// submission controller that turns a finished session into a persisted entity.
package wizard

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/gateway"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

var validNext = map[State]map[State]bool{
	StateEditing:    {StateSubmitting: true},
	StateSubmitting: {StateCompleted: true, StateFailed: true},
	StateFailed:     {StateEditing: true},
	StateCompleted:  {},
}

func (s State) CanTransition(to State) bool { return validNext[s][to] }

// Emitter publishes submission outcomes. A nil Emitter drops them.
type Emitter interface {
	Emit(ctx context.Context, eventType, correlationID string, payload any) error
}

// Outcome is the terminal result of one submission attempt.
type Outcome struct {
	State    State  `json:"state"`
	EntityID string `json:"entity_id,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// session carries what both wizards share: identity, the sequencer and the
// controller state. mu guards everything in the embedding wizard too.
type session struct {
	mu      sync.Mutex
	id      string
	kind    storefront.WizardKind
	seq     *Sequencer
	state   State
	outcome Outcome
	lastErr error
	events  Emitter
	log     *logger.Logger
}

func newSession(id string, kind storefront.WizardKind, events Emitter, log *logger.Logger) *session {
	if log == nil {
		log = logger.Nop()
	}
	return &session{
		id:     id,
		kind:   kind,
		state:  StateEditing,
		events: events,
		log:    log.With("component", "wizard", "wizard", string(kind), "session_id", id),
	}
}

func (s *session) ID() string                  { return s.id }
func (s *session) Kind() storefront.WizardKind { return s.kind }

func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the detail of the most recent failed submission.
func (s *session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// editable must be called with mu held. Any edit after a failure returns the
// controller to Editing.
func (s *session) editable() error {
	switch s.state {
	case StateCompleted:
		return ErrCompleted
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateFailed:
		s.state = StateEditing
	}
	return nil
}

func (s *session) transition(to State) {
	if !s.state.CanTransition(to) {
		s.log.Error("illegal controller transition", "from", s.state, "to", to)
		return
	}
	s.state = to
}

func (s *session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.seq.Advance()
}

func (s *session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.seq.Retreat()
}

func (s *session) JumpTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.seq.JumpTo(i)
}

// beginSubmit validates with mu held and moves to Submitting. A validation
// failure leaves the controller state untouched.
func (s *session) beginSubmit(validate func() error) error {
	switch s.state {
	case StateCompleted:
		return ErrCompleted
	case StateSubmitting:
		return ErrSubmissionInFlight
	}
	if err := validate(); err != nil {
		return err
	}
	if s.state == StateFailed {
		s.transition(StateEditing)
	}
	s.transition(StateSubmitting)
	return nil
}

func (s *session) complete(out Outcome) Outcome {
	s.transition(StateCompleted)
	out.State = StateCompleted
	s.outcome = out
	s.lastErr = nil
	return out
}

func (s *session) fail(err error) Outcome {
	s.transition(StateFailed)
	s.lastErr = err
	s.outcome = Outcome{State: StateFailed, Error: userMessage(err)}
	return s.outcome
}

func (s *session) emit(ctx context.Context, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, s.id, payload); err != nil {
		s.log.Warn("emit event failed", "event_type", eventType, "err", err)
	}
}

func (s *session) emitFailure(ctx context.Context, err error) {
	p := storefront.SubmissionFailedPayload{SessionID: s.id, Wizard: s.kind, Kind: "other", Message: userMessage(err)}
	if ge, ok := gateway.AsError(err); ok {
		p.Kind = string(ge.Kind)
		p.Status = ge.Status
	}
	s.emit(ctx, storefront.EventSubmissionFailed, p)
}

// userMessage is the gateway message verbatim when there is one.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if ge, ok := gateway.AsError(err); ok {
		return ge.Message
	}
	return err.Error()
}
