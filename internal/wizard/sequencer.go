package wizard

import "fmt"

// Step is one named stage of a wizard. Complete gates forward navigation out of it.
type Step struct {
	Name     string
	Complete func() bool
}

// Sequencer is a linear state machine over steps. Not safe for concurrent use;
// the owning wizard serializes access.
type Sequencer struct {
	steps   []Step
	current int
	highest int
}

func NewSequencer(steps ...Step) *Sequencer {
	if len(steps) == 0 {
		panic("wizard: sequencer needs at least one step")
	}
	return &Sequencer{steps: steps}
}

func (s *Sequencer) Current() int        { return s.current }
func (s *Sequencer) Highest() int        { return s.highest }
func (s *Sequencer) Len() int            { return len(s.steps) }
func (s *Sequencer) CurrentStep() string { return s.steps[s.current].Name }
func (s *Sequencer) AtTerminal() bool    { return s.current == len(s.steps)-1 }

func (s *Sequencer) complete(i int) bool {
	c := s.steps[i].Complete
	return c == nil || c()
}

// Advance moves one step forward when the current step is complete.
func (s *Sequencer) Advance() error {
	if s.AtTerminal() {
		return ErrTerminalStep
	}
	if !s.complete(s.current) {
		return &StepIncompleteError{Step: s.steps[s.current].Name}
	}
	s.current++
	if s.current > s.highest {
		s.highest = s.current
	}
	return nil
}

func (s *Sequencer) Retreat() error {
	if s.current == 0 {
		return ErrAtFirstStep
	}
	s.current--
	return nil
}

// JumpTo moves backward freely. Forward jumps stop at the highest step reached and
// require every step in between to still be complete.
func (s *Sequencer) JumpTo(i int) error {
	if i < 0 || i >= len(s.steps) {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, i)
	}
	if i <= s.current {
		s.current = i
		return nil
	}
	if i > s.highest {
		return fmt.Errorf("%w: %s", ErrStepNotReached, s.steps[i].Name)
	}
	for j := s.current; j < i; j++ {
		if !s.complete(j) {
			return &StepIncompleteError{Step: s.steps[j].Name}
		}
	}
	s.current = i
	return nil
}

// Reach marks steps up to i as reached without moving, e.g. when resuming a draft.
func (s *Sequencer) Reach(i int) {
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	if i > s.highest {
		s.highest = i
	}
}

type StepView struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	Reached  bool   `json:"reached"`
}

func (s *Sequencer) View() []StepView {
	out := make([]StepView, len(s.steps))
	for i, st := range s.steps {
		out[i] = StepView{Index: i, Name: st.Name, Complete: s.complete(i), Reached: i <= s.highest}
	}
	return out
}
