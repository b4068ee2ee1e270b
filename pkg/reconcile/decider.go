package reconcile

import (
	"context"

	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/errors"
)

// Mode is how a group of classified attributes is decided.
type Mode string

const (
	// WholeCategory applies one decision to every attribute in the group.
	WholeCategory Mode = "whole-category"
	// OneByOne asks for a decision per attribute, in order.
	OneByOne Mode = "one-by-one"
)

// Decision is the verdict for a classified attribute.
type Decision string

const (
	// Remove drops the attribute from the final document.
	Remove Decision = "remove"
	// Keep retains the attribute. The default when a run is canceled.
	Keep Decision = "keep"
)

// Group is a category of classified attributes presented for decisions.
type Group struct {
	Classification differ.Classification
	Attributes     []differ.AttributeReport
}

// Decider is the confirmation protocol: it turns classified attributes
// into decisions. Implementations may prompt a human, follow a fixed
// policy, or replay a script in tests. Every call either returns a
// value or errors.ErrCanceled; cancellation is only observed at these
// call boundaries, and the engine answers it by keeping everything not
// yet decided.
type Decider interface {
	// ChooseMode picks how the group will be processed.
	ChooseMode(ctx context.Context, group Group) (Mode, error)

	// DecideGroup returns one decision applied to every attribute in the
	// group. Called only when ChooseMode returned WholeCategory.
	DecideGroup(ctx context.Context, group Group) (Decision, error)

	// DecideOne returns the decision for a single attribute. Called only
	// when ChooseMode returned OneByOne.
	DecideOne(ctx context.Context, attr differ.AttributeReport) (Decision, error)
}

// PolicyDecider applies a fixed decision to every attribute without
// interaction. Backs the non-interactive CLI flags.
type PolicyDecider struct {
	Decision Decision
}

// ChooseMode always processes whole categories.
func (p PolicyDecider) ChooseMode(_ context.Context, _ Group) (Mode, error) {
	return WholeCategory, nil
}

// DecideGroup returns the fixed decision.
func (p PolicyDecider) DecideGroup(_ context.Context, _ Group) (Decision, error) {
	return p.Decision, nil
}

// DecideOne returns the fixed decision.
func (p PolicyDecider) DecideOne(_ context.Context, _ differ.AttributeReport) (Decision, error) {
	return p.Decision, nil
}

// ScriptedDecider replays prepared responses in order. Used by tests
// and scripted harnesses; once a script is exhausted every further call
// cancels.
type ScriptedDecider struct {
	Modes     []Mode
	Group     []Decision
	Singles   []Decision
	CancelAt  int // cancel on the Nth protocol call (1-based); 0 disables
	callCount int
}

func (s *ScriptedDecider) step() error {
	s.callCount++
	if s.CancelAt > 0 && s.callCount >= s.CancelAt {
		return errors.ErrCanceled
	}
	return nil
}

// ChooseMode replays the next scripted mode.
func (s *ScriptedDecider) ChooseMode(_ context.Context, _ Group) (Mode, error) {
	if err := s.step(); err != nil {
		return "", err
	}
	if len(s.Modes) == 0 {
		return "", errors.ErrCanceled
	}
	mode := s.Modes[0]
	s.Modes = s.Modes[1:]
	return mode, nil
}

// DecideGroup replays the next scripted whole-category decision.
func (s *ScriptedDecider) DecideGroup(_ context.Context, _ Group) (Decision, error) {
	if err := s.step(); err != nil {
		return "", err
	}
	if len(s.Group) == 0 {
		return "", errors.ErrCanceled
	}
	decision := s.Group[0]
	s.Group = s.Group[1:]
	return decision, nil
}

// DecideOne replays the next scripted per-attribute decision.
func (s *ScriptedDecider) DecideOne(_ context.Context, _ differ.AttributeReport) (Decision, error) {
	if err := s.step(); err != nil {
		return "", err
	}
	if len(s.Singles) == 0 {
		return "", errors.ErrCanceled
	}
	decision := s.Singles[0]
	s.Singles = s.Singles[1:]
	return decision, nil
}
