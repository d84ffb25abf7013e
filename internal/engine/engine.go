// Package engine implements the tableau expansion engine: the worklist of
// ABox states, the fixed-order rule dispatcher, the eight completion rules,
// blocking, clash detection and model extraction.
package engine

import (
	"go.uber.org/zap"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// RuleFunc is a single completion rule. It returns the successor states it
// produced and whether it fired at all; an unfired rule (nil, false) tells
// the dispatcher to try the next rule in order.
type RuleFunc func(s *abox.ABox) ([]*abox.ABox, bool)

// namedRule pairs a rule with the name used in debug logging.
type namedRule struct {
	name string
	rule RuleFunc
}

// Dispatcher tries its rules in the fixed order required by the
// specification and returns the successors of the first rule that fires.
type Dispatcher struct {
	rules  []namedRule
	logger *zap.Logger
}

// NewDispatcher builds the fixed 8-rule dispatch order: And, Or, All,
// AtMost-merge, Choose, GCI, Exists, AtLeast. Generative rules (Exists,
// AtLeast) are last so that every non-generative consequence of existing
// individuals is drawn out first, which is what makes blocking effective.
func NewDispatcher(internalizedG concept.Concept) *Dispatcher {
	return &Dispatcher{
		rules: []namedRule{
			{"and", AndRule},
			{"or", OrRule},
			{"all", AllRule},
			{"atmost-merge", AtMostMergeRule},
			{"choose", ChooseRule},
			{"gci", GCIRule(internalizedG)},
			{"exists", ExistsRule},
			{"atleast", AtLeastRule},
		},
		logger: zap.NewNop(),
	}
}

// WithLogger attaches a logger that receives one Debug line per fired rule.
func (d *Dispatcher) WithLogger(l *zap.Logger) *Dispatcher {
	if l != nil {
		d.logger = l
	}
	return d
}

// Dispatch runs the rules in order and returns the successors of the
// first one that fires, or (nil, false) if none fire — meaning s is
// complete.
func (d *Dispatcher) Dispatch(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, nr := range d.rules {
		if successors, fired := nr.rule(s); fired {
			d.logger.Debug("rule fired", zap.String("rule", nr.name), zap.Int("successors", len(successors)))
			return successors, true
		}
	}
	return nil, false
}

// Model is the projection of a complete, clash-free ABox state: the live
// individuals, the role assertions between them, the atomic (and negated
// atomic) concept assertions, and the AtMost replacement trace.
type Model struct {
	Individuals  []abox.Individual
	Roles        []RoleFact
	Concepts     []ConceptFact
	Replacements map[string]string
}

// RoleFact is one projected role assertion r(x, y).
type RoleFact struct {
	Role string
	X, Y string
}

// ConceptFact is one projected atomic (or negated-atomic) concept
// assertion.
type ConceptFact struct {
	Individual string
	Concept    string
	Negated    bool
}

// ExtractModel projects a complete, clash-free ABox state into a Model:
// live individuals, role assertions, and concept assertions restricted to
// atomic concepts (Top/Bottom included) and negated atomics.
func ExtractModel(s *abox.ABox) *Model {
	m := &Model{
		Individuals:  s.Individuals(),
		Replacements: s.Replacements,
	}
	for _, a := range s.Assertions() {
		if a.IsRole {
			m.Roles = append(m.Roles, RoleFact{Role: a.Role, X: a.X.Name, Y: a.Y.Name})
			continue
		}
		switch c := a.Concept.(type) {
		case concept.Atomic:
			m.Concepts = append(m.Concepts, ConceptFact{Individual: a.Ind.Name, Concept: c.Name})
		case concept.Not:
			if atomic, ok := c.Sub.(concept.Atomic); ok {
				m.Concepts = append(m.Concepts, ConceptFact{Individual: a.Ind.Name, Concept: atomic.Name, Negated: true})
			}
		}
	}
	return m
}

// Solve runs the outer tableau loop: a LIFO worklist of ABox states, each
// expanded by the dispatcher until one state is complete and clash-free
// (a witness model) or the worklist is exhausted (unsatisfiable).
//
// internalizedG is the TBox's internalized concept G (nil if the TBox had
// no inclusions).
func Solve(initial *abox.ABox, internalizedG concept.Concept) (*Model, bool) {
	return SolveWithLogger(initial, internalizedG, nil)
}

// SolveWithLogger is Solve with a logger attached to the dispatcher, used by
// cmd/alcq to trace which rule fired at each step under --verbose.
func SolveWithLogger(initial *abox.ABox, internalizedG concept.Concept, logger *zap.Logger) (*Model, bool) {
	d := NewDispatcher(internalizedG).WithLogger(logger)
	worklist := []*abox.ABox{initial}

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if s.IsClashed() {
			continue
		}

		successors, fired := d.Dispatch(s)
		if !fired {
			return ExtractModel(s), true
		}

		for _, succ := range successors {
			if succ.IsClashed() {
				continue
			}
			worklist = append(worklist, succ)
		}
	}

	return nil, false
}
