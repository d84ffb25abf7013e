// Package tbox implements the terminological-box preprocessor: unfolding
// of definitions, rewriting the ABox with unfolded definitions, and
// internalizing general inclusions into a single universally-applied
// concept G.
package tbox

import (
	"fmt"
	"strings"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// AxiomType discriminates a definition (A == C) from an inclusion (C -> D).
type AxiomType int

const (
	Definition AxiomType = iota
	Inclusion
)

// Axiom is one TBox line: a definition A == C or an inclusion C -> D. Both
// sides are stored in NNF.
type Axiom struct {
	Type AxiomType
	LHS  concept.Concept
	RHS  concept.Concept
}

func (a Axiom) String() string {
	delim := "->"
	if a.Type == Definition {
		delim = "=="
	}
	return fmt.Sprintf("%s %s %s", a.LHS, delim, a.RHS)
}

// TBox is a set of axioms, deduplicated by canonical printed form.
type TBox struct {
	axioms map[string]Axiom
	// order preserves insertion for deterministic String()/iteration.
	order []string
}

// New returns an empty TBox.
func New() *TBox {
	return &TBox{axioms: make(map[string]Axiom)}
}

// Add inserts an axiom, deduplicating by canonical string.
func (t *TBox) Add(a Axiom) {
	key := a.String()
	if _, exists := t.axioms[key]; exists {
		return
	}
	t.axioms[key] = a
	t.order = append(t.order, key)
}

// Axioms returns the axioms in insertion order.
func (t *TBox) Axioms() []Axiom {
	out := make([]Axiom, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.axioms[key])
	}
	return out
}

func (t *TBox) String() string {
	var b strings.Builder
	b.WriteString("TBox:")
	for _, a := range t.Axioms() {
		b.WriteString("\n  - ")
		b.WriteString(a.String())
	}
	return b.String()
}

// ErrCyclicDefinitions is returned by UnfoldDefinitions when the definition
// graph is cyclic: the naive substitution-based unfolder has no
// least-fixed-point semantics for recursive definitions, so this is
// reported as a fatal input error rather than looping forever.
var ErrCyclicDefinitions = fmt.Errorf("tbox: cyclic definitions detected")

// UnfoldDefinitions repeatedly substitutes each definition A == C into the
// right-hand sides of every other axiom, processing each definition
// exactly once, in dependency order: a definition is only substituted once
// its own RHS no longer mentions another as-yet-unprocessed definition. It
// returns ErrCyclicDefinitions if an entire pass over the remaining
// definitions makes no progress, which is exactly the condition under
// which a recursive (cyclic) definition graph would otherwise make the
// naive substitution loop forever.
//
// Definitions are tracked by LHS canonical form, not by a snapshotted
// Axiom value: an earlier definition's substitution pass rewrites every
// other axiom's RHS in t.axioms, including later definitions' own entries,
// so a definition's RHS must be re-read live from t.axioms on its turn —
// trusting a value captured before the loop started would let an
// already-processed atomic leak back in through a definition chain deeper
// than one level. Respecting dependency order (rather than processing
// whatever definition's turn comes up next regardless of what it still
// depends on) is what lets this also happen within a single pass when the
// definitions happen to be declared in dependency order, and across
// multiple passes when they are not.
func (t *TBox) UnfoldDefinitions() error {
	var lhsKeys []string
	pending := make(map[string]bool)
	for _, a := range t.Axioms() {
		if a.Type == Definition {
			key := concept.Canonical(a.LHS)
			lhsKeys = append(lhsKeys, key)
			pending[key] = true
		}
	}

	for len(pending) > 0 {
		progressed := false

		for _, lhsKey := range lhsKeys {
			if !pending[lhsKey] {
				continue
			}

			def, ok := t.findDefinition(lhsKey)
			if !ok {
				delete(pending, lhsKey)
				progressed = true
				continue
			}

			if mentionsPending(def.RHS, pending) {
				// Still depends on another unprocessed definition; leave it
				// for a later pass, once that dependency has been folded in.
				continue
			}

			// Substitute def.LHS -> def.RHS into every other axiom's RHS
			// (including other unprocessed definitions' RHS). Snapshot the
			// keys first: mutating t.axioms while ranging over it would
			// make the unfolding order depend on Go's map iteration order.
			keys := make([]string, 0, len(t.axioms))
			for key := range t.axioms {
				keys = append(keys, key)
			}
			for _, key := range keys {
				a, ok := t.axioms[key]
				if !ok || concept.Canonical(a.LHS) == lhsKey {
					continue
				}
				newRHS := concept.Replace(a.RHS, def.LHS, def.RHS)
				if concept.Equal(newRHS, a.RHS) {
					continue
				}
				delete(t.axioms, key)
				a.RHS = concept.NNF(newRHS)
				newKey := a.String()
				t.axioms[newKey] = a
				replaceOrder(t.order, key, newKey)
			}

			delete(pending, lhsKey)
			progressed = true
		}

		if !progressed {
			return ErrCyclicDefinitions
		}
	}

	return nil
}

// mentionsPending reports whether c contains, as a subconcept, an atomic
// naming a definition still in pending — including lhsKey's own definition,
// so a directly self-referential definition (A == (and (A B))) is treated
// as a cycle rather than silently resolved by skipping the self-match.
func mentionsPending(c concept.Concept, pending map[string]bool) bool {
	switch v := c.(type) {
	case concept.Atomic:
		return pending[v.Name]
	case concept.Not:
		return mentionsPending(v.Sub, pending)
	case concept.And:
		return mentionsAnyPending(v.Subs, pending)
	case concept.Or:
		return mentionsAnyPending(v.Subs, pending)
	case concept.All:
		return mentionsPending(v.Sub, pending)
	case concept.Exists:
		return mentionsPending(v.Sub, pending)
	case concept.AtLeast:
		return mentionsPending(v.Sub, pending)
	case concept.AtMost:
		return mentionsPending(v.Sub, pending)
	default:
		return false
	}
}

func mentionsAnyPending(cs []concept.Concept, pending map[string]bool) bool {
	for _, c := range cs {
		if mentionsPending(c, pending) {
			return true
		}
	}
	return false
}

// findDefinition returns the live definition axiom whose LHS canonical form
// is lhsKey, reflecting any substitutions already applied to it by earlier
// definitions processed in this unfolding run.
func (t *TBox) findDefinition(lhsKey string) (Axiom, bool) {
	for _, a := range t.axioms {
		if a.Type == Definition && concept.Canonical(a.LHS) == lhsKey {
			return a, true
		}
	}
	return Axiom{}, false
}

func replaceOrder(order []string, oldKey, newKey string) {
	for i, k := range order {
		if k == oldKey {
			order[i] = newKey
			return
		}
	}
}

// ApplyDefinitionsToABox takes every concept assertion in box whose
// concept mentions a defined atomic (as the whole concept or a
// subconcept), substitutes the definition's RHS, re-NNFs, and inserts the
// result. The original assertion is not removed: it stays in box beside
// the rewritten one.
func (t *TBox) ApplyDefinitionsToABox(box *abox.ABox) {
	var defs []Axiom
	for _, a := range t.Axioms() {
		if a.Type == Definition {
			defs = append(defs, a)
		}
	}
	if len(defs) == 0 {
		return
	}

	for _, assertion := range box.Assertions() {
		if assertion.IsRole {
			continue
		}
		c := assertion.Concept
		changed := false
		for _, def := range defs {
			rewritten := concept.Replace(c, def.LHS, def.RHS)
			if !concept.Equal(rewritten, c) {
				c = rewritten
				changed = true
			}
		}
		if changed {
			box.Insert(abox.ConceptAssertion(concept.NNF(c), assertion.Ind))
		}
	}
}

// Internalize returns a single concept G equivalent to the conjunction,
// over every inclusion C -> D, of nnf(not C or D). If there are no
// inclusions, it returns (nil, false) and the engine treats that as an
// always-true guard.
func (t *TBox) Internalize() (concept.Concept, bool) {
	var conjuncts []concept.Concept
	for _, a := range t.Axioms() {
		if a.Type != Inclusion {
			continue
		}
		disjunct := concept.NNF(concept.Or{Subs: []concept.Concept{concept.Negate(a.LHS), a.RHS}})
		conjuncts = append(conjuncts, disjunct)
	}
	if len(conjuncts) == 0 {
		return nil, false
	}
	if len(conjuncts) == 1 {
		return conjuncts[0], true
	}
	return concept.And{Subs: conjuncts}, true
}
