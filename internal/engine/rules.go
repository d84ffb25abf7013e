package engine

import (
	"sort"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// conceptAssertions returns every concept assertion in s whose concept has
// the given kind, sorted by individual name then canonical form for
// deterministic rule scanning order.
func conceptAssertions(s *abox.ABox, kind concept.Kind) []abox.Assertion {
	var out []abox.Assertion
	for _, a := range s.Assertions() {
		if a.IsRole {
			continue
		}
		if a.Concept.Kind() == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ind.Name != out[j].Ind.Name {
			return out[i].Ind.Name < out[j].Ind.Name
		}
		return out[i].Concept.String() < out[j].Concept.String()
	})
	return out
}

// AndRule implements the deterministic conjunction-expansion rule: the
// first (C1 and ... and Cn)(x) whose expansion is incomplete gets all
// missing Ci(x) added in one successor.
func AndRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindAnd) {
		and := a.Concept.(concept.And)
		var missing []concept.Concept
		for _, sub := range and.Subs {
			if !s.HasConcept(a.Ind, sub) {
				missing = append(missing, sub)
			}
		}
		if len(missing) == 0 {
			continue
		}

		next := s.Clone()
		for _, sub := range missing {
			next.Insert(abox.ConceptAssertion(sub, a.Ind))
		}
		return []*abox.ABox{next}, true
	}
	return nil, false
}

// OrRule implements the nondeterministic disjunction rule: the first
// (C1 or ... or Cn)(x) with none of its disjuncts asserted yields n
// successors, one per disjunct.
func OrRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindOr) {
		or := a.Concept.(concept.Or)

		satisfied := false
		for _, sub := range or.Subs {
			if s.HasConcept(a.Ind, sub) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}

		successors := make([]*abox.ABox, 0, len(or.Subs))
		for _, sub := range or.Subs {
			next := s.Clone()
			next.Insert(abox.ConceptAssertion(sub, a.Ind))
			successors = append(successors, next)
		}
		return successors, true
	}
	return nil, false
}

// AllRule implements the deterministic value-restriction rule: for the
// first (only r C)(x) with a role-successor y missing C(y), add C(y) and
// return one successor. The rule is revisited by the dispatcher on the
// next iteration to pick up any remaining missing consequences.
func AllRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindAll) {
		all := a.Concept.(concept.All)
		for _, y := range s.RoleSuccessors(a.Ind, all.Role) {
			if s.HasConcept(y, all.Sub) {
				continue
			}
			next := s.Clone()
			next.Insert(abox.ConceptAssertion(all.Sub, y))
			return []*abox.ABox{next}, true
		}
	}
	return nil, false
}
