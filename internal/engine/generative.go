package engine

import (
	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// ExistsRule implements the generative existential rule: for the first
// (some r C)(x) with no witnessing r-successor already an instance of C,
// create one fresh anonymous individual, unless x is blocked — in which
// case this axiom is skipped (not fired) so the dispatcher can try the
// next one.
func ExistsRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindExists) {
		ex := a.Concept.(concept.Exists)

		satisfied := false
		for _, y := range s.RoleSuccessors(a.Ind, ex.Role) {
			if s.HasConcept(y, ex.Sub) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		if Blocked(s, a.Ind) {
			continue
		}

		next := s.Clone()
		fresh := next.FreshIndividual()
		next.Insert(abox.RoleAssertionOf(ex.Role, a.Ind, fresh))
		next.Insert(abox.ConceptAssertion(ex.Sub, fresh))
		return []*abox.ABox{next}, true
	}
	return nil, false
}

// AtLeastRule implements the generative qualified-cardinality rule: for
// the first (>= n r C)(x) with no witnessing set of n pairwise-distinct
// R-C-successors of x, create n fresh individuals, assert R and C on each,
// and record them as a new inequality class. Skipped (not fired) when x
// is blocked. The successor is marked clashed if a conflicting (<= m r
// C)(x) with m < n is already present.
func AtLeastRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindAtLeast) {
		atLeast := a.Concept.(concept.AtLeast)

		if hasWitnessSet(s, a.Ind, atLeast) {
			continue
		}
		if Blocked(s, a.Ind) {
			continue
		}

		next := s.Clone()
		fresh := make([]abox.Individual, 0, atLeast.N)
		for i := 0; i < atLeast.N; i++ {
			y := next.FreshIndividual()
			next.Insert(abox.RoleAssertionOf(atLeast.Role, a.Ind, y))
			next.Insert(abox.ConceptAssertion(atLeast.Sub, y))
			fresh = append(fresh, y)
		}
		next.AddInequalityClass(fresh)

		if conflictingAtMost(next, a.Ind, atLeast) {
			next.MarkClashed()
		}

		return []*abox.ABox{next}, true
	}
	return nil, false
}

// hasWitnessSet reports whether x already has a set of n pairwise-distinct
// R-C-successors satisfying atLeast.
func hasWitnessSet(s *abox.ABox, x abox.Individual, atLeast concept.AtLeast) bool {
	candidates := withConceptSuccessors(s, x, atLeast.Role, atLeast.Sub)
	if atLeast.N <= 1 && len(candidates) >= atLeast.N {
		// A set of at most one individual is pairwise distinct by itself.
		return true
	}
	for _, class := range s.Inequalities {
		var members []abox.Individual
		for _, c := range candidates {
			if _, ok := class[c.Name]; ok {
				members = append(members, c)
			}
		}
		if len(members) >= atLeast.N {
			return true
		}
	}
	return false
}

// conflictingAtMost reports whether x already carries a (<= m r C)(x) with
// m less than atLeast.N, which directly contradicts the witness set just
// created.
func conflictingAtMost(s *abox.ABox, x abox.Individual, atLeast concept.AtLeast) bool {
	for _, a := range conceptAssertions(s, concept.KindAtMost) {
		if a.Ind.Name != x.Name {
			continue
		}
		atMost := a.Concept.(concept.AtMost)
		if atMost.Role == atLeast.Role && concept.Equal(atMost.Sub, atLeast.Sub) && atMost.N < atLeast.N {
			return true
		}
	}
	return false
}
