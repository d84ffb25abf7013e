package engine

import (
	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// withConceptSuccessors returns the role-r successors of x that are
// instances of c, in age order (the deterministic tie-break the spec asks
// for when choosing which individuals to merge or replace).
func withConceptSuccessors(s *abox.ABox, x abox.Individual, role string, c concept.Concept) []abox.Individual {
	var out []abox.Individual
	for _, y := range s.RoleSuccessors(x, role) {
		if s.HasConcept(y, c) {
			out = append(out, y)
		}
	}
	return out
}

// AtMostMergeRule implements the nondeterministic merge rule for (<= n r
// C)(x): when there are more than n r-C successors of x, it either merges
// enough of them together to bring the count down to n, or — if too many
// of them are already known pairwise-distinct to allow that — reports the
// resulting clash.
func AtMostMergeRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindAtMost) {
		atMost := a.Concept.(concept.AtMost)
		withConcept := withConceptSuccessors(s, a.Ind, atMost.Role, atMost.Sub)
		if len(withConcept) <= atMost.N {
			continue
		}

		mergeCandidates := make(map[string][]abox.Individual)
		for _, y := range withConcept {
			var cands []abox.Individual
			for _, z := range withConcept {
				if z.Name == y.Name {
					continue
				}
				if !s.AreDistinct(y, z) {
					cands = append(cands, z)
				}
			}
			if len(cands) > 0 {
				mergeCandidates[y.Name] = cands
			}
		}

		if len(mergeCandidates) < atMost.N+1 {
			// Not enough mergeable individuals to resolve the overflow:
			// withConcept already contains more than N pairwise-distinct
			// R-C successors, a genuine clash.
			clashed := s.Clone()
			clashed.MarkClashed()
			return []*abox.ABox{clashed}, true
		}

		keep := make(map[string]bool, atMost.N+1)
		var keepOrder []abox.Individual
		for _, y := range withConcept {
			if len(keepOrder) == atMost.N+1 {
				break
			}
			if _, ok := mergeCandidates[y.Name]; ok {
				keep[y.Name] = true
				keepOrder = append(keepOrder, y)
			}
		}

		var successors []*abox.ABox
		for _, y := range keepOrder {
			for _, z := range mergeCandidates[y.Name] {
				if !keep[z.Name] {
					continue
				}
				next := s.Clone()
				next.MergeInto(y, z)
				successors = append(successors, next)
			}
		}

		if len(successors) > 0 {
			return successors, true
		}
	}
	return nil, false
}

// ChooseRule implements the nondeterministic choose rule: for (<= n r
// C)(x) and every r-successor y undecided on C, branch into C(y) and
// nnf(not C)(y), so the AtMost merge rule can later tell whether y is an
// R-C-successor. Choose ignores blocking: it never generates a fresh
// individual, so termination is unaffected.
func ChooseRule(s *abox.ABox) ([]*abox.ABox, bool) {
	for _, a := range conceptAssertions(s, concept.KindAtMost) {
		atMost := a.Concept.(concept.AtMost)
		for _, y := range s.RoleSuccessors(a.Ind, atMost.Role) {
			if s.HasConcept(y, atMost.Sub) || s.HasConcept(y, concept.Negate(atMost.Sub)) {
				continue
			}

			withC := s.Clone()
			withC.Insert(abox.ConceptAssertion(atMost.Sub, y))

			withoutC := s.Clone()
			withoutC.Insert(abox.ConceptAssertion(concept.Negate(atMost.Sub), y))

			return []*abox.ABox{withC, withoutC}, true
		}
	}
	return nil, false
}
