package engine

import (
	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// Blocked reports whether y is blocked in state s: some x strictly older
// than y exists whose asserted-concept set is a superset of y's. Named
// individuals are always older than any anonymous one (enforced by age
// assignment order in abox.ABox), so named individuals can never be
// blocked by an anonymous individual.
func Blocked(s *abox.ABox, y abox.Individual) bool {
	yConcepts := s.ConceptsOf(y)

	for _, x := range s.Individuals() {
		if x.Name == y.Name || !x.OlderThan(y) {
			continue
		}
		if coversAll(s.ConceptsOf(x), yConcepts) {
			return true
		}
	}
	return false
}

// coversAll reports whether every key in sub is present in super.
func coversAll(super, sub map[string]concept.Concept) bool {
	for k := range sub {
		if _, ok := super[k]; !ok {
			return false
		}
	}
	return true
}
