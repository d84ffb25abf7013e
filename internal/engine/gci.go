package engine

import (
	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// GCIRule implements the deterministic internalized-inclusion rule: for
// the internalized concept G (absent means the TBox had no inclusions, an
// always-true guard), asserts G on the first individual missing it.
func GCIRule(g concept.Concept) RuleFunc {
	return func(s *abox.ABox) ([]*abox.ABox, bool) {
		if g == nil {
			return nil, false
		}
		for _, x := range s.Individuals() {
			if s.HasConcept(x, g) {
				continue
			}
			next := s.Clone()
			next.Insert(abox.ConceptAssertion(g, x))
			return []*abox.ABox{next}, true
		}
		return nil, false
	}
}
