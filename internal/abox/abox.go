// Package abox implements ABox state: typed assertions over individuals,
// the inequality partition produced by AtLeast witnesses, and the
// replacement trace produced by AtMost merges.
package abox

import (
	"fmt"
	"sort"

	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// Individual is a named node in the tableau. Age is a monotonically
// increasing insertion-order counter: individuals compare older/younger by
// Age, never by name, so that blocking (internal/engine) has a total order
// independent of how names happen to sort lexically.
type Individual struct {
	Name string
	Age  int
	// Anonymous individuals are synthesized by a generative rule; named
	// individuals come from the parsed ABox and are always older than any
	// anonymous individual, per spec.
	Anonymous bool
}

// OlderThan reports whether i was inserted strictly before j.
func (i Individual) OlderThan(j Individual) bool { return i.Age < j.Age }

// Assertion is one ABox axiom: either a concept assertion C(x) or a role
// assertion r(x, y). Exactly one of Concept/Role is set, discriminated by
// IsRole.
type Assertion struct {
	IsRole bool

	// Concept assertion fields.
	Concept concept.Concept
	Ind     Individual

	// Role assertion fields.
	Role string
	X, Y Individual
}

// ConceptAssertion constructs C(x).
func ConceptAssertion(c concept.Concept, x Individual) Assertion {
	return Assertion{Concept: c, Ind: x}
}

// RoleAssertionOf constructs r(x, y).
func RoleAssertionOf(role string, x, y Individual) Assertion {
	return Assertion{IsRole: true, Role: role, X: x, Y: y}
}

// Canonical is the printed form used for equality/hashing of assertions,
// mirroring the canonical-string identity used for concepts.
func (a Assertion) Canonical() string {
	if a.IsRole {
		return fmt.Sprintf("%s(%s, %s)", a.Role, a.X.Name, a.Y.Name)
	}
	return fmt.Sprintf("%s(%s)", concept.Canonical(a.Concept), a.Ind.Name)
}

func (a Assertion) String() string { return a.Canonical() }

// Consistency is the ABox state's consistency flag: Unknown until a clash
// is found, then Clashed.
type Consistency int

const (
	Unknown Consistency = iota
	Clashed
)

// ABox bundles the assertion set, the live individuals, the inequality
// partition, the AtMost replacement trace and the consistency flag.
type ABox struct {
	assertions  map[string]Assertion
	individuals map[string]Individual
	// insertion order of individuals, used to derive Age deterministically
	// when cloning/rebuilding.
	order []string

	// Inequality classes: each is a set of individuals known pairwise
	// distinct, arising from an AtLeast witness set.
	Inequalities []map[string]Individual

	// Replacements records AtMost merges: old individual name -> new.
	Replacements map[string]string

	Consistent Consistency

	nextAge int
}

// New returns an empty ABox.
func New() *ABox {
	return &ABox{
		assertions:   make(map[string]Assertion),
		individuals:  make(map[string]Individual),
		Replacements: make(map[string]string),
	}
}

// AddIndividual inserts x (if not already present) and asserts TOP(x).
func (s *ABox) AddIndividual(x Individual) Individual {
	if existing, ok := s.individuals[x.Name]; ok {
		return existing
	}
	x.Age = s.nextAge
	s.nextAge++
	s.individuals[x.Name] = x
	s.order = append(s.order, x.Name)
	s.Insert(ConceptAssertion(concept.Atomic{Name: concept.Top}, x))
	return x
}

// Individuals returns the live individuals in insertion (age) order.
func (s *ABox) Individuals() []Individual {
	out := make([]Individual, 0, len(s.order))
	for _, name := range s.order {
		if ind, ok := s.individuals[name]; ok {
			out = append(out, ind)
		}
	}
	return out
}

// HasIndividual reports whether x is live.
func (s *ABox) HasIndividual(name string) (Individual, bool) {
	ind, ok := s.individuals[name]
	return ind, ok
}

// Insert adds axiom to the assertion set. If axiom is C(x) and
// negate(C)(x) is already present, the state flips to Clashed.
func (s *ABox) Insert(axiom Assertion) {
	s.assertions[axiom.Canonical()] = axiom

	if axiom.IsRole {
		return
	}
	neg := ConceptAssertion(concept.Negate(axiom.Concept), axiom.Ind)
	if _, ok := s.assertions[neg.Canonical()]; ok {
		s.Consistent = Clashed
	}
}

// Contains reports whether axiom is already asserted.
func (s *ABox) Contains(axiom Assertion) bool {
	_, ok := s.assertions[axiom.Canonical()]
	return ok
}

// Assertions returns all assertions, sorted by canonical form for
// deterministic iteration in callers and tests.
func (s *ABox) Assertions() []Assertion {
	out := make([]Assertion, 0, len(s.assertions))
	for _, a := range s.assertions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical() < out[j].Canonical() })
	return out
}

// ConceptsOf returns the set (as canonical strings -> Concept) of concepts
// asserted of x. Used by blocking.
func (s *ABox) ConceptsOf(x Individual) map[string]concept.Concept {
	out := make(map[string]concept.Concept)
	for _, a := range s.assertions {
		if !a.IsRole && a.Ind.Name == x.Name {
			out[concept.Canonical(a.Concept)] = a.Concept
		}
	}
	return out
}

// HasConcept reports whether c(x) is asserted.
func (s *ABox) HasConcept(x Individual, c concept.Concept) bool {
	return s.Contains(ConceptAssertion(c, x))
}

// RoleSuccessors returns every y such that role(x, y) is asserted.
func (s *ABox) RoleSuccessors(x Individual, role string) []Individual {
	var out []Individual
	for _, a := range s.assertions {
		if a.IsRole && a.Role == role && a.X.Name == x.Name {
			out = append(out, a.Y)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Age < out[j].Age })
	return out
}

// AreDistinct reports whether x and y are known pairwise-distinct, i.e.
// some inequality class contains both.
func (s *ABox) AreDistinct(x, y Individual) bool {
	for _, class := range s.Inequalities {
		_, hx := class[x.Name]
		_, hy := class[y.Name]
		if hx && hy {
			return true
		}
	}
	return false
}

// Clone returns a deep-enough copy such that mutating the result never
// affects the receiver: a fresh map/slice for every mutable field, with
// concept/assertion values themselves treated as immutable.
func (s *ABox) Clone() *ABox {
	out := &ABox{
		assertions:   make(map[string]Assertion, len(s.assertions)),
		individuals:  make(map[string]Individual, len(s.individuals)),
		order:        append([]string(nil), s.order...),
		Replacements: make(map[string]string, len(s.Replacements)),
		Consistent:   s.Consistent,
		nextAge:      s.nextAge,
	}
	for k, v := range s.assertions {
		out.assertions[k] = v
	}
	for k, v := range s.individuals {
		out.individuals[k] = v
	}
	for k, v := range s.Replacements {
		out.Replacements[k] = v
	}
	out.Inequalities = make([]map[string]Individual, len(s.Inequalities))
	for i, class := range s.Inequalities {
		newClass := make(map[string]Individual, len(class))
		for k, v := range class {
			newClass[k] = v
		}
		out.Inequalities[i] = newClass
	}
	return out
}

// FreshIndividual adds a fresh anonymous individual, naming it with the
// live individual count as a generation marker (the original reasoner's
// "x_#N" convention).
func (s *ABox) FreshIndividual() Individual {
	name := fmt.Sprintf("x_#%d", len(s.individuals))
	for {
		if _, exists := s.individuals[name]; !exists {
			break
		}
		name = name + "'"
	}
	return s.AddIndividual(Individual{Name: name, Anonymous: true})
}

// AddInequalityClass records a new set of pairwise-distinct individuals.
func (s *ABox) AddInequalityClass(members []Individual) {
	class := make(map[string]Individual, len(members))
	for _, m := range members {
		class[m.Name] = m
	}
	s.Inequalities = append(s.Inequalities, class)
}

// MergeInto rewrites every assertion referring to oldInd to refer to
// newInd, removes oldInd from the individuals set, and updates the
// inequality classes: if both ended up in the same class the merge is
// inconsistent (clashed); otherwise oldInd is dropped from its class and
// newInd is added. The merge is recorded in Replacements.
func (s *ABox) MergeInto(oldInd, newInd Individual) {
	old := s.assertions
	s.assertions = make(map[string]Assertion, len(old))
	for _, a := range old {
		na := a
		if !a.IsRole {
			if a.Ind.Name == oldInd.Name {
				na.Ind = newInd
			}
		} else {
			if a.X.Name == oldInd.Name {
				na.X = newInd
			}
			if a.Y.Name == oldInd.Name {
				na.Y = newInd
			}
		}
		s.assertions[na.Canonical()] = na
	}

	delete(s.individuals, oldInd.Name)
	for i, name := range s.order {
		if name == oldInd.Name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	for _, class := range s.Inequalities {
		if _, ok := class[oldInd.Name]; !ok {
			continue
		}
		delete(class, oldInd.Name)
		if _, ok := class[newInd.Name]; ok {
			s.Consistent = Clashed
		} else {
			class[newInd.Name] = newInd
		}
	}

	s.Replacements[oldInd.Name] = newInd.Name
}

// IsClashed reports whether the state has been marked clashed.
func (s *ABox) IsClashed() bool { return s.Consistent == Clashed }

// MarkClashed forces the clashed flag, used by rules that detect a
// cardinality contradiction that Insert alone cannot see.
func (s *ABox) MarkClashed() { s.Consistent = Clashed }
