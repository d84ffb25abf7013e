package engine

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
	"github.com/nodeadmin/alcq-tableau/internal/tbox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

func atomic(name string) concept.Concept { return concept.Atomic{Name: name} }

// Scenario 1: atomic contradiction — A(a), not A(a) is immediately
// inconsistent.
func TestScenario_AtomicContradiction(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(atomic("A"), a))
	box.Insert(abox.ConceptAssertion(concept.Negate(atomic("A")), a))

	_, found := Solve(box, nil)
	assert.False(t, found)
}

// Scenario 2: conjunction splits to both conjuncts deterministically.
func TestScenario_ConjunctionSplitsToBoth(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(concept.And{Subs: []concept.Concept{atomic("A"), atomic("B")}}, a))

	model, found := Solve(box, nil)
	require.True(t, found)

	var hasA, hasB bool
	for _, c := range model.Concepts {
		if c.Individual == "a" && c.Concept == "A" && !c.Negated {
			hasA = true
		}
		if c.Individual == "a" && c.Concept == "B" && !c.Negated {
			hasB = true
		}
	}
	assert.True(t, hasA)
	assert.True(t, hasB)
}

// Scenario 3: disjunction requires branching — both disjuncts individually
// contradict other assertions except one, so the engine must explore.
func TestScenario_DisjunctionRequiresBranching(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(concept.Or{Subs: []concept.Concept{atomic("A"), atomic("B")}}, a))
	box.Insert(abox.ConceptAssertion(concept.Negate(atomic("A")), a))

	model, found := Solve(box, nil)
	require.True(t, found)

	var hasB bool
	for _, c := range model.Concepts {
		if c.Individual == "a" && c.Concept == "B" && !c.Negated {
			hasB = true
		}
	}
	assert.True(t, hasB, "the only consistent branch asserts B(a)")
}

// Scenario 4: existential witness — (some r A)(a) generates a fresh
// r-successor instance of A.
func TestScenario_ExistentialWitness(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(concept.Exists{Role: "r", Sub: atomic("A")}, a))

	model, found := Solve(box, nil)
	require.True(t, found)

	require.Len(t, model.Roles, 1)
	assert.Equal(t, "r", model.Roles[0].Role)
	assert.Equal(t, "a", model.Roles[0].X)
	witness := model.Roles[0].Y

	var witnessHasA bool
	for _, c := range model.Concepts {
		if c.Individual == witness && c.Concept == "A" && !c.Negated {
			witnessHasA = true
		}
	}
	assert.True(t, witnessHasA)
}

// Scenario 5: AtMost forces a merge — (<= 1 r.A)(a) with two distinct
// asserted r-A-successors must merge them.
func TestScenario_AtMostForcesMerge(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	y1 := box.AddIndividual(abox.Individual{Name: "y1"})
	y2 := box.AddIndividual(abox.Individual{Name: "y2"})
	box.Insert(abox.ConceptAssertion(concept.AtMost{N: 1, Role: "r", Sub: atomic("A")}, a))
	box.Insert(abox.RoleAssertionOf("r", a, y1))
	box.Insert(abox.RoleAssertionOf("r", a, y2))
	box.Insert(abox.ConceptAssertion(atomic("A"), y1))
	box.Insert(abox.ConceptAssertion(atomic("A"), y2))

	model, found := Solve(box, nil)
	require.True(t, found)
	assert.Len(t, model.Replacements, 1, "y1 and y2 are not provably distinct, so one merge is required")
}

// Scenario 5b: AtMost is a genuine clash when the successors are already
// known pairwise-distinct (via an AtLeast witness set elsewhere).
func TestScenario_AtMostClashesWhenSuccessorsProvablyDistinct(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	y1 := box.AddIndividual(abox.Individual{Name: "y1"})
	y2 := box.AddIndividual(abox.Individual{Name: "y2"})
	box.Insert(abox.ConceptAssertion(concept.AtMost{N: 1, Role: "r", Sub: atomic("A")}, a))
	box.Insert(abox.RoleAssertionOf("r", a, y1))
	box.Insert(abox.RoleAssertionOf("r", a, y2))
	box.Insert(abox.ConceptAssertion(atomic("A"), y1))
	box.Insert(abox.ConceptAssertion(atomic("A"), y2))
	box.AddInequalityClass([]abox.Individual{y1, y2})

	_, found := Solve(box, nil)
	assert.False(t, found)
}

// Scenario 6: cyclic GCI requires blocking — TBox: A -> (some r A). ABox:
// A(a). Expected: consistent, terminating via blocking.
func TestScenario_CyclicGCIRequiresBlocking(t *testing.T) {
	tb := tbox.New()
	tb.Add(tbox.Axiom{
		Type: tbox.Inclusion,
		LHS:  atomic("A"),
		RHS:  concept.Exists{Role: "r", Sub: atomic("A")},
	})
	g, ok := tb.Internalize()
	require.True(t, ok)

	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(atomic("A"), a))

	done := make(chan struct{})
	var model *Model
	var found bool
	go func() {
		model, found = Solve(box, g)
		close(done)
	}()

	select {
	case <-done:
	case <-timeoutCh(t):
		t.Fatal("Solve did not terminate — blocking failed to bound the cyclic GCI")
	}

	require.True(t, found)
	assert.NotEmpty(t, model.Individuals)
}

func TestBlocking_NamedNeverBlockedByAnonymous(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	fresh := box.FreshIndividual()
	box.Insert(abox.ConceptAssertion(atomic("A"), fresh))

	assert.False(t, Blocked(box, a))
}

func TestSolveParallel_AgreesWithSolveOnConsistentInput(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(concept.Or{Subs: []concept.Concept{atomic("A"), atomic("B")}}, a))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, found := SolveParallel(ctx, box, nil, 4)
	assert.True(t, found)
}

func TestSolveParallel_AgreesWithSolveOnInconsistentInput(t *testing.T) {
	box := abox.New()
	a := box.AddIndividual(abox.Individual{Name: "a"})
	box.Insert(abox.ConceptAssertion(atomic("A"), a))
	box.Insert(abox.ConceptAssertion(concept.Negate(atomic("A")), a))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, found := SolveParallel(ctx, box, nil, 4)
	assert.False(t, found)
}

func timeoutCh(t *testing.T) <-chan struct{} {
	t.Helper()
	ch := make(chan struct{})
	go func() {
		<-time.After(5 * time.Second)
		close(ch)
	}()
	return ch
}
