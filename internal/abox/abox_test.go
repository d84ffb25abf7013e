package abox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

func TestInsert_DetectsClash(t *testing.T) {
	box := New()
	a := box.AddIndividual(Individual{Name: "a"})
	box.Insert(ConceptAssertion(concept.Atomic{Name: "A"}, a))
	assert.False(t, box.IsClashed())

	box.Insert(ConceptAssertion(concept.Not{Sub: concept.Atomic{Name: "A"}}, a))
	assert.True(t, box.IsClashed())
}

func TestAddIndividual_AgeOrderAndNamedAlwaysOlder(t *testing.T) {
	box := New()
	a := box.AddIndividual(Individual{Name: "a"})
	b := box.AddIndividual(Individual{Name: "b"})
	require.True(t, a.OlderThan(b))

	fresh := box.FreshIndividual()
	assert.True(t, b.OlderThan(fresh))
	assert.True(t, fresh.Anonymous)
}

func TestFreshIndividual_NeverCollides(t *testing.T) {
	box := New()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		f := box.FreshIndividual()
		require.False(t, seen[f.Name], "duplicate fresh name %q", f.Name)
		seen[f.Name] = true
	}
}

func TestRoleSuccessors_AgeOrdered(t *testing.T) {
	box := New()
	a := box.AddIndividual(Individual{Name: "a"})
	y1 := box.AddIndividual(Individual{Name: "y1"})
	y2 := box.AddIndividual(Individual{Name: "y2"})
	box.Insert(RoleAssertionOf("r", a, y2))
	box.Insert(RoleAssertionOf("r", a, y1))

	succ := box.RoleSuccessors(a, "r")
	require.Len(t, succ, 2)
	assert.Equal(t, "y1", succ[0].Name)
	assert.Equal(t, "y2", succ[1].Name)
}

func TestMergeInto_RewritesAssertionsAndDropsIndividual(t *testing.T) {
	box := New()
	a := box.AddIndividual(Individual{Name: "a"})
	y := box.AddIndividual(Individual{Name: "y"})
	z := box.AddIndividual(Individual{Name: "z"})
	box.Insert(RoleAssertionOf("r", a, y))
	box.Insert(ConceptAssertion(concept.Atomic{Name: "C"}, y))

	box.MergeInto(y, z)

	_, stillPresent := box.HasIndividual("y")
	assert.False(t, stillPresent)
	assert.True(t, box.HasConcept(z, concept.Atomic{Name: "C"}))

	successors := box.RoleSuccessors(a, "r")
	require.Len(t, successors, 1)
	assert.Equal(t, "z", successors[0].Name)
	assert.Equal(t, "z", box.Replacements["y"])
}

func TestMergeInto_SameInequalityClassClashes(t *testing.T) {
	box := New()
	y := box.AddIndividual(Individual{Name: "y"})
	z := box.AddIndividual(Individual{Name: "z"})
	box.AddInequalityClass([]Individual{y, z})

	box.MergeInto(y, z)
	assert.True(t, box.IsClashed())
}

func TestClone_IsIndependent(t *testing.T) {
	box := New()
	a := box.AddIndividual(Individual{Name: "a"})
	clone := box.Clone()

	clone.Insert(ConceptAssertion(concept.Atomic{Name: "X"}, a))
	assert.True(t, clone.HasConcept(a, concept.Atomic{Name: "X"}))
	assert.False(t, box.HasConcept(a, concept.Atomic{Name: "X"}))
}
