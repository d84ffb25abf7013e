package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/alcq-tableau/internal/concept"
	"github.com/nodeadmin/alcq-tableau/internal/tbox"
)

func TestParseConcept(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want string
	}{
		{"atomic", "A", "A"},
		{"not", "not A", "not A"},
		{"and", "and (A B)", "and (A B)"},
		{"or", "or (A B)", "or (A B)"},
		{"only", "only r A", "only r A"},
		{"some", "some r A", "some r A"},
		{"at-least", ">= 2 r A", ">= 2 r A"},
		{"at-most", "<= 3 r A", "<= 3 r A"},
		{"nested parens", "(and (A (some r B)))", "and (A some r B)"},
		{"double negation normalizes", "not (not A)", "A"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseConcept(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.String())
		})
	}
}

func TestParseConcept_Errors(t *testing.T) {
	cases := []string{
		"and (A)",       // needs >= 2 subconcepts
		"and (A B",      // unterminated
		">= x r A",      // bad cardinality
		"A B",           // trailing tokens
		"",               // empty
	}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseConcept(expr)
			assert.Error(t, err)
		})
	}
}

func TestParseABox(t *testing.T) {
	input := `
# a comment
A[a]
not A[b]
r[a, b]
`
	box, err := ParseABox(strings.NewReader(input))
	require.NoError(t, err)

	a, ok := box.HasIndividual("a")
	require.True(t, ok)
	b, ok := box.HasIndividual("b")
	require.True(t, ok)

	assert.True(t, box.HasConcept(a, concept.Atomic{Name: "A"}))
	assert.True(t, box.HasConcept(b, concept.Not{Sub: concept.Atomic{Name: "A"}}))

	succ := box.RoleSuccessors(a, "r")
	require.Len(t, succ, 1)
	assert.Equal(t, "b", succ[0].Name)
}

func TestParseTBox(t *testing.T) {
	input := `
# definitions and inclusions
Human == and (Animal Rational)
Student -> Human
`
	tb, err := ParseTBox(strings.NewReader(input))
	require.NoError(t, err)

	axioms := tb.Axioms()
	require.Len(t, axioms, 2)

	var def, inc tbox.Axiom
	for _, a := range axioms {
		if a.Type == tbox.Definition {
			def = a
		} else {
			inc = a
		}
	}
	assert.Equal(t, "Human", def.LHS.String())
	assert.Equal(t, "and (Animal Rational)", def.RHS.String())
	assert.Equal(t, "Student", inc.LHS.String())
	assert.Equal(t, "Human", inc.RHS.String())
}
