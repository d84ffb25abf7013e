// Package surface is the external collaborator the tableau engine does
// not depend on: it reads the textual KB format (spec.md §6) into the
// concept/abox/tbox types the engine consumes. A malformed concept is
// rejected here, before the engine ever sees it.
package surface

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
	"github.com/nodeadmin/alcq-tableau/internal/tbox"
)

// tokenStream is a simple lookahead-1 cursor over a pre-tokenized concept
// expression.
type tokenStream struct {
	tokens []string
	pos    int
}

func (t *tokenStream) peek() (string, bool) {
	if t.pos >= len(t.tokens) {
		return "", false
	}
	return t.tokens[t.pos], true
}

func (t *tokenStream) next() (string, error) {
	tok, ok := t.peek()
	if !ok {
		return "", fmt.Errorf("surface: unexpected end of concept expression")
	}
	t.pos++
	return tok, nil
}

func (t *tokenStream) expect(want string) error {
	got, err := t.next()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("surface: expected %q, got %q", want, got)
	}
	return nil
}

// tokenizeConcept splits a prefix concept expression into tokens,
// treating "(" and ")" as standalone tokens and everything else as
// whitespace-delimited words.
func tokenizeConcept(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// ParseConcept parses a single prefix concept expression (spec.md §6
// grammar) and returns it in negation normal form, ready for the engine.
func ParseConcept(expr string) (concept.Concept, error) {
	ts := &tokenStream{tokens: tokenizeConcept(expr)}
	c, err := parseConceptExpr(ts)
	if err != nil {
		return nil, err
	}
	if _, ok := ts.peek(); ok {
		return nil, fmt.Errorf("surface: trailing tokens after concept expression %q", expr)
	}
	return concept.NNF(c), nil
}

func parseConceptExpr(ts *tokenStream) (concept.Concept, error) {
	tok, err := ts.next()
	if err != nil {
		return nil, err
	}

	switch tok {
	case "(":
		c, err := parseConceptExpr(ts)
		if err != nil {
			return nil, err
		}
		if err := ts.expect(")"); err != nil {
			return nil, err
		}
		return c, nil

	case "not":
		sub, err := parseConceptExpr(ts)
		if err != nil {
			return nil, err
		}
		return concept.Not{Sub: sub}, nil

	case "and", "or":
		if err := ts.expect("("); err != nil {
			return nil, err
		}
		var subs []concept.Concept
		for {
			peeked, ok := ts.peek()
			if !ok {
				return nil, fmt.Errorf("surface: unterminated %s-expression", tok)
			}
			if peeked == ")" {
				break
			}
			sub, err := parseConceptExpr(ts)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		if err := ts.expect(")"); err != nil {
			return nil, err
		}
		if len(subs) < 2 {
			return nil, fmt.Errorf("surface: %s requires at least two subconcepts, got %d", tok, len(subs))
		}
		if tok == "and" {
			return concept.And{Subs: subs}, nil
		}
		return concept.Or{Subs: subs}, nil

	case "only", "some":
		role, err := ts.next()
		if err != nil {
			return nil, err
		}
		sub, err := parseConceptExpr(ts)
		if err != nil {
			return nil, err
		}
		if tok == "only" {
			return concept.All{Role: role, Sub: sub}, nil
		}
		return concept.Exists{Role: role, Sub: sub}, nil

	case ">=", "<=":
		nTok, err := ts.next()
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(nTok)
		if err != nil {
			return nil, fmt.Errorf("surface: invalid cardinality %q: %w", nTok, err)
		}
		role, err := ts.next()
		if err != nil {
			return nil, err
		}
		sub, err := parseConceptExpr(ts)
		if err != nil {
			return nil, err
		}
		if tok == ">=" {
			return concept.AtLeast{N: n, Role: role, Sub: sub}, nil
		}
		return concept.AtMost{N: n, Role: role, Sub: sub}, nil

	default:
		return concept.Atomic{Name: tok}, nil
	}
}

// ParseABox reads the ABox text format (one axiom per line, "#" comments,
// blank lines ignored) and returns the assertions plus a freshly populated
// individuals set with TOP(x) asserted for each.
func ParseABox(r io.Reader) (*abox.ABox, error) {
	box := abox.New()
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseABoxLine(box, line); err != nil {
			return nil, fmt.Errorf("surface: abox line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("surface: reading abox: %w", err)
	}
	return box, nil
}

func parseABoxLine(box *abox.ABox, line string) error {
	open := strings.Index(line, "[")
	close := strings.LastIndex(line, "]")
	if open < 0 || close < 0 || close < open {
		return fmt.Errorf("malformed axiom %q", line)
	}

	head := strings.TrimSpace(line[:open])
	args := strings.TrimSpace(line[open+1 : close])

	if strings.Contains(args, ",") {
		parts := strings.SplitN(args, ",", 2)
		x := box.AddIndividual(abox.Individual{Name: strings.TrimSpace(parts[0])})
		y := box.AddIndividual(abox.Individual{Name: strings.TrimSpace(parts[1])})
		box.Insert(abox.RoleAssertionOf(head, x, y))
		return nil
	}

	c, err := ParseConcept(head)
	if err != nil {
		return err
	}
	x := box.AddIndividual(abox.Individual{Name: args})
	box.Insert(abox.ConceptAssertion(c, x))
	return nil
}

// ParseTBox reads the TBox text format: one axiom per line, "A == C"
// (definition) or "C -> D" (inclusion), "#" comments and blanks ignored.
// Both sides are returned in NNF.
func ParseTBox(r io.Reader) (*tbox.TBox, error) {
	t := tbox.New()
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		axiom, err := parseTBoxLine(line)
		if err != nil {
			return nil, fmt.Errorf("surface: tbox line %d: %w", lineNo, err)
		}
		t.Add(axiom)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("surface: reading tbox: %w", err)
	}
	return t, nil
}

func parseTBoxLine(line string) (tbox.Axiom, error) {
	axiomType := tbox.Inclusion
	delim := "->"
	if strings.Contains(line, "==") {
		axiomType = tbox.Definition
		delim = "=="
	} else if !strings.Contains(line, "->") {
		return tbox.Axiom{}, fmt.Errorf("malformed tbox axiom %q: no '==' or '->'", line)
	}

	idx := strings.Index(line, delim)
	lhsStr := strings.TrimSpace(line[:idx])
	rhsStr := strings.TrimSpace(line[idx+len(delim):])

	lhs, err := ParseConcept(lhsStr)
	if err != nil {
		return tbox.Axiom{}, fmt.Errorf("lhs: %w", err)
	}
	rhs, err := ParseConcept(rhsStr)
	if err != nil {
		return tbox.Axiom{}, fmt.Errorf("rhs: %w", err)
	}

	return tbox.Axiom{Type: axiomType, LHS: lhs, RHS: rhs}, nil
}
