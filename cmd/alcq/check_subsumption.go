package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
	"github.com/nodeadmin/alcq-tableau/internal/tbox"
)

var checkSubsumptionCmd = &cobra.Command{
	Use:   "check-subsumption <tbox-path>",
	Short: "Check whether the sole inclusion in a TBox holds as a subsumption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTBox(args[0])
		if err != nil {
			return err
		}

		if err := t.UnfoldDefinitions(); err != nil {
			return fmt.Errorf("unfolding tbox definitions: %w", err)
		}

		query, err := soleInclusion(t)
		if err != nil {
			return err
		}

		// nnf(not(not C or D)): asserted on a fresh individual, consistency
		// holds iff the subsumption C <= D does NOT hold.
		negatedQuery := concept.NNF(concept.Not{Sub: concept.Or{
			Subs: []concept.Concept{concept.Not{Sub: query.LHS}, query.RHS},
		}})

		box := abox.New()
		x := box.AddIndividual(abox.Individual{Name: "x_query"})
		box.Insert(abox.ConceptAssertion(negatedQuery, x))

		// G is built from every inclusion except the query itself.
		rest := tbox.New()
		for _, a := range t.Axioms() {
			if a.String() != query.String() {
				rest.Add(a)
			}
		}
		g, _ := rest.Internalize()

		start := time.Now()
		_, found := solve(cmd.Context(), box, g)
		logger.Info("solved subsumption query", zap.Duration("elapsed", time.Since(start)))

		if found {
			fmt.Println("subsumption does not hold")
		} else {
			fmt.Println("subsumption holds")
		}
		return nil
	},
}

// soleInclusion returns the single inclusion axiom used as the subsumption
// query. A TBox with no inclusion has no query to check (spec.md §7).
func soleInclusion(t *tbox.TBox) (tbox.Axiom, error) {
	for _, a := range t.Axioms() {
		if a.Type == tbox.Inclusion {
			return a, nil
		}
	}
	return tbox.Axiom{}, fmt.Errorf("no inclusion axiom found in tbox: nothing to check subsumption on")
}
