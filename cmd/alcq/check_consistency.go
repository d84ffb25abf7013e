package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
	"github.com/nodeadmin/alcq-tableau/internal/engine"
	"github.com/nodeadmin/alcq-tableau/internal/surface"
	"github.com/nodeadmin/alcq-tableau/internal/tbox"
)

var checkConsistencyCmd = &cobra.Command{
	Use:   "check-consistency <abox-path> <tbox-path>",
	Short: "Check whether an ABox is consistent with a TBox",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		aboxPath, tboxPath := args[0], args[1]

		t, err := loadTBox(tboxPath)
		if err != nil {
			return err
		}

		aboxFile, err := os.Open(aboxPath)
		if err != nil {
			return fmt.Errorf("opening abox: %w", err)
		}
		defer aboxFile.Close()

		start := time.Now()
		box, err := surface.ParseABox(aboxFile)
		if err != nil {
			return fmt.Errorf("parsing abox: %w", err)
		}
		logger.Info("parsed abox", zap.String("path", aboxPath), zap.Duration("elapsed", time.Since(start)))

		if err := t.UnfoldDefinitions(); err != nil {
			return fmt.Errorf("unfolding tbox definitions: %w", err)
		}
		t.ApplyDefinitionsToABox(box)
		g, _ := t.Internalize()

		start = time.Now()
		model, found := solve(cmd.Context(), box, g)
		logger.Info("solved", zap.Bool("consistent", found), zap.Duration("elapsed", time.Since(start)))

		if !found {
			fmt.Println("No model was found")
			return nil
		}
		printModel(model)
		return nil
	},
}

func loadTBox(path string) (*tbox.TBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tbox: %w", err)
	}
	defer f.Close()

	t, err := surface.ParseTBox(f)
	if err != nil {
		return nil, fmt.Errorf("parsing tbox: %w", err)
	}
	return t, nil
}

// solve runs the sequential engine when --workers=1 (the default) and the
// bounded worker-pool variant otherwise.
func solve(ctx context.Context, box *abox.ABox, g concept.Concept) (*engine.Model, bool) {
	if workers == 1 {
		return engine.SolveWithLogger(box, g, logger)
	}
	return engine.SolveParallel(ctx, box, g, workers)
}

func printModel(m *engine.Model) {
	fmt.Println("Model found:")
	for _, ind := range m.Individuals {
		fmt.Printf("  individual %s\n", ind.Name)
	}
	for _, c := range m.Concepts {
		if c.Negated {
			fmt.Printf("  not %s(%s)\n", c.Concept, c.Individual)
		} else {
			fmt.Printf("  %s(%s)\n", c.Concept, c.Individual)
		}
	}
	for _, r := range m.Roles {
		fmt.Printf("  %s(%s, %s)\n", r.Role, r.X, r.Y)
	}
	if len(m.Replacements) > 0 {
		fmt.Println("  merges:")
		for old, new := range m.Replacements {
			fmt.Printf("    %s -> %s\n", old, new)
		}
	}
}
