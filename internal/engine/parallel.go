package engine

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nodeadmin/alcq-tableau/internal/abox"
	"github.com/nodeadmin/alcq-tableau/internal/concept"
)

// SolveParallel is the permitted-but-not-required concurrent variant of
// Solve (spec.md §5): independent nondeterministic branches (the Or-rule's
// successors, the AtMost-rule's merge alternatives) are explored by a
// bounded pool of workers instead of a single goroutine. It generalizes
// the teacher's reasoner/parallel.go stub into a real worker pool.
//
// The LIFO worklist is shared under a mutex rather than partitioned:
// workers race to pop the most recently pushed state, keeping "deep
// exploration before breadth expansion" as the dominant behavior while
// allowing multiple branches to expand concurrently. When several models
// exist, the one returned depends on goroutine scheduling and can differ
// from the one a single-worker run returns. When workers <= 0, it defaults
// to runtime.NumCPU(). Passing workers == 1 degenerates to Solve.
func SolveParallel(ctx context.Context, initial *abox.ABox, internalizedG concept.Concept, workers int) (*Model, bool) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return Solve(initial, internalizedG)
	}

	d := NewDispatcher(internalizedG)

	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	worklist := []*abox.ABox{initial}
	busy := 0
	var result *Model
	found := false
	done := false

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				mu.Lock()
				for !done && len(worklist) == 0 && busy > 0 {
					// Other workers may still push more work; wait rather
					// than exit, so the queue being momentarily empty
					// never causes a false "unsatisfiable".
					cond.Wait()
				}
				if done || len(worklist) == 0 {
					done = true
					mu.Unlock()
					cond.Broadcast()
					return nil
				}
				s := worklist[len(worklist)-1]
				worklist = worklist[:len(worklist)-1]
				if s.IsClashed() {
					mu.Unlock()
					continue
				}
				busy++
				mu.Unlock()

				if ctx.Err() != nil {
					mu.Lock()
					busy--
					mu.Unlock()
					cond.Broadcast()
					return nil
				}
				successors, fired := d.Dispatch(s)

				mu.Lock()
				busy--
				if ctx.Err() != nil {
					mu.Unlock()
					cond.Broadcast()
					return nil
				}
				if !fired {
					if !found {
						found = true
						result = ExtractModel(s)
						done = true
					}
					mu.Unlock()
					cancel()
					cond.Broadcast()
					return nil
				}
				for _, succ := range successors {
					if !succ.IsClashed() {
						worklist = append(worklist, succ)
					}
				}
				mu.Unlock()
				cond.Broadcast()
			}
		})
	}

	_ = g.Wait()

	mu.Lock()
	defer mu.Unlock()
	return result, found
}
