package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulation for one ensemble member.
type Factory func(seed int64) (*Simulation, error)

// Ensemble runs the same configuration over consecutive seeds in parallel.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run initializes every member with n bodies and drives frames ticks. The
// first error cancels the remaining members.
func (e *Ensemble) Run(ctx context.Context, n, frames int, frameInterval float64) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			if _, err := s.Initialize(ctx, n); err != nil {
				return err
			}
			res, err := s.Run(ctx, frames, frameInterval)
			results[idx] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
