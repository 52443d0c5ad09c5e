package app

import (
	"integral-solver/internal/domain"
	"integral-solver/pkg/quadrature"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// run is the state shared by the workers of one integration.
type run struct {
	subdivider *quadrature.Subdivider
	bag        *TaskBag
	total      *Aggregator
	strategy   domain.TerminationStrategy
}

func (c *AdaptiveIntegrator) worker(id int, r *run, stats *domain.Stats, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		iv, state := r.fetch(stats)
		if state == FetchDone {
			c.logger.Debug("Worker terminated",
				zap.Int("worker", id),
				zap.Int("takes", stats.Takes),
				zap.Int("idle", stats.Idle))
			return
		}
		stats.Takes++

		d := r.subdivider.Split(iv)
		if d.Accepted {
			r.total.Commit(d.Area)
			stats.RecordCommit(iv.Depth)
			r.bag.Resolve()
			continue
		}

		stats.Refines++
		r.bag.Refine(d.Left, d.Right)
	}
}

// fetch blocks or spins until the worker holds an interval or the run is
// complete.
func (r *run) fetch(stats *domain.Stats) (domain.Interval, FetchState) {
	if r.strategy == domain.TerminationWait {
		iv, state, waits := r.bag.WaitFetch()
		stats.Idle += waits
		return iv, state
	}

	for {
		iv, state := r.bag.TryFetch()
		if state != FetchIdle {
			return iv, state
		}
		stats.Idle++
		runtime.Gosched()
	}
}
