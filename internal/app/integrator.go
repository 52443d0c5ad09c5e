package app

import (
	"integral-solver/internal/domain"
	"integral-solver/pkg/quadrature"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AdaptiveIntegrator refines intervals on a fixed pool of workers sharing one
// task bag.
type AdaptiveIntegrator struct {
	logger *zap.Logger
	config *domain.Config
}

func NewAdaptiveIntegrator(logger *zap.Logger, config *domain.Config) *AdaptiveIntegrator {
	return &AdaptiveIntegrator{
		logger: logger,
		config: config,
	}
}

func (c *AdaptiveIntegrator) Integrate(fn domain.Function, lower, upper float64) (*domain.Result, error) {
	if err := domain.ValidateBounds(lower, upper); err != nil {
		return nil, err
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	r := &run{
		subdivider: quadrature.NewSubdivider(fn.Eval, c.config.Tolerance, c.config.MinWidth),
		bag:        NewTaskBag(),
		total:      &Aggregator{},
		strategy:   c.config.GetTermination(),
	}

	// Засеваем мешок задач
	seeds := domain.Partition(lower, upper, c.config.Seeds())
	for _, iv := range seeds {
		r.bag.Insert(iv)
	}

	c.logger.Info("Starting integration",
		zap.Int("function", fn.ID),
		zap.Float64("lower", lower),
		zap.Float64("upper", upper),
		zap.Int("workers", c.config.Workers),
		zap.Int("seeds", len(seeds)),
		zap.Stringer("termination", r.strategy))

	// Запускаем воркеры
	var wg sync.WaitGroup
	perWorker := make([]domain.Stats, c.config.Workers)
	for i := 0; i < c.config.Workers; i++ {
		wg.Add(1)
		c.logger.Debug("Starting worker", zap.Int("id", i))
		go c.worker(i, r, &perWorker[i], &wg)
	}
	wg.Wait()

	result := &domain.Result{
		Lower:    lower,
		Upper:    upper,
		Function: fn,
		Area:     r.total.Total(),
		Elapsed:  time.Since(start),
		Stats:    domain.Stats{Seeds: len(seeds)},
	}
	for _, s := range perWorker {
		result.Stats.Merge(s)
	}

	c.logger.Info("Integration completed",
		zap.Float64("area", result.Area),
		zap.Duration("elapsed", result.Elapsed),
		zap.Int("takes", result.Stats.Takes),
		zap.Int("refines", result.Stats.Refines),
		zap.Int("idle", result.Stats.Idle),
		zap.Int("max_depth", result.Stats.MaxDepth()))

	return result, nil
}
