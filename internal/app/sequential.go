package app

import (
	"integral-solver/internal/domain"
	"integral-solver/pkg/quadrature"
	"time"

	"go.uber.org/zap"
)

// SequentialIntegrator refines every seed interval by direct recursion on the
// calling goroutine. It is the reference the concurrent integrator must match.
type SequentialIntegrator struct {
	logger *zap.Logger
	config *domain.Config
}

func NewSequentialIntegrator(logger *zap.Logger, config *domain.Config) *SequentialIntegrator {
	return &SequentialIntegrator{
		logger: logger,
		config: config,
	}
}

func (s *SequentialIntegrator) Integrate(fn domain.Function, lower, upper float64) (*domain.Result, error) {
	if err := domain.ValidateBounds(lower, upper); err != nil {
		return nil, err
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	subdivider := quadrature.NewSubdivider(fn.Eval, s.config.Tolerance, s.config.MinWidth)
	seeds := domain.Partition(lower, upper, s.config.Seeds())

	s.logger.Info("Starting sequential integration",
		zap.Int("function", fn.ID),
		zap.Float64("lower", lower),
		zap.Float64("upper", upper),
		zap.Int("seeds", len(seeds)))

	result := &domain.Result{
		Lower:    lower,
		Upper:    upper,
		Function: fn,
		Stats:    domain.Stats{Seeds: len(seeds)},
	}
	for _, iv := range seeds {
		result.Area += subdivider.IntegrateWithStats(iv, &result.Stats)
	}
	result.Elapsed = time.Since(start)

	s.logger.Info("Integration completed",
		zap.Float64("area", result.Area),
		zap.Duration("elapsed", result.Elapsed),
		zap.Int("takes", result.Stats.Takes),
		zap.Int("max_depth", result.Stats.MaxDepth()))

	return result, nil
}

// NewIntegrator picks the integrator for the configured mode.
func NewIntegrator(logger *zap.Logger, config *domain.Config) domain.Integrator {
	if config.GetMode() == domain.ModeSequential {
		return NewSequentialIntegrator(logger, config)
	}
	return NewAdaptiveIntegrator(logger, config)
}
