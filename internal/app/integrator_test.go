package app_test

import (
	"fmt"
	"integral-solver/internal/app"
	"integral-solver/internal/domain"
	"integral-solver/pkg/quadrature"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/floats/scalar"
)

const minWidth = 1e-4

func newConfig(workers int, termination string) *domain.Config {
	return &domain.Config{
		Workers:     workers,
		Tolerance:   domain.DefaultTolerance,
		MinWidth:    minWidth,
		Termination: termination,
		Decimals:    domain.DefaultDecimals,
	}
}

func lookup(t *testing.T, id int) domain.Function {
	t.Helper()
	fn, err := domain.LookupFunction(id)
	require.NoError(t, err)
	return fn
}

func integrate(t *testing.T, config *domain.Config, fn domain.Function, lower, upper float64) *domain.Result {
	t.Helper()
	result, err := app.NewAdaptiveIntegrator(zaptest.NewLogger(t), config).Integrate(fn, lower, upper)
	require.NoError(t, err)
	return result
}

func assertAccounting(t *testing.T, stats domain.Stats) {
	t.Helper()
	assert.Equal(t, stats.Takes, stats.Commits+stats.Refines, "every taken interval is resolved exactly once")
	assert.Equal(t, stats.Takes, stats.Seeds+2*stats.Refines, "every inserted interval is taken exactly once")

	accepted := 0
	for _, n := range stats.Depths {
		accepted += n
	}
	assert.Equal(t, stats.Commits, accepted)
}

func TestAdaptiveIntegrator_KnownIntegrals(t *testing.T) {
	tests := []struct {
		id           int
		lower, upper float64
		want         float64
		delta        float64
	}{
		{4, 0, math.Pi, math.Pi + 2, 1e-4},
		{3, 0, 1, 7.0 / 12.0, 1e-4},
		{2, 0, 2 * math.Pi, 18 * math.Pi, 1e-3},
		{3, -1, 1, 2.0 / 3.0, 1e-4},
	}
	for _, termination := range []string{"wait", "spin"} {
		for _, workers := range []int{1, 4} {
			for _, tt := range tests {
				name := fmt.Sprintf("%s/%d workers/type %d on [%.2f, %.2f]", termination, workers, tt.id, tt.lower, tt.upper)
				t.Run(name, func(t *testing.T) {
					result := integrate(t, newConfig(workers, termination), lookup(t, tt.id), tt.lower, tt.upper)
					assert.InDelta(t, tt.want, result.Area, tt.delta)
					assert.Equal(t, workers, result.Stats.Seeds)
					assertAccounting(t, result.Stats)
				})
			}
		}
	}
}

func TestAdaptiveIntegrator_DeterministicAcrossPoolSizes(t *testing.T) {
	fn := lookup(t, 2)
	reference := integrate(t, newConfig(1, "wait"), fn, 0, 2*math.Pi).Area

	for _, workers := range []int{2, 3, 8, 16} {
		for _, termination := range []string{"wait", "spin"} {
			got := integrate(t, newConfig(workers, termination), fn, 0, 2*math.Pi).Area
			assert.True(t, scalar.EqualWithinRel(reference, got, 1e-6),
				"%d workers (%s): want %v, got %v", workers, termination, reference, got)
		}
	}
}

func TestAdaptiveIntegrator_MatchesSequentialRecursion(t *testing.T) {
	for _, id := range []int{2, 3, 4} {
		fn := lookup(t, id)
		want := quadrature.NewSubdivider(fn.Eval, domain.DefaultTolerance, minWidth).
			Integrate(domain.Interval{A: 0, B: 3})

		got := integrate(t, newConfig(6, "wait"), fn, 0, 3).Area
		assert.True(t, scalar.EqualWithinRel(want, got, 1e-6), "type %d: want %v, got %v", id, want, got)
	}
}

func TestAdaptiveIntegrator_SameLeavesAsSequentialIntegrator(t *testing.T) {
	fn := lookup(t, 4)
	config := newConfig(4, "wait")
	config.SeedIntervals = 5

	concurrent := integrate(t, config, fn, 0, math.Pi)
	sequential, err := app.NewSequentialIntegrator(zaptest.NewLogger(t), config).Integrate(fn, 0, math.Pi)
	require.NoError(t, err)

	assert.Equal(t, sequential.Stats.Seeds, concurrent.Stats.Seeds)
	assert.Equal(t, sequential.Stats.Takes, concurrent.Stats.Takes)
	assert.Equal(t, sequential.Stats.Commits, concurrent.Stats.Commits)
	assert.Equal(t, sequential.Stats.Refines, concurrent.Stats.Refines)
	assert.Equal(t, sequential.Stats.Depths, concurrent.Stats.Depths)
	assert.True(t, scalar.EqualWithinRel(sequential.Area, concurrent.Area, 1e-12))
	assertAccounting(t, sequential.Stats)
}

func TestAdaptiveIntegrator_AcceptsAtTopLevel(t *testing.T) {
	linear := domain.Function{Formula: "2x + 1", Eval: func(x float64) float64 { return 2*x + 1 }}

	result := integrate(t, newConfig(4, "wait"), linear, 0, 1)
	assert.InDelta(t, 2.0, result.Area, 1e-12)
	assert.Equal(t, 4, result.Stats.Takes, "each seed is evaluated once")
	assert.Zero(t, result.Stats.Refines)
	assert.Equal(t, []int{4}, result.Stats.Depths)
}

func TestAdaptiveIntegrator_Terminates(t *testing.T) {
	for _, termination := range []string{"wait", "spin"} {
		t.Run(termination, func(t *testing.T) {
			config := newConfig(8, termination)
			config.SeedIntervals = 1
			fn := lookup(t, 2)
			integrator := app.NewAdaptiveIntegrator(zaptest.NewLogger(t), config)

			done := make(chan *domain.Result, 1)
			go func() {
				result, err := integrator.Integrate(fn, -5, 5)
				if err != nil {
					close(done)
					return
				}
				done <- result
			}()

			select {
			case result, ok := <-done:
				require.True(t, ok, "integration failed")
				assert.LessOrEqual(t, result.Stats.MaxDepth(), quadrature.MaxDepth(10, minWidth))
				assertAccounting(t, result.Stats)
			case <-time.After(60 * time.Second):
				t.Fatal("worker pool did not reach global completion")
			}
		})
	}
}

func TestAdaptiveIntegrator_NaNPropagates(t *testing.T) {
	config := newConfig(4, "wait")
	config.MinWidth = 1e-3

	result := integrate(t, config, lookup(t, 1), 0, 1)
	assert.True(t, math.IsNaN(result.Area))
}

func TestAdaptiveIntegrator_ZeroWidth(t *testing.T) {
	result := integrate(t, newConfig(3, "wait"), lookup(t, 3), 2, 2)
	assert.Zero(t, result.Area)
	assert.Equal(t, 3, result.Stats.Takes)
}

func TestAdaptiveIntegrator_ConcurrentRuns(t *testing.T) {
	tests := []struct {
		id   int
		want float64
	}{
		{2, 18 * math.Pi},
		{4, math.Pi + 2},
	}

	var wg sync.WaitGroup
	areas := make([]float64, len(tests))
	for i, tt := range tests {
		i := i
		fn := lookup(t, tt.id)
		integrator := app.NewAdaptiveIntegrator(zaptest.NewLogger(t), newConfig(3, "wait"))
		upper := math.Pi
		if tt.id == 2 {
			upper = 2 * math.Pi
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := integrator.Integrate(fn, 0, upper)
			if err == nil {
				areas[i] = result.Area
			}
		}()
	}
	wg.Wait()

	for i, tt := range tests {
		assert.InDelta(t, tt.want, areas[i], 1e-3)
	}
}

func TestAdaptiveIntegrator_RejectsInvalidInput(t *testing.T) {
	integrator := app.NewAdaptiveIntegrator(zaptest.NewLogger(t), newConfig(2, "wait"))
	_, err := integrator.Integrate(lookup(t, 3), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidBounds)

	integrator = app.NewAdaptiveIntegrator(zaptest.NewLogger(t), newConfig(0, "wait"))
	_, err = integrator.Integrate(lookup(t, 3), 0, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewIntegrator_SelectsMode(t *testing.T) {
	config := newConfig(2, "wait")
	assert.IsType(t, &app.AdaptiveIntegrator{}, app.NewIntegrator(zaptest.NewLogger(t), config))

	config.Mode = "sequential"
	integrator := app.NewIntegrator(zaptest.NewLogger(t), config)
	require.IsType(t, &app.SequentialIntegrator{}, integrator)

	result, err := integrator.Integrate(lookup(t, 3), 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/12.0, result.Area, 1e-4)
	assertAccounting(t, result.Stats)
}
