package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	Workers       int     `yaml:"workers"`
	SeedIntervals int     `yaml:"seed_intervals"`
	Tolerance     float64 `yaml:"tolerance"`
	MinWidth      float64 `yaml:"min_width"`
	Termination   string  `yaml:"termination"`
	Mode          string  `yaml:"mode"`
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file"`
	Decimals      int     `yaml:"decimals"`
	ShowTime      *bool   `yaml:"show_time"`
}

const (
	DefaultTolerance = 1e-20
	DefaultMinWidth  = 1e-5
	DefaultDecimals  = 6
)

func (c *Config) GetTermination() TerminationStrategy {
	switch c.Termination {
	case "spin":
		return TerminationSpin
	default:
		return TerminationWait
	}
}

func (c *Config) GetMode() RunMode {
	switch c.Mode {
	case "sequential":
		return ModeSequential
	default:
		return ModeBag
	}
}

// Seeds returns how many intervals the bag is seeded with.
func (c *Config) Seeds() int {
	if c.SeedIntervals > 0 {
		return c.SeedIntervals
	}
	return c.Workers
}

// PrintTime reports whether elapsed time is printed with the result.
func (c *Config) PrintTime() bool {
	return c.ShowTime == nil || *c.ShowTime
}

// Validate checks the values that would make a run meaningless or
// non-terminating.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.SeedIntervals < 0:
		return fmt.Errorf("%w: seed_intervals must not be negative, got %d", ErrInvalidConfig, c.SeedIntervals)
	case !(c.MinWidth > 0):
		return fmt.Errorf("%w: min_width must be positive, got %g", ErrInvalidConfig, c.MinWidth)
	case !(c.Tolerance >= 0):
		return fmt.Errorf("%w: tolerance must not be negative, got %g", ErrInvalidConfig, c.Tolerance)
	case c.Decimals < 0 || c.Decimals > 17:
		return fmt.Errorf("%w: decimals must be within 0..17, got %d", ErrInvalidConfig, c.Decimals)
	}

	switch c.Termination {
	case "", "wait", "spin":
	default:
		return fmt.Errorf("%w: unknown termination %q", ErrInvalidConfig, c.Termination)
	}

	switch c.Mode {
	case "", "bag", "sequential":
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}

// Interval представляет отрезок интегрирования. Отрезок не изменяется после
// создания: при уточнении он заменяется двумя дочерними.
type Interval struct {
	A, B  float64
	Depth int
}

// Width returns B - A.
func (iv Interval) Width() float64 {
	return iv.B - iv.A
}

// Halves splits the interval at its midpoint.
func (iv Interval) Halves() (Interval, Interval) {
	mid := (iv.A + iv.B) / 2
	return Interval{A: iv.A, B: mid, Depth: iv.Depth + 1},
		Interval{A: mid, B: iv.B, Depth: iv.Depth + 1}
}

// ValidateBounds rejects non-finite or reversed integration bounds.
func ValidateBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidBounds, lower, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: lower %g exceeds upper %g", ErrInvalidBounds, lower, upper)
	}
	return nil
}

// Partition splits [lower, upper] into n equal seed intervals. The last one
// ends exactly at upper.
func Partition(lower, upper float64, n int) []Interval {
	if n < 1 {
		return nil
	}

	width := (upper - lower) / float64(n)
	seeds := make([]Interval, n)
	for i := 0; i < n; i++ {
		seeds[i] = Interval{
			A: lower + float64(i)*width,
			B: lower + float64(i+1)*width,
		}
	}
	seeds[n-1].B = upper
	return seeds
}

// Stats представляет счётчики одного запуска
type Stats struct {
	Seeds   int
	Takes   int
	Commits int
	Refines int
	Idle    int
	// Depths[d] is the number of accepted intervals at depth d.
	Depths []int
}

func (s *Stats) RecordCommit(depth int) {
	s.Commits++
	for len(s.Depths) <= depth {
		s.Depths = append(s.Depths, 0)
	}
	s.Depths[depth]++
}

func (s *Stats) Merge(other Stats) {
	s.Takes += other.Takes
	s.Commits += other.Commits
	s.Refines += other.Refines
	s.Idle += other.Idle
	for len(s.Depths) < len(other.Depths) {
		s.Depths = append(s.Depths, 0)
	}
	for d, n := range other.Depths {
		s.Depths[d] += n
	}
}

// MaxDepth returns the deepest accepted level, or -1 if nothing was accepted.
func (s *Stats) MaxDepth() int {
	return len(s.Depths) - 1
}

// Result представляет результат интегрирования
type Result struct {
	Lower, Upper float64
	Function     Function
	Area         float64
	Elapsed      time.Duration
	Stats        Stats
}

// TerminationStrategy определяет поведение воркера при пустом мешке задач
type TerminationStrategy int

const (
	TerminationWait TerminationStrategy = iota
	TerminationSpin
)

func (t TerminationStrategy) String() string {
	if t == TerminationSpin {
		return "spin"
	}
	return "wait"
}

// RunMode представляет способ вычисления
type RunMode int

const (
	ModeBag RunMode = iota
	ModeSequential
)

func (m RunMode) String() string {
	if m == ModeSequential {
		return "sequential"
	}
	return "bag"
}

var (
	ErrUsage               = errors.New("not enough arguments")
	ErrUnknownFunctionType = errors.New("unknown function type")
	ErrInvalidBounds       = errors.New("invalid bounds")
	ErrInvalidConfig       = errors.New("invalid config")
)
