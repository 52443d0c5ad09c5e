package domain

import (
	"fmt"
	"math"
	"sort"
)

// Integrand вычисляет значение подынтегральной функции в точке
type Integrand func(x float64) float64

// Function представляет одну из фиксированных подынтегральных функций
type Function struct {
	ID      int
	Formula string
	Eval    Integrand
}

var functions = map[int]Function{
	1: {
		ID:      1,
		Formula: "(1 - e^(-x^2)) / x",
		// 0/0 at x = 0 yields NaN
		Eval: func(x float64) float64 {
			return (1 - math.Exp(-(x * x))) / x
		},
	},
	2: {
		ID:      2,
		Formula: "x * sin(x) + 10",
		Eval: func(x float64) float64 {
			return x*math.Sin(x) + 10.0
		},
	},
	3: {
		ID:      3,
		Formula: "x^2 + x^3",
		Eval: func(x float64) float64 {
			return x*x + x*x*x
		},
	},
	4: {
		ID:      4,
		Formula: "sin(x) + 1",
		Eval: func(x float64) float64 {
			return math.Sin(x) + 1.0
		},
	},
}

// LookupFunction returns the integrand registered under id.
func LookupFunction(id int) (Function, error) {
	fn, ok := functions[id]
	if !ok {
		return Function{}, fmt.Errorf("%w: %d", ErrUnknownFunctionType, id)
	}
	return fn, nil
}

// Functions returns all registered integrands ordered by ID.
func Functions() []Function {
	list := make([]Function, 0, len(functions))
	for _, fn := range functions {
		list = append(list, fn)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}
