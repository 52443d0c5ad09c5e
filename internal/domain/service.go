package domain

// Integrator вычисляет определённый интеграл функции на отрезке
type Integrator interface {
	Integrate(fn Function, lower, upper float64) (*Result, error)
}

// TaskBag общий пул необработанных отрезков
type TaskBag interface {
	Insert(iv Interval)
	Take() (Interval, bool)
	Len() int
}
