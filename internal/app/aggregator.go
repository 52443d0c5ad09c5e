package app

import "sync"

// Aggregator holds the running total of accepted areas. It has its own lock so
// commits never contend with bag traffic.
type Aggregator struct {
	mu    sync.Mutex
	total float64
}

func (a *Aggregator) Commit(value float64) {
	a.mu.Lock()
	a.total += value
	a.mu.Unlock()
}

// Total is read by the driver once every worker has terminated.
func (a *Aggregator) Total() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}
