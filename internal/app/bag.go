package app

import (
	"integral-solver/internal/domain"
	"sync"
)

// FetchState is the outcome of a fetch attempt on the bag.
type FetchState int

const (
	// FetchTaken: the worker now holds an interval and counts as active.
	FetchTaken FetchState = iota
	// FetchIdle: the bag is empty but an active worker may still insert.
	FetchIdle
	// FetchDone: the bag is empty and no worker is active. This never changes
	// once observed.
	FetchDone
)

var _ domain.TaskBag = (*TaskBag)(nil)

// TaskBag is a FIFO of pending intervals together with the number of workers
// currently holding one. Both live under the same mutex so that "empty and no
// active worker" is observed atomically.
type TaskBag struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []domain.Interval
	head   int
	active int
}

func NewTaskBag() *TaskBag {
	b := &TaskBag{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Insert adds one interval and wakes one waiting worker.
func (b *TaskBag) Insert(iv domain.Interval) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.push(iv)
}

// Take removes the oldest interval without touching the active count.
func (b *TaskBag) Take() (domain.Interval, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.pop()
}

func (b *TaskBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.items) - b.head
}

// Active returns the number of workers holding an interval.
func (b *TaskBag) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.active
}

// TryFetch takes an interval and marks the caller active in one critical
// section. It never blocks.
func (b *TaskBag) TryFetch() (domain.Interval, FetchState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.fetchLocked()
}

// WaitFetch is TryFetch that sleeps instead of returning FetchIdle. It wakes on
// every insert and when the bag reaches global completion.
func (b *TaskBag) WaitFetch() (domain.Interval, FetchState, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	waits := 0
	for {
		iv, state := b.fetchLocked()
		if state != FetchIdle {
			return iv, state, waits
		}
		waits++
		b.cond.Wait()
	}
}

// Refine replaces the caller's interval with its two children and releases
// the caller. The children are visible before the active count drops.
func (b *TaskBag) Refine(left, right domain.Interval) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.push(left)
	b.push(right)
	b.release()
}

// Resolve releases the caller after its area has been committed.
func (b *TaskBag) Resolve() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.release()
}

func (b *TaskBag) fetchLocked() (domain.Interval, FetchState) {
	if iv, ok := b.pop(); ok {
		b.active++
		return iv, FetchTaken
	}
	if b.active == 0 {
		return domain.Interval{}, FetchDone
	}
	return domain.Interval{}, FetchIdle
}

func (b *TaskBag) release() {
	if b.active == 0 {
		panic("app: release without a fetched interval")
	}
	b.active--
	if b.active == 0 && b.head == len(b.items) {
		b.cond.Broadcast()
	}
}

func (b *TaskBag) push(iv domain.Interval) {
	b.items = append(b.items, iv)
	b.cond.Signal()
}

func (b *TaskBag) pop() (domain.Interval, bool) {
	if b.head == len(b.items) {
		return domain.Interval{}, false
	}

	iv := b.items[b.head]
	b.head++
	// Сбрасываем буфер, когда он опустел, чтобы не рос бесконечно
	if b.head == len(b.items) {
		b.items = b.items[:0]
		b.head = 0
	} else if b.head > 1024 && b.head*2 > len(b.items) {
		n := copy(b.items, b.items[b.head:])
		b.items = b.items[:n]
		b.head = 0
	}
	return iv, true
}
