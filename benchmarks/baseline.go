// File: benchmarks/baseline.go
// Author: momentics <momentics@gmail.com>
//
// Mutex-guarded FIFO used as the comparison baseline.

package benchmarks

import (
	"sync"

	"github.com/eapache/queue"
)

// mutexQueue is an unbounded FIFO behind a single mutex.
type mutexQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func newMutexQueue() *mutexQueue {
	return &mutexQueue{q: queue.New()}
}

func (m *mutexQueue) push(v int) {
	m.mu.Lock()
	m.q.Add(v)
	m.mu.Unlock()
}

func (m *mutexQueue) pop() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.q.Length() == 0 {
		return 0, false
	}
	return m.q.Remove().(int), true
}
