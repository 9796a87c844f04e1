// Package asyncqueue provides the blocking FIFO used to hand work from producer
// goroutines to a single consumer goroutine.
package asyncqueue

import (
	"sync"

	"github.com/bloeys/nrend/assert"
)

// compactThreshold is how many consumed slots may pile up at the front of the
// backing slice before live items are moved down
const compactThreshold = 256

// AsyncQueue is a mutex guarded FIFO with a wake signal.
//
// Items are returned in the order their Enqueue calls completed and each item is
// returned exactly once. Once an item is dequeued the queue holds no reference to it.
type AsyncQueue[T any] struct {
	lock sync.Mutex
	wake *sync.Cond

	items []T
	head  int

	// signaled latches SignalEnqueuedItem until one AwaitEnqueuedItem consumes it
	signaled bool
}

func New[T any]() *AsyncQueue[T] {

	q := &AsyncQueue[T]{
		items: make([]T, 0, 16),
	}
	q.wake = sync.NewCond(&q.lock)

	return q
}

func (q *AsyncQueue[T]) Enqueue(item T) {

	q.lock.Lock()
	q.items = append(q.items, item)
	q.lock.Unlock()

	q.wake.Signal()
}

// Dequeue removes and returns the front item.
// The queue must not be empty. Calling it on an empty queue is a contract violation
// and returns the zero value of T.
func (q *AsyncQueue[T]) Dequeue() T {

	q.lock.Lock()
	defer q.lock.Unlock()

	item, ok := q.popFront()
	assert.T(ok, "AsyncQueue.Dequeue called on an empty queue")
	return item
}

// TryDequeue is like Dequeue but reports whether an item was available
func (q *AsyncQueue[T]) TryDequeue() (T, bool) {

	q.lock.Lock()
	defer q.lock.Unlock()

	return q.popFront()
}

// DequeueAll appends every queued item to out, in queue order, and empties the queue
func (q *AsyncQueue[T]) DequeueAll(out []T) []T {

	q.lock.Lock()
	defer q.lock.Unlock()

	out = append(out, q.items[q.head:]...)
	q.reset()

	return out
}

// AwaitEnqueuedItem blocks until the queue is non-empty or SignalEnqueuedItem is called.
// There is no timeout.
func (q *AsyncQueue[T]) AwaitEnqueuedItem() {

	q.lock.Lock()
	for q.head == len(q.items) && !q.signaled {
		q.wake.Wait()
	}
	q.signaled = false
	q.lock.Unlock()
}

// SignalEnqueuedItem wakes one AwaitEnqueuedItem caller even if the queue is empty.
// If nobody is waiting the signal is kept for the next caller.
func (q *AsyncQueue[T]) SignalEnqueuedItem() {

	q.lock.Lock()
	q.signaled = true
	q.lock.Unlock()

	q.wake.Signal()
}

func (q *AsyncQueue[T]) Size() int {

	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.items) - q.head
}

func (q *AsyncQueue[T]) IsEmpty() bool {
	return q.Size() == 0
}

func (q *AsyncQueue[T]) Clear() {

	q.lock.Lock()
	q.reset()
	q.lock.Unlock()
}

func (q *AsyncQueue[T]) popFront() (T, bool) {

	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head >= compactThreshold && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return item, true
}

func (q *AsyncQueue[T]) reset() {

	clear(q.items[q.head:])
	q.items = q.items[:0]
	q.head = 0
}
