package asyncqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFIFOOrder(t *testing.T) {

	q := New[int]()
	for i := 0; i < 1000; i++ {
		q.Enqueue(i)
	}
	require.Equal(t, 1000, q.Size())

	// Mix single dequeues with a full drain
	for i := 0; i < 300; i++ {
		require.Equal(t, i, q.Dequeue())
	}

	rest := q.DequeueAll(nil)
	require.Len(t, rest, 700)
	for i, v := range rest {
		require.Equal(t, 300+i, v)
	}

	require.True(t, q.IsEmpty())
	require.Empty(t, q.DequeueAll(nil))
}

func TestDequeueAllAppends(t *testing.T) {

	q := New[string]()
	q.Enqueue("b")
	q.Enqueue("c")

	out := q.DequeueAll([]string{"a"})
	require.Equal(t, []string{"a", "b", "c"}, out)
}

func TestIsEmptyMatchesSize(t *testing.T) {

	q := New[int]()
	check := func() {
		require.Equal(t, q.Size() == 0, q.IsEmpty())
	}

	check()
	q.Enqueue(1)
	check()
	q.Enqueue(2)
	check()
	q.Dequeue()
	check()
	q.Dequeue()
	check()

	q.Enqueue(3)
	q.Clear()
	check()
	require.True(t, q.IsEmpty())
}

func TestTryDequeue(t *testing.T) {

	q := New[int]()
	_, ok := q.TryDequeue()
	require.False(t, ok)

	q.Enqueue(7)
	v, ok := q.TryDequeue()
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestDequeueReleasesReferences(t *testing.T) {

	q := New[*int]()
	for i := 0; i < 4; i++ {
		v := i
		q.Enqueue(&v)
	}

	q.Dequeue()
	q.Dequeue()

	// Slots already handed out must not keep their pointers alive
	require.Nil(t, q.items[0])
	require.Nil(t, q.items[1])
}

func TestCompactionKeepsOrder(t *testing.T) {

	q := New[int]()
	next := 0
	for i := 0; i < 5000; i++ {
		q.Enqueue(i)
		q.Enqueue(i + 100000)

		v := q.Dequeue()
		if v < 100000 {
			require.Equal(t, next, v)
			next++
		}
	}

	require.Equal(t, 5000, q.Size())
	require.LessOrEqual(t, len(q.items), 2*5000+compactThreshold)
}

func TestAwaitWakesOnEnqueue(t *testing.T) {

	q := New[int]()
	done := make(chan int)

	go func() {
		q.AwaitEnqueuedItem()
		done <- q.Dequeue()
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(42)

	select {
	case v := <-done:
		require.Equal(t, 42, v)
	case <-time.After(5 * time.Second):
		t.Fatal("AwaitEnqueuedItem did not wake up")
	}
}

func TestAwaitWakesOnSignal(t *testing.T) {

	q := New[int]()
	done := make(chan struct{})

	go func() {
		q.AwaitEnqueuedItem()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.SignalEnqueuedItem()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("AwaitEnqueuedItem did not wake up on signal")
	}

	require.True(t, q.IsEmpty())
}

func TestSignalIsLatched(t *testing.T) {

	q := New[int]()
	q.SignalEnqueuedItem()

	// Returns immediately because the signal was kept
	q.AwaitEnqueuedItem()
	require.False(t, q.signaled)
}

func TestConcurrentProducers(t *testing.T) {

	const producers = 4
	const perProducer = 2500

	type item struct {
		producer int
		seq      int
	}

	q := New[item]()
	wg := sync.WaitGroup{}
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(item{producer: p, seq: i})
			}
		}(p)
	}

	received := make([]item, 0, producers*perProducer)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for len(received) < producers*perProducer {
			q.AwaitEnqueuedItem()
			received = q.DequeueAll(received)
		}
	}()

	wg.Wait()
	select {
	case <-consumerDone:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not receive all items")
	}

	require.Len(t, received, producers*perProducer)

	lastSeq := make([]int, producers)
	for i := range lastSeq {
		lastSeq[i] = -1
	}

	for _, it := range received {
		require.Equal(t, lastSeq[it.producer]+1, it.seq, "producer %d out of order", it.producer)
		lastSeq[it.producer] = it.seq
	}
}
