package systask

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/bloeys/nrend/assert"
	"github.com/bloeys/nrend/asyncqueue"
	"github.com/bloeys/nrend/logging"
	"github.com/sirupsen/logrus"
)

type State int32

const (
	State_New State = iota
	State_Running
	State_Terminated
)

func (s State) String() string {

	switch s {
	case State_New:
		return "New"
	case State_Running:
		return "Running"
	case State_Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type Stats struct {
	Sent       uint64
	Dispatched uint64
	// Dropped counts jobs that reached the worker with no handler attached
	Dropped uint64
}

// SystemTask owns one worker goroutine, locked to its own OS thread, and the queue feeding it.
// Jobs are dispatched to the attached EventHandler strictly in enqueue order.
type SystemTask struct {
	name string
	log  *logrus.Entry

	// lock guards state transitions, the queue pointer, and handler while not running
	lock    sync.RWMutex
	state   atomic.Int32
	queue   *asyncqueue.AsyncQueue[TaskJob]
	handler EventHandler
	done    chan struct{}

	sent       atomic.Uint64
	dispatched atomic.Uint64
	dropped    atomic.Uint64

	// completed is the job count covered by the last update-complete signal.
	// Like sent it accumulates across runs, and Stop guarantees the two meet.
	updateLock sync.Mutex
	updateCond *sync.Cond
	completed  uint64
}

func NewSystemTask(name string) *SystemTask {

	t := &SystemTask{
		name: name,
		log:  logging.WithTask(name),
	}
	t.updateCond = sync.NewCond(&t.updateLock)

	return t
}

func (t *SystemTask) Name() string {
	return t.name
}

func (t *SystemTask) State() State {
	return State(t.state.Load())
}

func (t *SystemTask) IsRunning() bool {
	return t.State() == State_Running
}

func (t *SystemTask) Stats() Stats {
	return Stats{
		Sent:       t.sent.Load(),
		Dispatched: t.dispatched.Load(),
		Dropped:    t.dropped.Load(),
	}
}

// Start spawns the worker. It returns false, changing nothing, if the task is already running.
// If a Stop is still draining the previous run, Start waits for that worker to exit first.
func (t *SystemTask) Start() bool {

	t.lock.Lock()
	defer t.lock.Unlock()

	// done stays set until Stop is finished with the previous run
	for !t.IsRunning() && t.done != nil {

		done := t.done
		t.lock.Unlock()
		<-done
		t.lock.Lock()

		// The old worker has exited and written its handler back, the rest of Stop's cleanup is skipped for us
		if t.done == done {
			break
		}
	}

	if t.IsRunning() {
		t.log.Warnln("Start called on a task that is already running")
		return false
	}

	t.queue = asyncqueue.New[TaskJob]()
	t.done = make(chan struct{})

	t.state.Store(int32(State_Running))
	go t.run(t.queue, t.handler, t.done)

	t.log.Infoln("System task started")
	return true
}

// Stop terminates the worker after it has dispatched every job sent before the call.
// Sends that race with or follow Stop are rejected. Returns false if the task is not running.
func (t *SystemTask) Stop() bool {

	t.lock.Lock()
	if !t.IsRunning() {
		t.lock.Unlock()
		t.log.Warnln("Stop called on a task that is not running")
		return false
	}

	q := t.queue
	done := t.done
	t.sent.Add(1)
	q.Enqueue(TaskJob{kind: jobKind_Quit})
	t.state.Store(int32(State_Terminated))
	t.lock.Unlock()

	<-done

	t.lock.Lock()
	leftover := q.DequeueAll(nil)
	assert.T(len(leftover) == 0, "System task '%s' stopped with %d jobs still queued", t.name, len(leftover))

	// A Start that ran while we waited owns queue and done now
	if t.done == done {
		t.queue = nil
		t.done = nil
	}
	t.lock.Unlock()

	// Release anyone still in Await
	t.updateLock.Lock()
	t.updateCond.Broadcast()
	t.updateLock.Unlock()

	t.log.Infoln("System task stopped")
	return true
}

// AttachEventHandler sets the dispatch target. On a running task the change is queued
// like any other job, so jobs sent before it still reach the previous handler.
func (t *SystemTask) AttachEventHandler(h EventHandler) {

	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.IsRunning() {
		t.handler = h
		return
	}

	t.sent.Add(1)
	t.queue.Enqueue(TaskJob{kind: jobKind_Attach, handler: h})
}

func (t *SystemTask) DetachEventHandler() {

	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.IsRunning() {
		t.handler = nil
		return
	}

	t.sent.Add(1)
	t.queue.Enqueue(TaskJob{kind: jobKind_Detach})
}

// SendEvent queues ev for the worker and returns immediately. Safe from any goroutine.
// Returns false if the task is not running, in which case the event is discarded.
func (t *SystemTask) SendEvent(ev EventType, data any) bool {

	if ev == EventType_Unknown {
		assert.T(false, "SendEvent called with EventType_Unknown on task '%s'", t.name)
		return false
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	if !t.IsRunning() {
		t.log.Errorf("Failed to send event '%s' because the task is not running\n", ev)
		return false
	}

	t.sent.Add(1)
	t.queue.Enqueue(TaskJob{Event: ev, Data: data})
	return true
}

// Await blocks until the worker reports an update-complete covering at least as many jobs
// as had been sent when Await was called.
//
// It is a coarse rendezvous: with several producers it does not pin down which of their
// jobs were included. It returns immediately if nothing is outstanding or the task is not running.
// That includes a task whose Stop is still draining, since Stop marks it terminated first;
// wait for Stop to return instead.
func (t *SystemTask) Await() {

	target := t.sent.Load()

	t.updateLock.Lock()
	for t.completed < target && t.IsRunning() {
		t.updateCond.Wait()
	}
	t.updateLock.Unlock()
}

func (t *SystemTask) run(q *asyncqueue.AsyncQueue[TaskJob], handler EventHandler, done chan struct{}) {

	defer close(done)

	// Native graphics contexts are bound to OS threads, so the worker keeps one for its whole life
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	jobs := make([]TaskJob, 0, 64)
	for {

		q.AwaitEnqueuedItem()
		jobs = q.DequeueAll(jobs[:0])

		quit := false
		for i := 0; i < len(jobs); i++ {

			job := &jobs[i]
			switch job.kind {

			case jobKind_Attach:
				handler = job.handler
			case jobKind_Detach:
				handler = nil
			case jobKind_Quit:
				// The quit job is always the last one enqueued
				quit = true

			default:
				t.dispatch(handler, job)
			}

			*job = TaskJob{}
		}

		t.updateLock.Lock()
		t.completed += uint64(len(jobs))
		t.updateCond.Broadcast()
		t.updateLock.Unlock()

		if quit {
			t.lock.Lock()
			t.handler = handler
			t.lock.Unlock()
			return
		}
	}
}

func (t *SystemTask) dispatch(handler EventHandler, job *TaskJob) {

	assert.T(job.Event != EventType_Unknown, "System task '%s' dequeued a job with EventType_Unknown", t.name)
	if job.Event == EventType_Unknown {
		return
	}

	if handler == nil {
		t.dropped.Add(1)
		t.log.Warnf("Dropping event '%s' because no event handler is attached\n", job.Event)
		return
	}

	handler.OnEvent(job.Event, job.Data)
	t.dispatched.Add(1)
}
