// Package scheduler implements metricd's periodic read scheduler (§4.3): a
// fixed worker pool draining a due-time priority queue, one entry per
// registered read callback.
//
// It generalizes the teacher's exec.Executor, which starts one
// time.Ticker-driven goroutine per callback, into a worker pool shared by
// every read callback so the daemon does not spawn one goroutine per
// plugin, plus the scheduling refinements a long-running daemon needs that
// a one-shot exec plugin does not: anchored due times, jitter on startup,
// exponential backoff on failing callbacks, and missed-tick detection so a
// slow callback is never invoked concurrently with itself.
package scheduler // import "metricd.example.org/scheduler"

import (
	"container/heap"
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"metricd.example.org/registry"
)

// maxBackoffMultiplier caps exponential backoff at 16x the configured
// interval.
const maxBackoffMultiplier = 16

// Scheduler periodically invokes registered read callbacks, at most once
// concurrently per callback, using a fixed-size worker pool.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	index   map[string]*entry

	workers int
	jobs    chan *entry
	wg      sync.WaitGroup

	queue   entryHeap
	queueMu sync.Mutex
	wake    chan struct{}

	now func() time.Time
}

type entry struct {
	name     string
	reader   registry.Reader
	interval time.Duration

	mu         sync.Mutex
	nextDue    time.Time
	backoff    int // multiplier, 1..maxBackoffMultiplier
	inFlight   bool
	queueIndex int
}

// New returns a Scheduler with the given worker pool size. If workers is
// less than 1, it defaults to max(5, n/4) once entries are added, matching
// collectd's own default read-thread sizing; a Scheduler created with an
// explicit positive workers count always uses that count.
func New(workers int) *Scheduler {
	return &Scheduler{
		workers: workers,
		index:   make(map[string]*entry),
		wake:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Add registers name to be invoked every interval. Calling Add again with
// the same name replaces the previous schedule for that name.
func (s *Scheduler) Add(name string, interval time.Duration, reader registry.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval <= 0 {
		interval = 10 * time.Second
	}

	e := &entry{
		name:     name,
		reader:   reader,
		interval: interval,
		backoff:  1,
		// Jitter the first due time so a large plugin set doesn't wake the
		// worker pool in lockstep.
		nextDue: s.now().Add(time.Duration(rand.Int63n(int64(interval)))),
	}

	if old, ok := s.index[name]; ok {
		s.removeLocked(old)
	}
	s.index[name] = e
	s.entries = append(s.entries, e)

	s.queueMu.Lock()
	heap.Push(&s.queue, e)
	s.queueMu.Unlock()

	s.poke()
}

// AddAll registers every read handle from a registry.Registry snapshot.
func (s *Scheduler) AddAll(reads []registry.ReadHandle) {
	for _, r := range reads {
		s.Add(r.Name, r.Interval, r.Reader)
	}
}

func (s *Scheduler) removeLocked(e *entry) {
	for i, other := range s.entries {
		if other == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.queueMu.Lock()
	if e.queueIndex >= 0 && e.queueIndex < len(s.queue) && s.queue[e.queueIndex] == e {
		heap.Remove(&s.queue, e.queueIndex)
	}
	s.queueMu.Unlock()
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) workerCount() int {
	if s.workers > 0 {
		return s.workers
	}
	n := len(s.entries) / 4
	if n < 5 {
		n = 5
	}
	return n
}

// Run starts the worker pool and the due-time dispatcher, and blocks until
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.jobs = make(chan *entry)

	n := s.workerCount()
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	s.dispatch(ctx)
	close(s.jobs)
	s.wg.Wait()
}

func (s *Scheduler) dispatch(ctx context.Context) {
	for {
		s.queueMu.Lock()
		var next *entry
		if len(s.queue) > 0 {
			next = s.queue[0]
		}
		s.queueMu.Unlock()

		var timer *time.Timer
		if next == nil {
			timer = time.NewTimer(time.Hour)
		} else {
			d := next.nextDue.Sub(s.now())
			if d < 0 {
				d = 0
			}
			timer = time.NewTimer(d)
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
			s.fireDue(ctx)
		}
	}
}

// fireDue pops every entry whose nextDue has passed and hands it to the
// worker pool, then reschedules it per the anchor rule.
func (s *Scheduler) fireDue(ctx context.Context) {
	now := s.now()
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 || s.queue[0].nextDue.After(now) {
			s.queueMu.Unlock()
			return
		}
		e := heap.Pop(&s.queue).(*entry)
		s.queueMu.Unlock()

		e.mu.Lock()
		skip := e.inFlight
		if !skip {
			e.inFlight = true
		}
		e.mu.Unlock()

		if skip {
			log.Printf("scheduler: %s missed a tick: previous invocation still running", e.name)
		} else {
			select {
			case s.jobs <- e:
			case <-ctx.Done():
				e.mu.Lock()
				e.inFlight = false
				e.mu.Unlock()
				return
			}
		}

		s.rescheduleLocked(e, now)
	}
}

// rescheduleLocked applies the anchor rule: nextDue += interval*backoff*k
// for the smallest k that pushes nextDue strictly past now, then re-queues
// e. This keeps the schedule anchored to its original phase instead of
// drifting by however long the callback took to run.
func (s *Scheduler) rescheduleLocked(e *entry, now time.Time) {
	e.mu.Lock()
	step := e.interval * time.Duration(e.backoff)
	if step <= 0 {
		step = e.interval
	}
	for !e.nextDue.After(now) {
		e.nextDue = e.nextDue.Add(step)
	}
	e.mu.Unlock()

	s.queueMu.Lock()
	heap.Push(&s.queue, e)
	s.queueMu.Unlock()

	s.poke()
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	for e := range s.jobs {
		err := e.reader.Read()

		e.mu.Lock()
		e.inFlight = false
		if err != nil {
			if e.backoff < maxBackoffMultiplier {
				e.backoff *= 2
				if e.backoff > maxBackoffMultiplier {
					e.backoff = maxBackoffMultiplier
				}
			}
		} else {
			e.backoff = 1
		}
		e.mu.Unlock()

		if err != nil {
			log.Printf("scheduler: %s: Read failed: %v", e.name, err)
		}
	}
}

// Stop blocks until every in-flight callback finishes, or deadline elapses,
// whichever comes first. Callers must cancel the context passed to Run
// before calling Stop.
func (s *Scheduler) Stop(deadline time.Duration) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(deadline):
		log.Printf("scheduler: Stop timed out after %v waiting for workers", deadline)
	}
}

// entryHeap implements container/heap.Interface, ordering entries by
// nextDue.
type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].nextDue.Before(h[j].nextDue) }
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].queueIndex = i
	h[j].queueIndex = j
}

func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.queueIndex = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.queueIndex = -1
	*h = old[:n-1]
	return e
}
