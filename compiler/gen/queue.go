package gen

import (
	"fmt"
	"log/slog"
	"sync"
)

// Queue runs asynchronous hook notifications on one background goroutine.
// It is unbounded: Push never blocks. Failures and panics of a task are
// logged and dropped.
type Queue struct {
	log *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond // signals new tasks, close and pending reaching zero
	tasks   []task
	closed  bool
	pending int
	done    chan struct{}
}

type task struct {
	name string
	fn   func() error
}

// NewQueue starts a queue. A nil logger uses slog.Default.
func NewQueue(log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	q := &Queue{log: log, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Push enqueues fn. Tasks pushed after Close are dropped.
func (q *Queue) Push(name string, fn func() error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.log.Warn("async hook dropped: queue closed", slog.String("hook", name))
		return
	}
	q.pending++
	q.tasks = append(q.tasks, task{name: name, fn: fn})
	q.cond.Broadcast()
}

// Drain blocks until every task pushed so far has run.
func (q *Queue) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.pending > 0 {
		q.cond.Wait()
	}
}

// Close runs the remaining tasks and stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.tasks[0]
		q.tasks[0] = task{}
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		q.run(t)
	}
}

func (q *Queue) run(t task) {
	defer q.finish()
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("async hook panicked", slog.String("hook", t.name), slog.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := t.fn(); err != nil {
		q.log.Error("async hook failed", slog.String("hook", t.name), slog.Any("error", err))
	}
}

func (q *Queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending == 0 {
		q.cond.Broadcast()
	}
}
