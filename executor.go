package mdf

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/mdfgo/internal/ctxlog"
)

// job is one unit of scheduled work: fire a specific node of a specific
// running instance. The queue is shared across every instance an Executor
// is currently running, matching spec.md §4.6's "fixed worker pool draining
// a shared job queue".
type job struct {
	inst   *instance
	nodeID int
}

// jobQueue is an unbounded FIFO shared by every worker goroutine. A plain
// buffered channel (as the teacher's single-run readyChan uses) would need
// to be sized to one run's node count; since one Executor here serves any
// number of concurrent Run calls at once, the queue grows instead of
// blocking a worker mid-enqueue.
type jobQueue struct {
	mu     sync.Mutex
	cond   sync.Cond
	items  []job
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond.L = &q.mu
	return q
}

func (q *jobQueue) push(j job) {
	q.mu.Lock()
	q.items = append(q.items, j)
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *jobQueue) pop() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return job{}, false
	}
	j := q.items[0]
	q.items = q.items[1:]
	return j, true
}

func (q *jobQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Executor is the fixed-size worker pool of spec.md §4.6. One Executor may
// run any number of graph instances concurrently; workers are started once,
// at construction, and shut down together via Shutdown.
type Executor struct {
	numWorkers int
	queue      *jobQueue
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewExecutor starts a worker pool of the given size. workers must be >= 1.
func NewExecutor(workers int) *Executor {
	if workers < 1 {
		panic("mdf: NewExecutor: workers must be >= 1")
	}
	e := &Executor{numWorkers: workers, queue: newJobQueue()}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker(i)
	}
	return e
}

// Shutdown stops every worker once the job queue drains and waits for them
// to exit. It must not be called concurrently with an in-flight Run whose
// Future has not yet resolved.
func (e *Executor) Shutdown() {
	e.stopOnce.Do(func() {
		e.queue.close()
	})
	e.wg.Wait()
}

func (e *Executor) worker(id int) {
	defer e.wg.Done()
	for {
		j, ok := e.queue.pop()
		if !ok {
			return
		}
		e.process(j)
	}
}

// process fires a single node if it is still ready and wins the fire claim,
// then propagates its output tokens to every wired successor, enqueueing
// any successor that becomes ready as a result. This function is the sole
// place a node transitions from claimed to executed, and per spec.md §4.6
// exactly one worker, across the whole pool and across every concurrently
// running instance, will ever execute it.
func (e *Executor) process(j job) {
	in := j.inst.nodes[j.nodeID]
	if !in.ready() || !in.claim() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			j.inst.fail(fmt.Errorf("mdf: node %d panicked: %v", j.nodeID, r))
		}
	}()

	out := in.fire()

	if in.wiring.isOutput {
		j.inst.succeed(out)
		return
	}

	for _, succID := range j.inst.transferTokens(j.nodeID, out) {
		e.queue.push(job{inst: j.inst, nodeID: succID})
	}
}

// Run clones template into a fresh instance, seeds its input node with
// args, and schedules it on the worker pool. It returns immediately with a
// Future the caller can Wait/Get on; template is validated automatically if
// it has not been already.
func (e *Executor) Run(ctx context.Context, template *Template, args ...Token) (*Future, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}

	inst := template.clone()
	inst.future = newFuture()

	inNode := inst.inputNode()
	if len(args) != inNode.wiring.inputSize {
		panic(fmt.Sprintf("mdf: Run: template expects %d argument(s), got %d", inNode.wiring.inputSize, len(args)))
	}
	for i, a := range args {
		inNode.inputSlots[i] = a
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("scheduling run", "nodes", len(inst.nodes))
	e.queue.push(job{inst: inst, nodeID: inst.template.inputNodeID})

	return inst.future, nil
}
