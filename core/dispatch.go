package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// outcome is the result of one dispatched request: either the raw JSON-RPC
// result or the transport error, never both.
type outcome struct {
	result      json.RawMessage
	err         error
	publishedAt time.Time
}

// resultRegistry maps correlation ids to outcomes. The dispatch goroutine
// publishes, the caller that created the id takes. Entries are written once
// and removed on first read.
type resultRegistry struct {
	mu      sync.Mutex
	results map[uuid.UUID]outcome
}

func newResultRegistry() *resultRegistry {
	return &resultRegistry{
		results: make(map[uuid.UUID]outcome),
	}
}

func (r *resultRegistry) publish(id uuid.UUID, result json.RawMessage, err error) {
	r.mu.Lock()
	r.results[id] = outcome{result: result, err: err, publishedAt: time.Now()}
	r.mu.Unlock()
}

func (r *resultRegistry) take(id uuid.UUID) (outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.results[id]
	if ok {
		delete(r.results, id)
	}
	return o, ok
}

// sweep drops outcomes nobody collected, i.e. requests whose caller gave up
// before the outcome was published.
func (r *resultRegistry) sweep(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)

	r.mu.Lock()
	for id, o := range r.results {
		if o.publishedAt.Before(cutoff) {
			delete(r.results, id)
		}
	}
	r.mu.Unlock()
}

type queuedRequest struct {
	id   uuid.UUID
	data *RequestData
}

// requestQueue is an unbounded FIFO between caller goroutines and the single
// dispatch goroutine. enqueue never blocks, dequeue blocks while empty. A
// channel is deliberately not used here: its buffer is fixed, so producers
// could stall on submission.
type requestQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []*queuedRequest
	closed  bool
}

func newRequestQueue() *requestQueue {
	q := &requestQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *requestQueue) enqueue(req *queuedRequest) {
	q.mu.Lock()
	if !q.closed {
		q.pending = append(q.pending, req)
		q.cond.Signal()
	}
	q.mu.Unlock()
}

func (q *requestQueue) dequeue() (*queuedRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.pending) == 0 {
		return nil, false
	}

	req := q.pending[0]
	q.pending = q.pending[1:]
	return req, true
}

func (q *requestQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// processRequests runs for the lifetime of an asynchronous client. It keeps
// exactly one transport call in flight at a time, which makes the client safe
// for concurrent callers even when the transport itself is not. Transport
// failures become outcomes, they never stop the loop.
func (c *Client) processRequests() {
	c.logger.Debug("dispatch loop start")
	defer c.logger.Debug("dispatch loop stop")

	for {
		req, ok := c.queue.dequeue()
		if !ok {
			return
		}

		bts, err := c.transport.Execute(req.data)
		if err != nil {
			c.registry.publish(req.id, nil, err)
		} else {
			c.registry.publish(req.id, bts, nil)
		}

		// Outcomes of abandoned requests would otherwise pile up forever.
		c.registry.sweep(2 * c.timeout)
	}
}
