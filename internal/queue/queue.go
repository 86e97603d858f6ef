// Package queue holds messages awaiting narration. The queue is bounded,
// priority-ordered, and expires messages that have waited too long.
package queue

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"waytell/internal/message"
)

// Capacity and retention bounds enforced by New.
const (
	MinSize = 1
	MaxSize = 1000

	MinAge = time.Second
	MaxAge = 5 * time.Minute
)

// ErrEmpty is returned by Dequeue when no live messages remain.
var ErrEmpty = errors.New("queue is empty")

// Listener is notified after every mutation of the queue. Implementations
// that need no state can use ListenerFunc.
type Listener interface {
	QueueChanged(q *Queue)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(q *Queue)

// QueueChanged calls f.
func (f ListenerFunc) QueueChanged(q *Queue) { f(q) }

// Queue is a bounded, time-expiring priority queue of messages. Reads always
// observe descending priority, FIFO within equal priority. Expired messages
// are purged lazily at the start of every operation, never on a timer.
type Queue struct {
	mu        sync.Mutex
	items     itemHeap
	seq       uint64
	maxSize   int
	maxAge    time.Duration
	listeners map[int]Listener
	nextID    int
}

// New creates an empty queue. maxSize must be within [MinSize, MaxSize] and
// maxAge within [MinAge, MaxAge]; all violations are reported together.
func New(maxSize int, maxAge time.Duration) (*Queue, error) {
	var verr *multierror.Error
	if maxSize < MinSize || maxSize > MaxSize {
		verr = multierror.Append(verr, fmt.Errorf("max size %d out of range [%d, %d]", maxSize, MinSize, MaxSize))
	}
	if maxAge < MinAge || maxAge > MaxAge {
		verr = multierror.Append(verr, fmt.Errorf("max age %s out of range [%s, %s]", maxAge, MinAge, MaxAge))
	}
	if err := verr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Queue{
		maxSize:   maxSize,
		maxAge:    maxAge,
		listeners: make(map[int]Listener),
	}, nil
}

// Enqueue validates and inserts a new message, evicting the lowest-priority
// entry if the queue is over capacity. Listeners are notified on success.
func (q *Queue) Enqueue(text string, priority float64) (message.Message, error) {
	msg, err := message.New(text, priority)
	if err != nil {
		return message.Message{}, err
	}

	q.mu.Lock()
	q.purge()
	q.seq++
	heap.Push(&q.items, &item{msg: msg, seq: q.seq})
	if q.items.Len() > q.maxSize {
		q.evictLowest()
	}
	q.mu.Unlock()

	q.notify()
	return msg, nil
}

// Dequeue removes and returns the highest-priority, oldest live message.
func (q *Queue) Dequeue() (message.Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.purge()
	if q.items.Len() == 0 {
		return message.Message{}, ErrEmpty
	}
	it := heap.Pop(&q.items).(*item)
	return it.msg, nil
}

// PeekAll returns an ordered snapshot of the live messages. The snapshot is
// independent of the queue.
func (q *Queue) PeekAll() []message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.purge()
	items := append([]*item(nil), q.items...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].msg.Priority != items[j].msg.Priority {
			return items[i].msg.Priority > items[j].msg.Priority
		}
		return items[i].seq < items[j].seq
	})
	out := make([]message.Message, 0, len(items))
	for _, it := range items {
		out = append(out, it.msg)
	}
	return out
}

// Len returns the number of live messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.purge()
	return q.items.Len()
}

// Empty reports whether no live messages remain.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Clear drops all messages and notifies listeners.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = q.items[:0]
	q.mu.Unlock()

	q.notify()
}

// Subscribe registers a listener and returns a function that removes it.
// A nil listener is ignored with a warning.
func (q *Queue) Subscribe(l Listener) (cancel func()) {
	if l == nil {
		log.Warn("ignoring nil queue listener")
		return func() {}
	}

	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.listeners[id] = l
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.listeners, id)
		q.mu.Unlock()
	}
}

// SubscribeFunc registers a plain callback listener.
func (q *Queue) SubscribeFunc(f ListenerFunc) (cancel func()) {
	if f == nil {
		log.Warn("ignoring nil queue listener func")
		return func() {}
	}
	return q.Subscribe(f)
}

// purge drops expired messages. Caller must hold q.mu.
func (q *Queue) purge() {
	kept := q.items[:0]
	removed := 0
	for _, it := range q.items {
		if it.msg.Expired(q.maxAge) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	if removed == 0 {
		return
	}
	q.items = kept
	heap.Init(&q.items)
	log.Debug("purged expired messages", "count", removed)
}

// evictLowest removes the lowest-priority message, earliest-inserted among
// ties. Caller must hold q.mu.
func (q *Queue) evictLowest() {
	lowest := 0
	for i := 1; i < len(q.items); i++ {
		cur, low := q.items[i], q.items[lowest]
		if cur.msg.Priority < low.msg.Priority ||
			(cur.msg.Priority == low.msg.Priority && cur.seq < low.seq) {
			lowest = i
		}
	}
	evicted := q.items[lowest]
	heap.Remove(&q.items, lowest)
	log.Debug("evicted message over capacity", "id", evicted.msg.ID, "priority", evicted.msg.Priority)
}

// notify invokes every listener with the queue itself. A panicking listener
// is logged and does not interrupt the rest.
func (q *Queue) notify() {
	q.mu.Lock()
	snapshot := make([]Listener, 0, len(q.listeners))
	for _, l := range q.listeners {
		snapshot = append(snapshot, l)
	}
	q.mu.Unlock()

	var nerr *multierror.Error
	for _, l := range snapshot {
		if err := safeNotify(l, q); err != nil {
			nerr = multierror.Append(nerr, err)
		}
	}
	if err := nerr.ErrorOrNil(); err != nil {
		log.Error("queue listener failures", "error", err)
	}
}

func safeNotify(l Listener, q *Queue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	l.QueueChanged(q)
	return nil
}

// item pairs a message with its insertion sequence so that equal priorities
// dequeue in arrival order.
type item struct {
	msg message.Message
	seq uint64
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].msg.Priority != h[j].msg.Priority {
		return h[i].msg.Priority > h[j].msg.Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x interface{}) {
	*h = append(*h, x.(*item))
}

func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}
