package index

type heapEntry[T any] struct {
	priority int
	value    T
}

// PriorityQueue is a binary min-heap ordered by an integer priority.
// Entries with equal priority come out in no particular order.
type PriorityQueue[T any] struct {
	entries []heapEntry[T]
}

// NewPriorityQueue creates an empty queue.
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Insert adds value with the given priority.
func (q *PriorityQueue[T]) Insert(priority int, value T) {
	q.entries = append(q.entries, heapEntry[T]{priority: priority, value: value})
	q.siftUp(len(q.entries) - 1)
}

// ExtractMin removes and returns the value with the smallest priority.
func (q *PriorityQueue[T]) ExtractMin() (T, bool) {
	if len(q.entries) == 0 {
		var zero T
		return zero, false
	}

	top := q.entries[0].value
	last := len(q.entries) - 1
	q.entries[0] = q.entries[last]
	q.entries[last] = heapEntry[T]{}
	q.entries = q.entries[:last]

	if len(q.entries) > 0 {
		q.siftDown(0)
	}
	return top, true
}

// Len returns the number of queued values.
func (q *PriorityQueue[T]) Len() int {
	return len(q.entries)
}

// Clear empties the queue.
func (q *PriorityQueue[T]) Clear() {
	clear(q.entries)
	q.entries = q.entries[:0]
}

func (q *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if q.entries[parent].priority <= q.entries[i].priority {
			return
		}
		q.entries[i], q.entries[parent] = q.entries[parent], q.entries[i]
		i = parent
	}
}

func (q *PriorityQueue[T]) siftDown(i int) {
	n := len(q.entries)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && q.entries[left].priority < q.entries[smallest].priority {
			smallest = left
		}
		if right < n && q.entries[right].priority < q.entries[smallest].priority {
			smallest = right
		}
		if smallest == i {
			return
		}
		q.entries[i], q.entries[smallest] = q.entries[smallest], q.entries[i]
		i = smallest
	}
}
