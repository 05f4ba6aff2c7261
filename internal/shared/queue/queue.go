package queue

import "sync"

// Queue is a bounded FIFO of slot ids. Capacity is exact: Init(n) holds n ids.
type Queue struct {
	mu   sync.Mutex
	buf  []uint64
	head int
	size int
}

func (q *Queue) Init(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	q.buf = make([]uint64, capacity)
	q.head, q.size = 0, 0
}

func (q *Queue) TryPush(id uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.size)%len(q.buf)] = id
	q.size++
	return true
}

func (q *Queue) TryPop() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return 0, false
	}
	id := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return id, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *Queue) Cap() int {
	return len(q.buf)
}
