package graph

// fifo is a growable ring buffer of node ids.
type fifo struct {
	buf  []NodeID
	head int
	n    int
}

func newFIFO(capacity int) *fifo {
	if capacity < 1 {
		capacity = 1
	}
	return &fifo{buf: make([]NodeID, capacity)}
}

func (q *fifo) push(v NodeID) {
	if q.n == len(q.buf) {
		buf := make([]NodeID, len(q.buf)*2)
		for i := 0; i < q.n; i++ {
			buf[i] = q.buf[(q.head+i)%len(q.buf)]
		}
		q.buf = buf
		q.head = 0
	}
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
}

func (q *fifo) pop() (NodeID, bool) {
	if q.n == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return v, true
}

func (q *fifo) empty() bool { return q.n == 0 }
