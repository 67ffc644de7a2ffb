// Package crawl: FIFO queue with deduplication.
// Maintains a visited set so the same location is never processed twice.
package crawl

// Queue is a FIFO queue with location deduplication.
type Queue struct {
	items   []string
	visited map[string]bool
	idx     int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		visited: make(map[string]bool),
	}
}

// Add enqueues a location if it hasn't been seen before.
// It reports whether the location was new.
func (q *Queue) Add(loc string) bool {
	if q.visited[loc] {
		return false
	}
	q.visited[loc] = true
	q.items = append(q.items, loc)
	return true
}

// HasNext returns true if there are unprocessed locations.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed location and advances the pointer.
func (q *Queue) Next() string {
	loc := q.items[q.idx]
	q.idx++
	return loc
}

// Visited returns the total number of unique locations seen.
func (q *Queue) Visited() int {
	return len(q.visited)
}

// All returns all enqueued locations in insertion order.
func (q *Queue) All() []string {
	return q.items
}
