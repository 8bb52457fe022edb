package ecs

// EventQueue is a FIFO of pending events, meant to live inside a singleton
// resource. The platform layer pushes; systems pop or peek at most what they
// need each tick. Pop and Peek on an empty queue report false and change
// nothing.
type EventQueue[T any] struct {
	items []T
	head  int
}

// Push appends an event at the back.
func (q *EventQueue[T]) Push(event T) {
	q.items = append(q.items, event)
}

// Pop removes and returns the front event.
func (q *EventQueue[T]) Pop() (T, bool) {
	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}
	event := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 32 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return event, true
}

// Peek returns the front event without removing it.
func (q *EventQueue[T]) Peek() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// Len returns the number of pending events.
func (q *EventQueue[T]) Len() int {
	return len(q.items) - q.head
}

// Clear drops every pending event.
func (q *EventQueue[T]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
