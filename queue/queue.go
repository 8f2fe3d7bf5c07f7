// Package queue implements a simple FIFO queue.
package queue

type element[T any] struct {
	value T
	next  *element[T]
}

type Queue[T any] struct {
	head   *element[T]
	tail   *element[T]
	length int
}

func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(value T) {
	e := &element[T]{value: value}

	if q.length == 0 {
		q.head = e
	} else {
		q.tail.next = e
	}

	q.tail = e
	q.length++
}

// Pop removes and returns the element at the head of the queue. Popping an
// empty queue returns the zero value.
func (q *Queue[T]) Pop() (value T) {
	if q.length == 0 {
		return
	}

	e := q.head
	q.head = q.head.next
	q.length--
	return e.value
}

func (q *Queue[T]) Len() int {
	return q.length
}

func (q *Queue[T]) Values() (values []T) {
	cur := q.head
	for cur != nil {
		values = append(values, cur.value)
		cur = cur.next
	}
	return
}

func (q *Queue[T]) Empty() bool {
	return q.length == 0
}
