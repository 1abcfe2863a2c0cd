// Package list implements a generic intrusive doubly linked list.
//
// Unlike container/list, the element node is embedded in the value that
// owns it, so insertion and removal never allocate. The scheduler embeds
// an Elem in every future; unlinking a known element is O(1), which is
// what lets a helping Get pull a task out of the middle of any queue.
package list

import "fmt"

// Elem is a list node intended to be embedded in the owning value.
// The zero value is a detached element.
type Elem[T any] struct {
	next, prev *Elem[T]
	list       *List[T]

	// Value points back at the owner of this node.
	Value T
}

// OnList reports whether e is currently linked into a list.
func (e *Elem[T]) OnList() bool { return e.list != nil }

// Unlink removes e from the list that contains it in O(1).
// Unlinking a detached element panics.
func (e *Elem[T]) Unlink() {
	if e.list == nil {
		panic("list: Unlink of element not on a list")
	}
	e.list.remove(e)
}

// List is a doubly linked list of embedded elements. The zero value is
// an empty list ready to use.
type List[T any] struct {
	root Elem[T] // sentinel; root.next is front, root.prev is back
	len  int
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Len returns the number of elements on the list.
func (l *List[T]) Len() int { return l.len }

// Empty reports whether the list holds no elements.
func (l *List[T]) Empty() bool { return l.len == 0 }

// Front returns the first element, or nil if the list is empty.
func (l *List[T]) Front() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the last element, or nil if the list is empty.
func (l *List[T]) Back() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// PushFront links e at the front of l. e must be detached.
func (l *List[T]) PushFront(e *Elem[T]) {
	l.lazyInit()
	l.insert(e, &l.root)
}

// PushBack links e at the back of l. e must be detached.
func (l *List[T]) PushBack(e *Elem[T]) {
	l.lazyInit()
	l.insert(e, l.root.prev)
}

// PopFront unlinks and returns the first element, or nil if empty.
func (l *List[T]) PopFront() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	e := l.root.next
	l.remove(e)
	return e
}

// PopBack unlinks and returns the last element, or nil if empty.
func (l *List[T]) PopBack() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	e := l.root.prev
	l.remove(e)
	return e
}

// insert links e after at.
func (l *List[T]) insert(e, at *Elem[T]) {
	if e.list != nil {
		panic(fmt.Sprintf("list: PushFront/PushBack of element already on a list (len=%d)", e.list.len))
	}
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = l
	l.len++
}

func (l *List[T]) remove(e *Elem[T]) {
	if e.list != l {
		panic("list: remove of element on a different list")
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.len--
}
