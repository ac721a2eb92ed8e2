// Package segment holds the snake body as a singly linked list of cells.
package segment

import "github.com/hoshinonyaruko/linkedlist-snake/structs"

type node struct {
	cell structs.Cell
	next *node
}

// List is a head-first singly linked list. The head is the most recently
// added cell, the tail the oldest one. The zero value is an empty list.
type List struct {
	head, tail *node
	length     int
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// AddToHead inserts c as the new head.
func (l *List) AddToHead(c structs.Cell) {
	n := &node{cell: c, next: l.head}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.length++
}

// RemoveTail unlinks the tail and returns its cell. There are no back
// links, so this walks from the head to the tail's predecessor.
func (l *List) RemoveTail() (structs.Cell, bool) {
	if l.head == nil {
		return structs.Cell{}, false
	}

	removed := l.tail
	if l.head == l.tail {
		l.Clear()
		return removed.cell, true
	}

	current := l.head
	for current.next != l.tail {
		current = current.next
	}
	current.next = nil
	l.tail = current
	l.length--
	return removed.cell, true
}

// Contains reports whether any segment equals c.
func (l *List) Contains(c structs.Cell) bool {
	for n := l.head; n != nil; n = n.next {
		if n.cell == c {
			return true
		}
	}
	return false
}

// Head returns the head cell.
func (l *List) Head() (structs.Cell, bool) {
	if l.head == nil {
		return structs.Cell{}, false
	}
	return l.head.cell, true
}

// Tail returns the tail cell.
func (l *List) Tail() (structs.Cell, bool) {
	if l.tail == nil {
		return structs.Cell{}, false
	}
	return l.tail.cell, true
}

// Len returns the number of segments.
func (l *List) Len() int {
	return l.length
}

// Each calls fn for every cell from head to tail until fn returns false.
func (l *List) Each(fn func(i int, c structs.Cell) bool) {
	i := 0
	for n := l.head; n != nil; n = n.next {
		if !fn(i, n.cell) {
			return
		}
		i++
	}
}

// ToSlice copies the cells into a new slice, head first.
func (l *List) ToSlice() []structs.Cell {
	out := make([]structs.Cell, 0, l.length)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.cell)
	}
	return out
}

// Clear drops every segment.
func (l *List) Clear() {
	l.head = nil
	l.tail = nil
	l.length = 0
}
