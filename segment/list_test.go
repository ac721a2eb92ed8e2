package segment

import (
	"testing"

	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

func seeded() *List {
	l := New()
	l.AddToHead(structs.Cell{X: 5, Y: 10})
	l.AddToHead(structs.Cell{X: 6, Y: 10})
	l.AddToHead(structs.Cell{X: 7, Y: 10})
	return l
}

func TestEmptyList(t *testing.T) {
	l := New()
	if l.Len() != 0 {
		t.Errorf("Expected Len to be 0, got %d", l.Len())
	}
	if _, ok := l.Head(); ok {
		t.Errorf("Expected no head on empty list")
	}
	if _, ok := l.Tail(); ok {
		t.Errorf("Expected no tail on empty list")
	}
	if _, ok := l.RemoveTail(); ok {
		t.Errorf("Expected RemoveTail on empty list to report nothing removed")
	}
	if l.Contains(structs.Cell{}) {
		t.Errorf("Expected empty list to contain nothing")
	}
	if got := l.ToSlice(); len(got) != 0 {
		t.Errorf("Expected empty slice, got %v", got)
	}
}

func TestAddToHeadOrder(t *testing.T) {
	l := seeded()

	want := []structs.Cell{{X: 7, Y: 10}, {X: 6, Y: 10}, {X: 5, Y: 10}}
	got := l.ToSlice()
	if len(got) != len(want) {
		t.Fatalf("Expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected cell %d to be %v, got %v", i, want[i], got[i])
		}
	}

	head, _ := l.Head()
	if head != want[0] {
		t.Errorf("Expected head %v, got %v", want[0], head)
	}
	tail, _ := l.Tail()
	if tail != want[2] {
		t.Errorf("Expected tail %v, got %v", want[2], tail)
	}
}

func TestAddToHeadOnEmptySetsTail(t *testing.T) {
	l := New()
	c := structs.Cell{X: 3, Y: 4}
	l.AddToHead(c)

	head, _ := l.Head()
	tail, _ := l.Tail()
	if head != c || tail != c {
		t.Errorf("Expected head and tail to be %v, got %v and %v", c, head, tail)
	}
	if l.Len() != 1 {
		t.Errorf("Expected Len to be 1, got %d", l.Len())
	}
}

func TestRemoveTail(t *testing.T) {
	l := seeded()

	removed, ok := l.RemoveTail()
	if !ok || removed != (structs.Cell{X: 5, Y: 10}) {
		t.Errorf("Expected to remove (5,10), got %v (ok=%v)", removed, ok)
	}
	if l.Len() != 2 {
		t.Errorf("Expected Len to be 2, got %d", l.Len())
	}
	tail, _ := l.Tail()
	if tail != (structs.Cell{X: 6, Y: 10}) {
		t.Errorf("Expected new tail (6,10), got %v", tail)
	}
	if l.Contains(removed) {
		t.Errorf("Expected removed cell to be gone")
	}
}

func TestRemoveTailSingleElementClears(t *testing.T) {
	l := New()
	l.AddToHead(structs.Cell{X: 1, Y: 1})

	removed, ok := l.RemoveTail()
	if !ok || removed != (structs.Cell{X: 1, Y: 1}) {
		t.Errorf("Expected to remove (1,1), got %v (ok=%v)", removed, ok)
	}
	if l.Len() != 0 {
		t.Errorf("Expected Len to be 0, got %d", l.Len())
	}
	if _, ok := l.Head(); ok {
		t.Errorf("Expected head to be absent")
	}
	if _, ok := l.Tail(); ok {
		t.Errorf("Expected tail to be absent")
	}

	// the list must be reusable after draining
	l.AddToHead(structs.Cell{X: 2, Y: 2})
	if l.Len() != 1 {
		t.Errorf("Expected Len to be 1 after reuse, got %d", l.Len())
	}
}

func TestMoveKeepsLength(t *testing.T) {
	l := seeded()
	moves := []structs.Cell{{X: 8, Y: 10}, {X: 8, Y: 11}, {X: 8, Y: 12}, {X: 7, Y: 12}}

	for _, c := range moves {
		l.RemoveTail()
		l.AddToHead(c)
		if l.Len() != 3 {
			t.Fatalf("Expected Len to stay 3, got %d", l.Len())
		}
		if n := len(l.ToSlice()); n != l.Len() {
			t.Fatalf("Expected ToSlice length %d, got %d", l.Len(), n)
		}
	}
}

func TestContainsMatchesToSlice(t *testing.T) {
	l := seeded()
	l.AddToHead(structs.Cell{X: 7, Y: 9})
	l.AddToHead(structs.Cell{X: 7, Y: 8})

	occupied := make(map[structs.Cell]bool)
	for _, c := range l.ToSlice() {
		occupied[c] = true
	}

	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			c := structs.Cell{X: x, Y: y}
			if l.Contains(c) != occupied[c] {
				t.Errorf("Expected Contains(%v) to be %v", c, occupied[c])
			}
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	l := seeded()

	var visited []int
	l.Each(func(i int, c structs.Cell) bool {
		visited = append(visited, i)
		return i < 1
	})
	if len(visited) != 2 {
		t.Errorf("Expected Each to visit 2 nodes, got %v", visited)
	}
}

func TestClear(t *testing.T) {
	l := seeded()
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Expected Len to be 0, got %d", l.Len())
	}
	if l.Contains(structs.Cell{X: 7, Y: 10}) {
		t.Errorf("Expected cleared list to contain nothing")
	}
}
