package engine

import (
	"reflect"
	"testing"
)

func fill(values ...int) *Pool[int] {
	p := &Pool[int]{}
	for _, v := range values {
		p.Append(v)
	}
	return p
}

func TestPoolMarkAndCompact(t *testing.T) {
	p := fill(1, 2, 3, 4, 5)

	if !p.Mark(1) || !p.Mark(2) {
		t.Fatal("Mark on live entries should succeed")
	}
	if p.Mark(1) {
		t.Error("double Mark should report false")
	}
	if p.LiveCount() != 3 || p.Len() != 5 {
		t.Errorf("LiveCount/Len = %d/%d, want 3/5", p.LiveCount(), p.Len())
	}

	if removed := p.Compact(); removed != 2 {
		t.Errorf("Compact removed %d, want 2", removed)
	}
	if got := p.Snapshot(); !reflect.DeepEqual(got, []int{1, 4, 5}) {
		t.Errorf("after compact = %v, want [1 4 5]", got)
	}
}

// Adjacent removals are the case a splice-while-iterating loop gets wrong
func TestPoolAdjacentRemovalVisitsEveryEntry(t *testing.T) {
	p := fill(10, 11, 12, 13)
	var visited []int

	for i := 0; i < p.Len(); i++ {
		visited = append(visited, *p.At(i))
		if *p.At(i)%2 == 0 {
			p.Mark(i)
		}
	}

	if !reflect.DeepEqual(visited, []int{10, 11, 12, 13}) {
		t.Errorf("visited = %v, want every entry once", visited)
	}
	p.Compact()
	if got := p.Snapshot(); !reflect.DeepEqual(got, []int{11, 13}) {
		t.Errorf("survivors = %v, want [11 13]", got)
	}
}

func TestPoolEachSkipsMarked(t *testing.T) {
	p := fill(1, 2, 3)
	p.Mark(0)

	var seen []int
	p.Each(func(i int, v *int) {
		seen = append(seen, *v)
		*v *= 10
	})

	if !reflect.DeepEqual(seen, []int{2, 3}) {
		t.Errorf("Each visited %v, want [2 3]", seen)
	}
	if *p.At(1) != 20 {
		t.Errorf("in-place update lost: %d", *p.At(1))
	}
}

func TestPoolMarkWhere(t *testing.T) {
	p := fill(1, 2, 3, 4)
	p.Mark(1)

	n := p.MarkWhere(func(v *int) bool { return *v%2 == 0 })
	if n != 1 {
		t.Errorf("MarkWhere marked %d, want 1 (entry 2 already marked)", n)
	}
	if p.LiveCount() != 2 {
		t.Errorf("LiveCount = %d, want 2", p.LiveCount())
	}
}

func TestPoolReset(t *testing.T) {
	p := fill(1, 2, 3)
	p.Mark(0)
	p.Reset()

	if p.Len() != 0 || p.LiveCount() != 0 {
		t.Errorf("Reset left Len=%d Live=%d", p.Len(), p.LiveCount())
	}
	if p.Compact() != 0 {
		t.Error("Compact after Reset should remove nothing")
	}
}
