package engine

// Pool is an ordered entity sequence with deferred removal
// Entries are marked during a frame and physically removed by Compact,
// so index-based passes never skip or revisit a neighbor and a marked entry
// is invisible to every later pass of the same frame
type Pool[T any] struct {
	items  []T
	dead   []bool
	marked int
}

// Append adds v at the end of the sequence
func (p *Pool[T]) Append(v T) {
	p.items = append(p.items, v)
	p.dead = append(p.dead, false)
}

// Len returns the physical length, including entries marked this frame
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// LiveCount returns the number of unmarked entries
func (p *Pool[T]) LiveCount() int {
	return len(p.items) - p.marked
}

// At returns a pointer to entry i, valid until the next Append or Compact
func (p *Pool[T]) At(i int) *T {
	return &p.items[i]
}

// Live reports whether entry i has not been marked
func (p *Pool[T]) Live(i int) bool {
	return !p.dead[i]
}

// Mark flags entry i for removal, returns false if it was already marked
func (p *Pool[T]) Mark(i int) bool {
	if p.dead[i] {
		return false
	}
	p.dead[i] = true
	p.marked++
	return true
}

// Each calls fn for every live entry in order
func (p *Pool[T]) Each(fn func(i int, v *T)) {
	for i := range p.items {
		if !p.dead[i] {
			fn(i, &p.items[i])
		}
	}
}

// MarkWhere marks every live entry matching pred, returns the count marked
func (p *Pool[T]) MarkWhere(pred func(v *T) bool) int {
	n := 0
	for i := range p.items {
		if !p.dead[i] && pred(&p.items[i]) {
			p.dead[i] = true
			n++
		}
	}
	p.marked += n
	return n
}

// Compact removes marked entries preserving order, returns the count removed
func (p *Pool[T]) Compact() int {
	if p.marked == 0 {
		return 0
	}

	removed := p.marked
	w := 0
	for r := range p.items {
		if p.dead[r] {
			continue
		}
		p.items[w] = p.items[r]
		p.dead[w] = false
		w++
	}

	// Zero the tail so removed values do not pin memory
	var zero T
	for i := w; i < len(p.items); i++ {
		p.items[i] = zero
	}
	p.items = p.items[:w]
	p.dead = p.dead[:w]
	p.marked = 0
	return removed
}

// Reset empties the pool, keeping capacity
func (p *Pool[T]) Reset() {
	clear(p.items)
	p.items = p.items[:0]
	p.dead = p.dead[:0]
	p.marked = 0
}

// Snapshot copies live entries into a new slice
func (p *Pool[T]) Snapshot() []T {
	out := make([]T, 0, p.LiveCount())
	for i := range p.items {
		if !p.dead[i] {
			out = append(out, p.items[i])
		}
	}
	return out
}
