package graph

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

// List is a forward-only cursor over records of a graph. It reads the live
// graph as it advances: records added or removed after the list was made
// may or may not appear. Lists are not safe for concurrent use.
type List struct {
	g       *Graph
	src     floorSource
	started bool
	done    bool
	cur     *slot
	err     error
}

func (g *Graph) newList(src source) *List {
	return &List{g: g, src: floorSource{src: src}}
}

// remaining is the part of the list not yet passed by the cursor,
// including the current record.
func (l *List) remaining() floorSource {
	switch {
	case l.done:
		return exhausted
	case l.cur != nil:
		fs := l.src
		fs.after = max(fs.after, l.cur.seq-1)
		return fs
	}
	return l.src
}

func (l *List) stale() bool {
	if l.g.closed.Load() {
		l.err = object.ErrStale
		return true
	}
	return false
}

// Next advances the cursor, positioning it on the first record on the first
// call. Once it returns false it keeps returning false.
func (l *List) Next() bool {
	if l.done {
		return false
	}
	l.started = true
	if l.stale() {
		l.done, l.cur = true, nil
		return false
	}
	var after uint64
	if l.cur != nil {
		after = l.cur.seq
	}
	s := l.src.next(after)
	if s == nil {
		l.done, l.cur = true, nil
		return false
	}
	l.cur = s
	return true
}

// Current is the record under the cursor, or nil before the first Next and
// after the last.
func (l *List) Current() *object.Record {
	if l.cur == nil {
		return nil
	}
	return l.cur.rec
}

// Count is the number of records not yet passed, including the current
// one.
func (l *List) Count() int {
	if l.stale() {
		return 0
	}
	n := 0
	fs := l.remaining()
	for s := fs.next(0); s != nil; s = fs.next(s.seq) {
		n++
	}
	return n
}

// At returns the i-th remaining record without moving the cursor.
func (l *List) At(i int) *object.Record {
	if i < 0 || l.stale() {
		return nil
	}
	fs := l.remaining()
	for s := fs.next(0); s != nil; s = fs.next(s.seq) {
		if i == 0 {
			return s.rec
		}
		i--
	}
	return nil
}

func (l *List) Contains(rec *object.Record) bool {
	if l.stale() {
		return false
	}
	s := l.g.slotOf(rec)
	return s != nil && l.remaining().includes(s)
}

// Slice collects the remaining records.
func (l *List) Slice() []*object.Record {
	if l.stale() {
		return nil
	}
	var out []*object.Record
	fs := l.remaining()
	for s := fs.next(0); s != nil; s = fs.next(s.seq) {
		out = append(out, s.rec)
	}
	return out
}

// Set collects the ids of the remaining records.
func (l *List) Set() mapset.Set[uint64] {
	set := mapset.NewSet[uint64]()
	for _, rec := range l.Slice() {
		set.Add(rec.ID())
	}
	return set
}

// Copy duplicates the cursor. Both copies read the same records.
func (l *List) Copy() *List {
	cp := *l
	return &cp
}

// Reset is only valid before the cursor has started.
func (l *List) Reset() error {
	if l.started {
		return ErrCursorStarted
	}
	return nil
}

func (l *List) Err() error {
	if l.err != nil {
		return l.err
	}
	if l.g.closed.Load() {
		return object.ErrStale
	}
	return nil
}

// Filter narrows the remaining records to those whose property satisfies
// op against v. The filter is evaluated as the new list advances.
func (l *List) Filter(key object.Key, v value.Value, op Op) *List {
	fs := l.remaining()
	fs.filters = append(slices.Clip(fs.filters), filter{key: key, val: v, op: op})
	return &List{g: l.g, src: fs}
}

// Union, Intersect and Difference combine the remaining records of two
// lists into a new lazy list. Neither operand's cursor moves.
func (l *List) Union(o *List) (*List, error) {
	return l.combine(o, func(a, b source) source { return unionSource{a: a, b: b} })
}

func (l *List) Intersect(o *List) (*List, error) {
	return l.combine(o, func(a, b source) source { return intersectSource{a: a, b: b, keep: true} })
}

func (l *List) Difference(o *List) (*List, error) {
	return l.combine(o, func(a, b source) source { return intersectSource{a: a, b: b} })
}

func (l *List) combine(o *List, op func(a, b source) source) (*List, error) {
	if o == nil || o.g != l.g {
		return nil, ErrGraphMismatch
	}
	if l.stale() {
		return nil, object.ErrStale
	}
	return l.g.newList(op(l.remaining(), o.remaining())), nil
}
