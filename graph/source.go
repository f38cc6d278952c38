package graph

import (
	"math"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/mappergraph/object"
)

// source is a lazily evaluated, seq-ordered set of records. next returns
// the first live member with a seq greater than after.
type source interface {
	next(after uint64) *slot
	includes(s *slot) bool
}

type emptySource struct{}

func (emptySource) next(uint64) *slot   { return nil }
func (emptySource) includes(*slot) bool { return false }

// kindSource walks the live records of one kind.
type kindSource struct {
	g    *Graph
	kind object.Kind
}

func (k kindSource) next(after uint64) *slot {
	list := k.g.order[k.kind]
	i, _ := slices.BinarySearchFunc(list, after+1, func(s *slot, seq uint64) int {
		switch {
		case s.seq < seq:
			return -1
		case s.seq > seq:
			return 1
		}
		return 0
	})
	for ; i < len(list); i++ {
		if list[i].live() {
			return list[i]
		}
	}
	return nil
}

func (k kindSource) includes(s *slot) bool {
	return s.live() && s.rec.Kind() == k.kind
}

// idSource is a fixed set of records, resolved when the list was made.
type idSource struct {
	g       *Graph
	seqs    []uint64 // sorted
	members mapset.Set[uint64]
}

func (g *Graph) idList(ids []uint64) *List {
	src := idSource{g: g, members: mapset.NewThreadUnsafeSet[uint64]()}
	for _, id := range ids {
		if s := g.byID[id]; s.live() && src.members.Add(s.seq) {
			src.seqs = append(src.seqs, s.seq)
		}
	}
	slices.Sort(src.seqs)
	return g.newList(src)
}

func (src idSource) next(after uint64) *slot {
	i, _ := slices.BinarySearch(src.seqs, after+1)
	for ; i < len(src.seqs); i++ {
		if s := src.g.slots[src.seqs[i]]; s.live() {
			return s
		}
	}
	return nil
}

func (src idSource) includes(s *slot) bool {
	return s.live() && src.members.Contains(s.seq)
}

// floorSource restricts a source to the records after a cursor position,
// plus any filters applied to the list.
type floorSource struct {
	src     source
	after   uint64
	filters []filter
}

func (f floorSource) next(after uint64) *slot {
	after = max(after, f.after)
	for {
		s := f.src.next(after)
		if s == nil || f.match(s) {
			return s
		}
		after = s.seq
	}
}

func (f floorSource) includes(s *slot) bool {
	return s.live() && s.seq > f.after && f.src.includes(s) && f.match(s)
}

func (f floorSource) match(s *slot) bool {
	for _, flt := range f.filters {
		if !flt.match(s.rec) {
			return false
		}
	}
	return true
}

// union merges two seq-ordered sources.
type unionSource struct{ a, b source }

func (u unionSource) next(after uint64) *slot {
	x, y := u.a.next(after), u.b.next(after)
	switch {
	case x == nil:
		return y
	case y == nil, x.seq <= y.seq:
		return x
	}
	return y
}

func (u unionSource) includes(s *slot) bool {
	return u.a.includes(s) || u.b.includes(s)
}

// intersectSource keeps members of a that b includes; with keep false it
// keeps those b does not, giving the difference.
type intersectSource struct {
	a, b source
	keep bool
}

func (x intersectSource) next(after uint64) *slot {
	for {
		s := x.a.next(after)
		if s == nil || x.b.includes(s) == x.keep {
			return s
		}
		after = s.seq
	}
}

func (x intersectSource) includes(s *slot) bool {
	return x.a.includes(s) && x.b.includes(s) == x.keep
}

var exhausted = floorSource{src: emptySource{}, after: math.MaxUint64}
