package graph

import "github.com/delaneyj/mappergraph/object"

// InstanceList walks the instances of one signal that matched a status
// filter when the list was made, counting down from the last. Its elements
// are instance slots rather than records, so it has no set algebra.
type InstanceList struct {
	g       *Graph
	sig     *object.Record
	filter  object.Status
	count   int
	idx     int
	started bool
}

func newInstanceList(g *Graph, sig *object.Record, filter object.Status) *InstanceList {
	l := &InstanceList{g: g, sig: sig, filter: filter}
	if sig != nil && sig.Kind() == object.KindSignal {
		l.count = sig.NumInstances(filter)
	}
	l.idx = l.count
	return l
}

// Count is the number of instances the list was made with.
func (l *InstanceList) Count() int { return l.count }

// Next moves to the previous matching instance. After it returns false the
// index stays at -1.
func (l *InstanceList) Next() bool {
	l.started = true
	if l.idx < 0 || l.Err() != nil {
		l.idx = -1
		return false
	}
	l.idx--
	return l.idx >= 0
}

// Current is the instance under the cursor; the zero Instance when the
// cursor is not on one.
func (l *InstanceList) Current() object.Instance {
	if !l.started || l.idx < 0 || l.idx >= l.count {
		return object.Instance{}
	}
	return l.At(l.idx)
}

// At returns the i-th matching instance without moving the cursor.
func (l *InstanceList) At(i int) object.Instance {
	if l.Err() != nil || i < 0 || i >= l.count {
		return object.Instance{}
	}
	in, _ := l.sig.InstanceAt(l.filter, i)
	return in
}

func (l *InstanceList) Reset() error {
	if l.started {
		return ErrCursorStarted
	}
	return nil
}

func (l *InstanceList) Err() error {
	if l.g.closed.Load() || l.sig == nil || l.sig.Stale() {
		return object.ErrStale
	}
	return nil
}

func (l *InstanceList) Union(*InstanceList) (*InstanceList, error)      { return nil, ErrNotSupported }
func (l *InstanceList) Intersect(*InstanceList) (*InstanceList, error)  { return nil, ErrNotSupported }
func (l *InstanceList) Difference(*InstanceList) (*InstanceList, error) { return nil, ErrNotSupported }
