package object

import (
	"slices"

	"github.com/delaneyj/mappergraph/value"
)

type entry struct {
	key Key
	val value.Value
}

// table holds one set of properties. Enumerated keys are kept in Property
// order; custom keys keep their insertion order and are found through an
// xxhash index.
type table struct {
	fixed  map[Property]value.Value
	custom []entry
	index  map[uint64][]int
}

func newTable() *table {
	return &table{
		fixed: map[Property]value.Value{},
		index: map[uint64][]int{},
	}
}

func (t *table) find(k Key) int {
	for _, i := range t.index[k.hash()] {
		if t.custom[i].key.Name == k.Name {
			return i
		}
	}
	return -1
}

func (t *table) get(k Key) (value.Value, bool) {
	if !k.IsCustom() {
		v, ok := t.fixed[k.Prop]
		return v, ok
	}
	if i := t.find(k); i >= 0 {
		return t.custom[i].val, true
	}
	return value.Value{}, false
}

// set stores v and reports whether anything changed.
func (t *table) set(k Key, v value.Value) bool {
	if !k.IsCustom() {
		old, ok := t.fixed[k.Prop]
		if ok && old.Equal(v) {
			return false
		}
		t.fixed[k.Prop] = v
		return true
	}
	if i := t.find(k); i >= 0 {
		if t.custom[i].val.Equal(v) {
			return false
		}
		t.custom[i].val = v
		return true
	}
	h := k.hash()
	t.index[h] = append(t.index[h], len(t.custom))
	t.custom = append(t.custom, entry{key: k, val: v})
	return true
}

func (t *table) remove(k Key) bool {
	if !k.IsCustom() {
		if _, ok := t.fixed[k.Prop]; !ok {
			return false
		}
		delete(t.fixed, k.Prop)
		return true
	}
	i := t.find(k)
	if i < 0 {
		return false
	}
	t.custom = slices.Delete(t.custom, i, i+1)
	t.reindex()
	return true
}

func (t *table) reindex() {
	clear(t.index)
	for i, e := range t.custom {
		h := e.key.hash()
		t.index[h] = append(t.index[h], i)
	}
}

func (t *table) len() int {
	return len(t.fixed) + len(t.custom)
}

func (t *table) clear() {
	clear(t.fixed)
	clear(t.index)
	t.custom = t.custom[:0]
}

// entries lists every property: enumerated keys first, then custom keys in
// insertion order.
func (t *table) entries() []entry {
	out := make([]entry, 0, t.len())
	props := make([]Property, 0, len(t.fixed))
	for p := range t.fixed {
		props = append(props, p)
	}
	slices.Sort(props)
	for _, p := range props {
		out = append(out, entry{key: PropKey(p), val: t.fixed[p]})
	}
	return append(out, t.custom...)
}
