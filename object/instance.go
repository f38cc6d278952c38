package object

import (
	"fmt"

	"github.com/delaneyj/mappergraph/value"
)

// Instance addresses one value slot of a signal. It is not a record: two
// instances of the same signal share the signal's id.
type Instance struct {
	Signal *Record
	Index  int
}

func (in Instance) Valid() bool {
	return in.Signal != nil && !in.Signal.Stale() && in.Index >= 0 && in.Index < len(in.Signal.instances)
}

func (in Instance) Status() Status {
	if !in.Valid() {
		return StatusUndefined
	}
	return in.Signal.instances[in.Index]
}

func (in Instance) String() string {
	if in.Signal == nil {
		return "instance(nil)"
	}
	return fmt.Sprintf("%s[%d]", in.Signal, in.Index)
}

// ReserveInstances adds n idle instance slots to a signal and returns the
// new total.
func (r *Record) ReserveInstances(n int) int {
	if r.kind != KindSignal || r.Stale() || n <= 0 {
		return len(r.instances)
	}
	for range n {
		r.instances = append(r.instances, StatusStaged)
	}
	r.synced.set(PropKey(PropNumInstances), value.Int32(int32(len(r.instances))))
	return len(r.instances)
}

func (r *Record) instance(i int) bool {
	return r.kind == KindSignal && !r.Stale() && i >= 0 && i < len(r.instances)
}

func (r *Record) ActivateInstance(i int) bool {
	if !r.instance(i) || r.instances[i].Has(StatusActive) {
		return false
	}
	r.instances[i] = StatusActive | StatusNew
	return true
}

// ReleaseInstance returns an active instance to the idle pool.
func (r *Record) ReleaseInstance(i int) bool {
	if !r.instance(i) || !r.instances[i].Has(StatusActive) {
		return false
	}
	r.instances[i] = StatusStaged | StatusDownstreamRelease
	return true
}

func (r *Record) InstanceStatus(i int) Status {
	if !r.instance(i) {
		return StatusUndefined
	}
	return r.instances[i]
}

// NumInstances counts the instances whose status intersects filter.
func (r *Record) NumInstances(filter Status) int {
	if r.Stale() {
		return 0
	}
	n := 0
	for _, s := range r.instances {
		if s.Has(filter) {
			n++
		}
	}
	return n
}

// InstanceAt returns the i-th instance whose status intersects filter.
func (r *Record) InstanceAt(filter Status, i int) (Instance, bool) {
	if r.Stale() || i < 0 {
		return Instance{}, false
	}
	for idx, s := range r.instances {
		if !s.Has(filter) {
			continue
		}
		if i == 0 {
			return Instance{Signal: r, Index: idx}, true
		}
		i--
	}
	return Instance{}, false
}

// resetInstances clears the transient flags of every instance.
func (r *Record) resetInstances() {
	for i, s := range r.instances {
		r.instances[i] = s.Reset()
	}
}
