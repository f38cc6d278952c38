// Package object is the property store behind every graph record: identity,
// a typed property bag with staged outbound changes, and the status bits
// describing what changed since the record was last checked.
package object

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/delaneyj/mappergraph/value"
)

var (
	ErrStale      = errors.New("stale record handle")
	ErrReserved   = errors.New("reserved property")
	ErrUnknownKey = errors.New("unknown property key")
)

// Change is one staged property update; a removal carries no value.
type Change struct {
	Key    Key
	Value  value.Value
	Remove bool
}

// Owner is the graph side of a record. Publish receives staged changes on
// push; Touched is told about local status changes so they can be reset on
// the next poll.
type Owner interface {
	Publish(r *Record, changes []Change) error
	Touched(r *Record)
}

type Config struct {
	ID     uint64
	Kind   Kind
	Parent *Record // owning device of a signal
	Local  bool
	Owned  bool
	Owner  Owner
	Logger *slog.Logger
}

// Record is one device, signal or map. Property access is not synchronized
// against the owning graph's poll.
type Record struct {
	id      atomic.Uint64
	kind    Kind
	parent  *Record
	local   bool
	owned   bool
	owner   Owner
	log     *slog.Logger
	stale   atomic.Bool
	status  Status
	version int32
	seen    value.Time

	synced *table
	staged *table

	instances []Status
}

func New(cfg Config) *Record {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	r := &Record{
		kind:   cfg.Kind,
		parent: cfg.Parent,
		local:  cfg.Local,
		owned:  cfg.Owned,
		owner:  cfg.Owner,
		log:    log,
		status: StatusNew,
		synced: newTable(),
		staged: newTable(),
	}
	r.id.Store(cfg.ID)
	if cfg.Local {
		r.status |= StatusStaged
	}
	return r
}

// ID may have its upper 32 bits unpopulated shortly after a local record is
// created; see CompleteID.
func (r *Record) ID() uint64      { return r.id.Load() }
func (r *Record) Kind() Kind      { return r.kind }
func (r *Record) Parent() *Record { return r.parent }
func (r *Record) Local() bool     { return r.local }
func (r *Record) Owned() bool     { return r.owned }
func (r *Record) Stale() bool     { return r.stale.Load() }
func (r *Record) Version() int32  { return r.version }

// CompleteID fills in the upper 32 bits of a locally allocated id. It is a
// no-op once they are populated.
func (r *Record) CompleteID(upper uint32) bool {
	id := r.id.Load()
	if id>>32 != 0 {
		return false
	}
	return r.id.CompareAndSwap(id, uint64(upper)<<32|id)
}

// SetParent links a signal to its owning device. It reports whether the
// link changed; records of other kinds, and non-device parents, are left
// alone.
func (r *Record) SetParent(dev *Record) bool {
	if r.kind != KindSignal || dev == nil || dev.kind != KindDevice || r.parent == dev {
		return false
	}
	r.parent = dev
	return true
}

// Detach invalidates the handle; later mutations fail with ErrStale.
func (r *Record) Detach() {
	r.stale.Store(true)
}

func (r *Record) Status() Status { return r.status }

func (r *Record) SetStatus(add, remove Status) {
	r.status = (r.status | add) &^ remove
}

// ResetStatus clears everything but the sticky flags.
func (r *Record) ResetStatus() {
	r.status = r.status.Reset()
	r.resetInstances()
}

func (r *Record) LastSeen() value.Time { return r.seen }
func (r *Record) Touch(t value.Time)   { r.seen = t }

func (r *Record) Name() string {
	v, ok := r.synced.get(PropKey(PropName))
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

func (r *Record) String() string {
	return fmt.Sprintf("%s %q (%#x)", r.kind, r.Name(), r.ID())
}

func (r *Record) derived(p Property) (value.Value, bool) {
	switch p {
	case PropID:
		return value.Int64(int64(r.ID())), true
	case PropIsLocal:
		return value.Bool(r.local), true
	case PropStatus:
		return value.Int32(int32(r.status)), true
	case PropVersion:
		return value.Int32(r.version), true
	}
	return value.Value{}, false
}

// Get returns the current value of a property. Nothing is returned for an
// unset key or a stale record.
func (r *Record) Get(k Key) (value.Value, bool) {
	if r.Stale() || !k.valid() {
		return value.Value{}, false
	}
	if !k.IsCustom() && derived[k.Prop] {
		return r.derived(k.Prop)
	}
	return r.synced.get(k)
}

// GetProp and GetName are shorthands for Get with an enumerated or a
// custom key.
func (r *Record) GetProp(p Property) (value.Value, bool) { return r.Get(PropKey(p)) }
func (r *Record) GetName(name string) (value.Value, bool) {
	return r.Get(NameKey(name))
}

// NumProperties counts the derived identity properties and every set
// property.
func (r *Record) NumProperties() int {
	if r.Stale() {
		return 0
	}
	return len(derived) + r.synced.len()
}

// GetAt enumerates properties by position: the derived identity properties
// first, then enumerated keys, then custom keys in insertion order.
func (r *Record) GetAt(i int) (string, value.Value, bool) {
	if r.Stale() || i < 0 {
		return "", value.Value{}, false
	}
	ids := []Property{PropID, PropIsLocal, PropStatus, PropVersion}
	if i < len(ids) {
		v, _ := r.derived(ids[i])
		return ids[i].String(), v, true
	}
	entries := r.synced.entries()
	i -= len(ids)
	if i >= len(entries) {
		return "", value.Value{}, false
	}
	return entries[i].key.String(), entries[i].val, true
}

// Set stages a property change. The current view sees it at once; the
// network sees it on the next Push, or immediately when publish is set.
func (r *Record) Set(k Key, v value.Value, publish bool) error {
	if r.Stale() {
		return ErrStale
	}
	if !k.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, k.String())
	}
	if !k.IsCustom() && derived[k.Prop] {
		return fmt.Errorf("%w: %s", ErrReserved, k)
	}
	if v.IsNull() {
		return fmt.Errorf("set %s: %w", k, value.ErrEmpty)
	}
	r.synced.set(k, v)
	r.staged.set(k, v)
	r.localUpdate()
	if publish {
		return r.Push()
	}
	return nil
}

// SetAny converts a host value and sets it. Unsupported shapes are logged
// and ignored.
func (r *Record) SetAny(k Key, x any, publish bool) error {
	v, err := value.FromAny(x)
	if err != nil {
		r.log.Warn("ignoring property value", "id", fmt.Sprintf("%#x", r.ID()), "key", k.String(), "err", err)
		return err
	}
	return r.Set(k, v, publish)
}

// Remove deletes a property and stages the removal. Reserved keys are
// rejected.
func (r *Record) Remove(k Key) bool {
	if r.Stale() || !k.valid() {
		return false
	}
	if !k.IsCustom() && reserved[k.Prop] {
		r.log.Warn("cannot remove reserved property", "id", fmt.Sprintf("%#x", r.ID()), "key", k.String())
		return false
	}
	if !r.synced.remove(k) {
		return false
	}
	r.staged.set(k, value.Value{})
	r.localUpdate()
	return true
}

func (r *Record) localUpdate() {
	r.status |= StatusLocalUpdate
	if r.owner != nil {
		r.owner.Touched(r)
	}
}

// Staged reports the number of changes waiting for Push.
func (r *Record) Staged() int {
	return r.staged.len()
}

// Push flushes staged changes to the owner. Pushing with nothing staged does
// nothing.
func (r *Record) Push() error {
	if r.Stale() {
		return ErrStale
	}
	if r.staged.len() == 0 {
		return nil
	}
	entries := r.staged.entries()
	changes := make([]Change, 0, len(entries))
	for _, e := range entries {
		changes = append(changes, Change{Key: e.key, Value: e.val, Remove: e.val.IsNull()})
	}
	if r.owner != nil {
		if err := r.owner.Publish(r, changes); err != nil {
			return fmt.Errorf("push %#x: %w", r.ID(), err)
		}
	}
	r.staged.clear()
	if r.local {
		r.version++
	}
	return nil
}

// Apply writes a remote update into the current view, bypassing staging.
// It reports whether the value changed.
func (r *Record) Apply(k Key, v value.Value) bool {
	if r.Stale() || !k.valid() || (!k.IsCustom() && derived[k.Prop]) {
		return false
	}
	if !r.synced.set(k, v) {
		return false
	}
	r.status |= StatusRemoteUpdate
	return true
}

// Drop removes a property on behalf of a remote update.
func (r *Record) Drop(k Key) bool {
	if r.Stale() || !k.valid() {
		return false
	}
	if !r.synced.remove(k) {
		return false
	}
	r.status |= StatusRemoteUpdate
	return true
}

// SetVersion records the version announced by the record's origin.
func (r *Record) SetVersion(v int32) { r.version = v }

// Set is the typed form of Record.Set.
func Set[T value.Elem](r *Record, k Key, publish bool, v ...T) error {
	return r.Set(k, value.Of(v...), publish)
}
