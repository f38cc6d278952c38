// Package graph keeps a local mirror of a distributed signal graph. Remote
// devices, signals and maps arrive as messages from a Transport; Poll
// applies them, dispatches change events to handlers and is the only place
// the mirror mutates.
package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

var (
	ErrClosed        = errors.New("graph closed")
	ErrReentrantPoll = errors.New("poll called from inside poll")
	ErrCursorStarted = errors.New("list cursor already started")
	ErrNotSupported  = errors.New("operation not supported on instance lists")
	ErrGraphMismatch = errors.New("lists belong to different graphs")
	ErrNotReady      = errors.New("record id not allocated yet")
	ErrNotLocal      = errors.New("record not created by this graph")
)

// slot is the arena entry for one record. seq orders records by arrival and
// never changes, unlike a local record's id.
type slot struct {
	seq     uint64
	rec     *object.Record
	links   []*object.Record // signals a map connects
	scope   []uint64         // ids a remote record was announced under
	removed bool

	touched bool
	evt     Event
}

func (s *slot) live() bool { return s != nil && !s.removed }

type handler struct {
	id    HandlerID
	fn    Handler
	kinds object.Kind
}

type Graph struct {
	log       *slog.Logger
	onError   OnErrorFunc
	transport Transport
	timeout   time.Duration
	now       func() time.Time
	iface     string
	group     string
	port      int

	mu     sync.Mutex
	queue  []Message
	notify chan struct{}

	closed  atomic.Bool
	polling atomic.Bool

	seq      uint64
	localSeq uint32
	slots    map[uint64]*slot // by seq
	byID     map[uint64]*slot
	order    map[object.Kind][]*slot
	pending  []*slot
	dirty    bool

	handlers  []handler
	handlerID HandlerID

	subs map[uint64]*subscription
}

// New creates a graph and subscribes to the record kinds in autosubscribe
// across the whole network. KindNone subscribes to nothing.
func New(autosubscribe object.Kind, opts ...Option) (*Graph, error) {
	g := &Graph{
		log:     slog.Default(),
		timeout: DefaultTimeout,
		now:     time.Now,
		group:   DefaultGroup,
		port:    DefaultPort,
		notify:  make(chan struct{}, 1),
		slots:   map[uint64]*slot{},
		byID:    map[uint64]*slot{},
		order:   map[object.Kind][]*slot{},
		subs:    map[uint64]*subscription{},
	}
	// local ids start from a random base so that peers creating devices
	// with the same name do not collide
	g.localSeq = rand.Uint32N(1<<16) << 16
	for _, opt := range opts {
		opt(g)
	}
	if g.transport != nil {
		g.transport.Attach(g)
		if err := g.transport.Bind(g.iface, g.group, g.port); err != nil {
			return nil, fmt.Errorf("bind %s:%d: %w", g.group, g.port, err)
		}
	}
	if autosubscribe != object.KindNone {
		if err := g.Subscribe(nil, autosubscribe, -1); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Close detaches every record, drops subscriptions and closes the
// transport. Handles and lists from this graph report stale afterwards.
func (g *Graph) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, s := range g.slots {
		s.rec.Detach()
	}
	clear(g.subs)
	g.handlers = nil
	g.mu.Lock()
	g.queue = nil
	g.mu.Unlock()
	if g.transport != nil {
		return g.transport.Close()
	}
	return nil
}

func (g *Graph) Closed() bool { return g.closed.Load() }

// Deliver queues an inbound message for the next Poll. It is safe to call
// from any goroutine.
func (g *Graph) Deliver(msg Message) {
	if g.closed.Load() {
		return
	}
	g.mu.Lock()
	g.queue = append(g.queue, msg)
	g.mu.Unlock()
	select {
	case g.notify <- struct{}{}:
	default:
	}
}

func (g *Graph) Interface() string { return g.iface }

func (g *Graph) SetInterface(name string) error {
	g.iface = name
	return g.rebind()
}

func (g *Graph) Address() (string, int) { return g.group, g.port }

func (g *Graph) SetAddress(group string, port int) error {
	g.group, g.port = group, port
	return g.rebind()
}

func (g *Graph) rebind() error {
	if g.closed.Load() {
		return ErrClosed
	}
	if g.transport == nil {
		return nil
	}
	return g.transport.Bind(g.iface, g.group, g.port)
}

func (g *Graph) clock() value.Time {
	return value.FromTime(g.now())
}

func (g *Graph) insert(rec *object.Record, links []*object.Record) *slot {
	g.seq++
	s := &slot{seq: g.seq, rec: rec, links: links}
	g.slots[s.seq] = s
	g.byID[rec.ID()] = s
	g.order[rec.Kind()] = append(g.order[rec.Kind()], s)
	return s
}

// mark queues s for dispatch and status reset at the end of the poll.
func (g *Graph) mark(s *slot, evt Event) {
	if !s.touched {
		s.touched = true
		s.evt = evt
		g.pending = append(g.pending, s)
		return
	}
	if evt.rank() > s.evt.rank() {
		s.evt = evt
	}
}

// remove marks s and everything hanging off it as removed. The records stay
// readable until dispatch finishes.
func (g *Graph) remove(s *slot) {
	if !s.live() {
		return
	}
	s.removed = true
	s.rec.SetStatus(object.StatusRemoved, 0)
	g.mark(s, EventRemoved)
	g.dirty = true

	switch s.rec.Kind() {
	case object.KindDevice:
		for _, sig := range g.order[object.KindSignal] {
			if sig.live() && sig.rec.Parent() == s.rec {
				g.remove(sig)
			}
		}
	case object.KindSignal:
		for _, m := range g.order[object.KindMap] {
			if m.live() && slices.Contains(m.links, s.rec) {
				g.remove(m)
			}
		}
	}
}

// settle resets statuses and drops removed records after dispatch.
func (g *Graph) settle() {
	for _, s := range g.pending {
		s.touched = false
		s.evt = EventNone
		if s.removed {
			if g.byID[s.rec.ID()] == s {
				delete(g.byID, s.rec.ID())
			}
			delete(g.slots, s.seq)
			s.rec.Detach()
			continue
		}
		s.rec.ResetStatus()
	}
	g.pending = g.pending[:0]
	if g.dirty {
		for k, list := range g.order {
			g.order[k] = slices.DeleteFunc(list, func(s *slot) bool { return s.removed })
		}
		g.dirty = false
	}
}

func (g *Graph) slotOf(rec *object.Record) *slot {
	if rec == nil {
		return nil
	}
	s := g.byID[rec.ID()]
	if s == nil || s.rec != rec {
		return nil
	}
	return s
}

// Record looks a live record up by id.
func (g *Graph) Record(id uint64) *object.Record {
	if s := g.byID[id]; s.live() {
		return s.rec
	}
	return nil
}

func (g *Graph) DeviceByName(name string) *object.Record {
	for _, s := range g.order[object.KindDevice] {
		if s.live() && s.rec.Name() == name {
			return s.rec
		}
	}
	return nil
}

// Resolve dereferences a single device, signal or map handle value.
func (g *Graph) Resolve(v value.Value) *object.Record {
	id, ok := v.ID()
	if !ok || v.Type() == value.TypeList {
		return nil
	}
	rec := g.Record(id)
	if rec == nil || rec.Kind() != object.KindOf(v.Type()) {
		return nil
	}
	return rec
}

// ResolveList turns a list or array of handles into a List of the records
// that are still known.
func (g *Graph) ResolveList(v value.Value) *List {
	ids, ok := v.IDs()
	if !ok {
		return g.newList(emptySource{})
	}
	return g.idList(ids)
}

func (g *Graph) Devices() *List { return g.newList(kindSource{g: g, kind: object.KindDevice}) }
func (g *Graph) Signals() *List { return g.newList(kindSource{g: g, kind: object.KindSignal}) }
func (g *Graph) Maps() *List    { return g.newList(kindSource{g: g, kind: object.KindMap}) }

// SignalsOf lists the signals owned by a device.
func (g *Graph) SignalsOf(dev *object.Record) *List {
	var ids []uint64
	for _, s := range g.order[object.KindSignal] {
		if s.live() && s.rec.Parent() == dev {
			ids = append(ids, s.rec.ID())
		}
	}
	return g.idList(ids)
}

// MapsOf lists the maps touching a signal, or any signal of a device.
func (g *Graph) MapsOf(rec *object.Record) *List {
	var ids []uint64
	for _, s := range g.order[object.KindMap] {
		if !s.live() {
			continue
		}
		for _, l := range s.links {
			if l == rec || l.Parent() == rec {
				ids = append(ids, s.rec.ID())
				break
			}
		}
	}
	return g.idList(ids)
}

// Instances lists the instances of a signal whose status intersects filter.
func (g *Graph) Instances(sig *object.Record, filter object.Status) *InstanceList {
	return newInstanceList(g, sig, filter)
}

// Links returns the signals a map connects, sources first.
func (g *Graph) Links(m *object.Record) []*object.Record {
	s := g.slotOf(m)
	if !s.live() {
		return nil
	}
	return slices.Clone(s.links)
}

// AddDevice creates a local device. Its id is completed, and the device
// announced, by the next Poll.
func (g *Graph) AddDevice(name string) (*object.Record, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	rec := g.newLocal(object.KindDevice, nil)
	if err := rec.Set(object.PropKey(object.PropName), value.String(name), false); err != nil {
		return nil, err
	}
	g.mark(g.insert(rec, nil), EventNew)
	return rec, nil
}

// AddSignal creates a local signal on a local device.
func (g *Graph) AddSignal(dev *object.Record, name string, dir object.Direction, typ value.Type, length int) (*object.Record, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	if s := g.slotOf(dev); !s.live() || !dev.Local() || dev.Kind() != object.KindDevice {
		return nil, ErrNotLocal
	}
	if !typ.IsNumeric() && typ != value.TypeString {
		return nil, fmt.Errorf("signal type %s: %w", typ, value.ErrUnsupported)
	}
	if length < 1 {
		return nil, fmt.Errorf("signal length %d: %w", length, value.ErrEmpty)
	}
	rec := g.newLocal(object.KindSignal, dev)
	for _, p := range []struct {
		prop object.Property
		v    value.Value
	}{
		{object.PropName, value.String(name)},
		{object.PropDirection, value.Int32(int32(dir))},
		{object.PropType, value.String(string(rune(typ)))},
		{object.PropLength, value.Int32(int32(length))},
	} {
		if err := rec.Set(object.PropKey(p.prop), p.v, false); err != nil {
			return nil, err
		}
	}
	g.mark(g.insert(rec, nil), EventNew)
	return rec, nil
}

// AddMap creates a local map from one or more source signals to dst.
func (g *Graph) AddMap(dst *object.Record, srcs ...*object.Record) (*object.Record, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("map needs a source: %w", value.ErrEmpty)
	}
	links := append(slices.Clone(srcs), dst)
	for _, l := range links {
		if s := g.slotOf(l); !s.live() || l.Kind() != object.KindSignal {
			return nil, fmt.Errorf("map endpoint %v: %w", l, ErrNotLocal)
		}
	}
	rec := g.newLocal(object.KindMap, nil)
	if err := rec.Set(object.PropKey(object.PropNumSigsIn), value.Int32(int32(len(srcs))), false); err != nil {
		return nil, err
	}
	g.mark(g.insert(rec, links), EventNew)
	return rec, nil
}

// Remove deletes a local record, announcing the removal. Signals and maps
// hanging off it go with it.
func (g *Graph) Remove(rec *object.Record) error {
	if g.closed.Load() {
		return ErrClosed
	}
	s := g.slotOf(rec)
	if !s.live() || !rec.Local() {
		return ErrNotLocal
	}
	if g.transport != nil && !rec.Status().Has(object.StatusStaged) {
		msg := Message{Kind: rec.Kind(), ID: rec.ID(), Action: ActionRemove, Scope: g.scopeOf(s)}
		if err := g.transport.Publish(msg); err != nil {
			return fmt.Errorf("remove %#x: %w", rec.ID(), err)
		}
	}
	g.remove(s)
	return nil
}

func (g *Graph) newLocal(kind object.Kind, parent *object.Record) *object.Record {
	g.localSeq++
	return object.New(object.Config{
		ID:     uint64(g.localSeq),
		Kind:   kind,
		Parent: parent,
		Local:  true,
		Owned:  true,
		Owner:  g,
		Logger: g.log,
	})
}

// complete allocates the upper id bits of staged local records and
// announces them. Devices take theirs from a hash of the name; signals and
// maps inherit from their device.
func (g *Graph) complete() {
	for _, kind := range []object.Kind{object.KindDevice, object.KindSignal, object.KindMap} {
		for _, s := range g.order[kind] {
			if !s.live() || !s.rec.Status().Has(object.StatusStaged) {
				continue
			}
			upper, ok := g.upperBits(s)
			if !ok {
				continue
			}
			old := s.rec.ID()
			if s.rec.CompleteID(upper) {
				delete(g.byID, old)
				g.byID[s.rec.ID()] = s
			}
			s.rec.SetStatus(object.StatusActive, object.StatusStaged)
			if kind == object.KindMap {
				ids := make([]uint64, len(s.links))
				for i, l := range s.links {
					ids[i] = l.ID()
				}
				s.rec.Apply(object.PropKey(object.PropSignal), value.List(value.TypeSignal, ids...))
			}
			if err := s.rec.Push(); err != nil {
				g.log.Warn("announce failed", "id", fmt.Sprintf("%#x", s.rec.ID()), "kind", kind, "err", err)
			}
		}
	}
}

func (g *Graph) upperBits(s *slot) (uint32, bool) {
	var from *object.Record
	switch s.rec.Kind() {
	case object.KindDevice:
		upper := uint32(xxhash.Sum64String(s.rec.Name()) >> 32)
		if upper == 0 {
			upper = 1
		}
		return upper, true
	case object.KindSignal:
		from = s.rec.Parent()
	case object.KindMap:
		from = s.links[len(s.links)-1].Parent()
	}
	if from == nil || from.Status().Has(object.StatusStaged) {
		return 0, false
	}
	return uint32(from.ID() >> 32), true
}

func (g *Graph) scopeOf(s *slot) []uint64 {
	switch s.rec.Kind() {
	case object.KindSignal:
		if p := s.rec.Parent(); p != nil {
			return []uint64{p.ID()}
		}
	case object.KindMap:
		ids := make([]uint64, len(s.links))
		for i, l := range s.links {
			ids[i] = l.ID()
		}
		return ids
	}
	return nil
}

// Publish sends staged changes of a record to the transport.
func (g *Graph) Publish(rec *object.Record, changes []object.Change) error {
	if g.closed.Load() {
		return ErrClosed
	}
	if rec.Status().Has(object.StatusStaged) {
		return ErrNotReady
	}
	if g.transport == nil {
		return nil
	}
	s := g.slotOf(rec)
	if s == nil {
		return ErrNotLocal
	}
	msg := Message{Kind: rec.Kind(), ID: rec.ID(), Action: ActionUpsert, Scope: g.scopeOf(s)}
	hasSignal := false
	for _, c := range changes {
		if c.Key.Prop == object.PropSignal && !c.Key.IsCustom() {
			hasSignal = true
		}
		if c.Remove {
			msg.Props = append(msg.Props, PropUpdate{Key: c.Key.String(), Remove: true})
			continue
		}
		msg.Props = append(msg.Props, Prop(c.Key.String(), c.Value))
	}
	if rec.Kind() == object.KindMap && !hasSignal {
		if v, ok := rec.GetProp(object.PropSignal); ok {
			msg.Props = append(msg.Props, Prop(object.PropSignal.String(), v))
		}
	}
	// Only the origin advances a record's version.
	if rec.Local() {
		msg.Props = append(msg.Props, Prop(object.PropVersion.String(), value.Int32(rec.Version()+1)))
	}
	return g.transport.Publish(msg)
}

// Touched queues a locally modified record for a status reset.
func (g *Graph) Touched(rec *object.Record) {
	if s := g.slotOf(rec); s != nil {
		g.mark(s, EventNone)
	}
}
