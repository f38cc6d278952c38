// Package transport connects graphs in one process. A Bus stands in for the
// multicast network: endpoints bound to the same group and port see each
// other's messages, encoded as CBOR exactly as they would travel between
// processes.
package transport

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"sync"
	"time"

	"github.com/delaneyj/mappergraph/graph"
	"github.com/delaneyj/mappergraph/object"
)

var (
	ErrClosed  = errors.New("endpoint closed")
	ErrAddress = errors.New("invalid bus address")
)

// Bus keeps the last announced state of every record per address so that
// late subscribers receive a snapshot.
type Bus struct {
	log *slog.Logger

	mu        sync.Mutex
	endpoints map[string][]*Endpoint
	retained  map[string]map[uint64]*graph.Message
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		log:       log,
		endpoints: map[string][]*Endpoint{},
		retained:  map[string]map[uint64]*graph.Message{},
	}
}

// Endpoint creates an unbound endpoint; graph.New binds it.
func (b *Bus) Endpoint() *Endpoint {
	return &Endpoint{bus: b, subs: map[uint64]object.Kind{}}
}

// Retained returns the number of records announced on an address.
func (b *Bus) Retained(group string, port int) int {
	addr, err := address(group, port)
	if err != nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.retained[addr])
}

func address(group string, port int) (string, error) {
	ip, err := netip.ParseAddr(group)
	if err != nil || !ip.IsMulticast() {
		return "", fmt.Errorf("%w: group %q", ErrAddress, group)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("%w: port %d", ErrAddress, port)
	}
	return netip.AddrPortFrom(ip, uint16(port)).String(), nil
}

func (b *Bus) join(ep *Endpoint, addr string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaveLocked(ep)
	ep.addr = addr
	b.endpoints[addr] = append(b.endpoints[addr], ep)
}

func (b *Bus) leave(ep *Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaveLocked(ep)
}

func (b *Bus) leaveLocked(ep *Endpoint) {
	if ep.addr == "" {
		return
	}
	b.endpoints[ep.addr] = slices.DeleteFunc(b.endpoints[ep.addr], func(o *Endpoint) bool { return o == ep })
	ep.addr = ""
}

func (b *Bus) publish(from *Endpoint, data []byte) error {
	msg, err := Decode(data)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if from.addr == "" {
		return fmt.Errorf("publish %s: %w: not bound", msg, ErrAddress)
	}
	b.retain(from.addr, msg)
	for _, ep := range b.endpoints[from.addr] {
		if ep == from {
			continue
		}
		if err := ep.deliver(data); err != nil {
			b.log.Warn("delivery failed", "addr", from.addr, "err", err)
		}
	}
	b.log.Debug("published", "addr", from.addr, "msg", msg.String(), "bytes", len(data))
	return nil
}

// retain folds msg into the stored state of its record.
func (b *Bus) retain(addr string, msg graph.Message) {
	records := b.retained[addr]
	if records == nil {
		records = map[uint64]*graph.Message{}
		b.retained[addr] = records
	}
	switch msg.Action {
	case graph.ActionRemove:
		drop(records, msg.ID)
		return
	case graph.ActionExpire:
		return
	}
	cur, ok := records[msg.ID]
	if !ok {
		cp := msg
		records[msg.ID] = &cp
		return
	}
	if len(msg.Scope) > 0 {
		cur.Scope = msg.Scope
	}
	for _, p := range msg.Props {
		i := slices.IndexFunc(cur.Props, func(o graph.PropUpdate) bool { return o.Key == p.Key })
		switch {
		case p.Remove && i >= 0:
			cur.Props = slices.Delete(cur.Props, i, i+1)
		case p.Remove:
		case i >= 0:
			cur.Props[i] = p
		default:
			cur.Props = append(cur.Props, p)
		}
	}
}

// drop deletes a record together with the signals of a device and the maps
// touching a signal.
func drop(records map[uint64]*graph.Message, id uint64) {
	m, ok := records[id]
	if !ok {
		return
	}
	delete(records, id)
	for other, o := range records {
		switch {
		case m.Kind == object.KindDevice && o.Kind == object.KindSignal && slices.Contains(o.Scope, id):
		case m.Kind == object.KindSignal && o.Kind == object.KindMap && slices.Contains(o.Scope, id):
		default:
			continue
		}
		drop(records, other)
	}
}

// snapshot encodes the retained records a subscription of ep covers,
// devices before signals before maps.
func (b *Bus) snapshot(ep *Endpoint, scope uint64, kinds object.Kind) ([][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	records := b.retained[ep.addr]
	deviceOf := func(m *graph.Message) uint64 {
		switch m.Kind {
		case object.KindDevice:
			return m.ID
		case object.KindSignal:
			if len(m.Scope) > 0 {
				return m.Scope[0]
			}
		}
		return 0
	}
	var out []graph.Message
	for _, m := range records {
		if m.Kind != object.KindDevice && !kinds.Has(m.Kind) {
			continue
		}
		if scope != 0 {
			in := deviceOf(m) == scope
			if m.Kind == object.KindMap {
				for _, sig := range m.Scope {
					if s, ok := records[sig]; ok && deviceOf(s) == scope {
						in = true
					}
				}
			}
			if !in {
				continue
			}
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b graph.Message) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.ID, b.ID))
	})
	encoded := make([][]byte, 0, len(out))
	for _, m := range out {
		data, err := Encode(m)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, data)
	}
	return encoded, nil
}

// Endpoint is one graph's attachment to a Bus.
type Endpoint struct {
	bus *Bus

	addr string // guarded by bus.mu

	mu     sync.Mutex
	sink   graph.Sink
	subs   map[uint64]object.Kind
	closed bool
}

var _ graph.Transport = (*Endpoint)(nil)

// Bind moves the endpoint to a group and port. The interface name is
// accepted for parity with network transports and otherwise ignored.
func (ep *Endpoint) Bind(iface, group string, port int) error {
	addr, err := address(group, port)
	if err != nil {
		return err
	}
	ep.mu.Lock()
	closed := ep.closed
	ep.mu.Unlock()
	if closed {
		return ErrClosed
	}
	ep.bus.join(ep, addr)
	return nil
}

func (ep *Endpoint) Attach(sink graph.Sink) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.sink = sink
}

func (ep *Endpoint) Publish(msg graph.Message) error {
	ep.mu.Lock()
	closed := ep.closed
	ep.mu.Unlock()
	if closed {
		return ErrClosed
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	return ep.bus.publish(ep, data)
}

// Subscribe records interest and replays the retained state the
// subscription newly covers.
func (ep *Endpoint) Subscribe(scope uint64, kinds object.Kind, lease time.Duration) error {
	ep.mu.Lock()
	if ep.closed {
		ep.mu.Unlock()
		return ErrClosed
	}
	prev := ep.subs[scope]
	ep.subs[scope] = kinds
	ep.mu.Unlock()
	if prev == kinds {
		return nil
	}
	snapshot, err := ep.bus.snapshot(ep, scope, kinds)
	if err != nil {
		return err
	}
	for _, data := range snapshot {
		if err := ep.deliver(data); err != nil {
			return err
		}
	}
	return nil
}

func (ep *Endpoint) Unsubscribe(scope uint64) error {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	delete(ep.subs, scope)
	return nil
}

// Subscriptions returns the kinds subscribed per scope.
func (ep *Endpoint) Subscriptions() map[uint64]object.Kind {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	out := make(map[uint64]object.Kind, len(ep.subs))
	for k, v := range ep.subs {
		out[k] = v
	}
	return out
}

func (ep *Endpoint) Close() error {
	ep.mu.Lock()
	if ep.closed {
		ep.mu.Unlock()
		return nil
	}
	ep.closed = true
	ep.mu.Unlock()
	ep.bus.leave(ep)
	return nil
}

// deliver hands a freshly decoded copy of data to the attached graph.
func (ep *Endpoint) deliver(data []byte) error {
	ep.mu.Lock()
	sink, closed := ep.sink, ep.closed
	ep.mu.Unlock()
	if sink == nil || closed {
		return nil
	}
	msg, err := Decode(data)
	if err != nil {
		return err
	}
	sink.Deliver(msg)
	return nil
}
