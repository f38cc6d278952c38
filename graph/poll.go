package graph

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

// Poll drains the inbound queue, applies it to the mirror and dispatches
// events. With blockMs > 0 it waits up to that long for a first message;
// with 0 it never blocks. It returns the number of messages applied.
//
// Handlers run on the calling goroutine and must not call Poll.
func (g *Graph) Poll(blockMs int) (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	if !g.polling.CompareAndSwap(false, true) {
		return 0, ErrReentrantPoll
	}
	defer g.polling.Store(false)

	msgs := g.drain(time.Duration(blockMs) * time.Millisecond)
	now := g.clock()
	n := 0
	for _, msg := range msgs {
		if g.apply(msg, now) {
			n++
		}
	}
	g.complete()
	g.renew(now)
	g.expire(now)
	g.dispatch()
	g.settle()
	return n, nil
}

func (g *Graph) drain(block time.Duration) []Message {
	if block > 0 {
		deadline := time.NewTimer(block)
		defer deadline.Stop()
		for {
			g.mu.Lock()
			n := len(g.queue)
			g.mu.Unlock()
			if n > 0 {
				break
			}
			select {
			case <-g.notify:
				continue
			case <-deadline.C:
			}
			break
		}
	}
	g.mu.Lock()
	msgs := g.queue
	g.queue = nil
	g.mu.Unlock()
	return msgs
}

// apply reports whether msg changed the mirror.
func (g *Graph) apply(msg Message, now value.Time) bool {
	log := g.log.With("id", fmt.Sprintf("%#x", msg.ID), "kind", msg.Kind)
	switch msg.Kind {
	case object.KindDevice, object.KindSignal, object.KindMap:
	default:
		log.Warn("dropping message for unknown record kind")
		return false
	}
	s := g.byID[msg.ID]
	if s != nil && s.rec.Local() {
		return false
	}
	if !g.covered(msg) {
		log.Debug("dropping unsubscribed message", "action", msg.Action)
		return false
	}

	switch msg.Action {
	case ActionRemove:
		if !s.live() {
			return false
		}
		g.remove(s)
		return true
	case ActionExpire:
		if !s.live() || s.rec.Status().Has(object.StatusExpired) {
			return false
		}
		s.rec.SetStatus(object.StatusExpired, 0)
		g.mark(s, EventExpired)
		return true
	case ActionUpsert:
	default:
		log.Warn("dropping message with unknown action", "action", msg.Action)
		return false
	}

	evt := EventModified
	if !s.live() {
		s = g.create(msg)
		evt = EventNew
	}
	if len(msg.Scope) > 0 {
		s.scope = msg.Scope
	}
	g.link(s)
	if evt == EventNew {
		g.adopt(s)
	}
	changed := evt == EventNew
	for _, p := range msg.Props {
		if g.applyProp(s.rec, p, log) {
			changed = true
		}
	}
	g.seen(s, now)
	if s.rec.Status().Has(object.StatusExpired) {
		s.rec.SetStatus(0, object.StatusExpired)
		changed = true
	}
	if changed {
		if evt == EventModified {
			s.rec.SetStatus(object.StatusModified, 0)
		}
		g.mark(s, evt)
	}
	log.Debug("applied", "event", evt, "changed", changed, "props", len(msg.Props))
	return true
}

func (g *Graph) create(msg Message) *slot {
	rec := object.New(object.Config{ID: msg.ID, Kind: msg.Kind, Owner: g, Logger: g.log})
	if msg.Kind == object.KindMap && len(msg.Scope) > 0 {
		rec.Apply(object.PropKey(object.PropSignal), value.List(value.TypeSignal, msg.Scope...))
	}
	return g.insert(rec, nil)
}

// link resolves the device of a remote signal and the signals of a remote
// map from the scope they were announced under. Records named in the scope
// that are not known yet are picked up by adopt when they arrive.
func (g *Graph) link(s *slot) {
	if s.rec.Local() || len(s.scope) == 0 {
		return
	}
	switch s.rec.Kind() {
	case object.KindSignal:
		if dev := g.byID[s.scope[0]]; dev.live() {
			s.rec.SetParent(dev.rec)
		}
	case object.KindMap:
		links := make([]*object.Record, 0, len(s.scope))
		for _, id := range s.scope {
			if sig := g.byID[id]; sig.live() && sig.rec.Kind() == object.KindSignal {
				links = append(links, sig.rec)
			}
		}
		s.links = links
	}
}

// adopt links records that arrived before s and name it in their scope.
func (g *Graph) adopt(s *slot) {
	id := s.rec.ID()
	switch s.rec.Kind() {
	case object.KindDevice:
		for _, sig := range g.order[object.KindSignal] {
			if sig.live() && sig.rec.Parent() == nil && len(sig.scope) > 0 && sig.scope[0] == id {
				g.link(sig)
			}
		}
	case object.KindSignal:
		for _, m := range g.order[object.KindMap] {
			if m.live() && slices.Contains(m.scope, id) && !slices.Contains(m.links, s.rec) {
				g.link(m)
			}
		}
	}
}

// applyProp decodes one property. Malformed payloads are logged and
// skipped; the rest of the message still applies.
func (g *Graph) applyProp(rec *object.Record, p PropUpdate, log *slog.Logger) bool {
	key := object.NameKey(p.Key)
	if p.Remove {
		return rec.Drop(key)
	}
	v, err := value.Decode(p.Raw)
	if err != nil {
		log.Warn("skipping malformed property", "key", p.Key, "err", err)
		return false
	}
	if v.IsNull() {
		return rec.Drop(key)
	}
	if !key.IsCustom() {
		switch key.Prop {
		case object.PropVersion:
			if n, ok := v.AsInt32(); ok && n != rec.Version() {
				rec.SetVersion(n)
				return true
			}
			return false
		case object.PropID, object.PropIsLocal, object.PropStatus:
			return false
		}
	}
	if key.IsCustom() && p.Key == "" {
		log.Warn("skipping property without a key")
		return false
	}
	return rec.Apply(key, v)
}

// seen refreshes the liveness of a record and of the devices it belongs
// to. An expired device heard from through its signals or maps revives.
func (g *Graph) seen(s *slot, now value.Time) {
	s.rec.Touch(now)
	var devs []*object.Record
	switch s.rec.Kind() {
	case object.KindSignal:
		devs = append(devs, s.rec.Parent())
	case object.KindMap:
		for _, l := range s.links {
			devs = append(devs, l.Parent())
		}
	}
	for _, dev := range devs {
		if dev == nil || dev.Local() {
			continue
		}
		dev.Touch(now)
		if d := g.slotOf(dev); d.live() && dev.Status().Has(object.StatusExpired) {
			dev.SetStatus(object.StatusModified, object.StatusExpired)
			g.mark(d, EventModified)
		}
	}
}

// expire marks remote devices that have been silent for longer than the
// timeout. Each device expires once until it is heard from again.
func (g *Graph) expire(now value.Time) {
	limit := g.timeout.Seconds()
	for _, s := range g.order[object.KindDevice] {
		rec := s.rec
		if !s.live() || rec.Local() || rec.Status().Has(object.StatusExpired) {
			continue
		}
		if now.Sub(rec.LastSeen()) > limit {
			rec.SetStatus(object.StatusExpired, 0)
			g.mark(s, EventExpired)
			g.log.Debug("device expired", "id", fmt.Sprintf("%#x", rec.ID()), "name", rec.Name())
		}
	}
}

// Flush removes remote devices that are expired or have been silent for
// longer than timeout, along with their signals and maps, and dispatches
// the removals. It returns the number of devices removed.
func (g *Graph) Flush(timeout time.Duration) (int, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	if !g.polling.CompareAndSwap(false, true) {
		return 0, ErrReentrantPoll
	}
	defer g.polling.Store(false)

	now := g.clock()
	n := 0
	for _, s := range g.order[object.KindDevice] {
		rec := s.rec
		if !s.live() || rec.Local() {
			continue
		}
		if rec.Status().Has(object.StatusExpired) || now.Sub(rec.LastSeen()) > timeout.Seconds() {
			g.remove(s)
			n++
		}
	}
	g.dispatch()
	g.settle()
	return n, nil
}
