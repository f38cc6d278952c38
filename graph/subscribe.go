package graph

import (
	"fmt"
	"time"

	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

// subscription covers the whole graph (scope 0) or one device.
type subscription struct {
	kinds   object.Kind
	renew   bool
	expires value.Time
}

// Subscribe asks for updates on records of the given kinds, across the
// whole graph when dev is nil or for one device otherwise. timeoutSec -1
// keeps the subscription alive indefinitely; 0 requests the current state
// once. Subscribing again for the same scope replaces the kinds.
func (g *Graph) Subscribe(dev *object.Record, kinds object.Kind, timeoutSec int) error {
	if g.closed.Load() {
		return ErrClosed
	}
	scope, err := g.scope(dev)
	if err != nil {
		return err
	}
	if kinds == object.KindNone {
		return g.Unsubscribe(dev)
	}

	sub := &subscription{kinds: kinds}
	lease := time.Duration(timeoutSec) * time.Second
	if timeoutSec < 0 {
		sub.renew = true
		lease = leaseDuration
	}
	sub.expires = g.clock().Add(lease.Seconds())
	if g.transport != nil {
		if err := g.transport.Subscribe(scope, kinds, lease); err != nil {
			return fmt.Errorf("subscribe %#x: %w", scope, err)
		}
	}
	g.subs[scope] = sub
	return nil
}

// Unsubscribe stops updates for the scope. Records already mirrored stay
// until they are removed or flushed.
func (g *Graph) Unsubscribe(dev *object.Record) error {
	if g.closed.Load() {
		return ErrClosed
	}
	scope, err := g.scope(dev)
	if err != nil {
		return err
	}
	if _, ok := g.subs[scope]; !ok {
		return nil
	}
	delete(g.subs, scope)
	if g.transport != nil {
		return g.transport.Unsubscribe(scope)
	}
	return nil
}

// Subscribed reports the kinds subscribed for a scope.
func (g *Graph) Subscribed(dev *object.Record) object.Kind {
	scope, err := g.scope(dev)
	if err != nil {
		return object.KindNone
	}
	if sub, ok := g.subs[scope]; ok {
		return sub.kinds
	}
	return object.KindNone
}

func (g *Graph) scope(dev *object.Record) (uint64, error) {
	if dev == nil {
		return 0, nil
	}
	if dev.Stale() {
		return 0, object.ErrStale
	}
	if dev.Kind() != object.KindDevice {
		return 0, fmt.Errorf("subscription scope must be a device, not %s", dev.Kind())
	}
	return dev.ID(), nil
}

// covered reports whether a subscription lets msg into the mirror. Device
// announcements always get in.
func (g *Graph) covered(msg Message) bool {
	if msg.Kind == object.KindDevice {
		return true
	}
	if sub, ok := g.subs[0]; ok && sub.kinds.Has(msg.Kind) {
		return true
	}
	for _, dev := range g.devicesOf(msg) {
		if sub, ok := g.subs[dev]; ok && sub.kinds.Has(msg.Kind) {
			return true
		}
	}
	return false
}

func (g *Graph) devicesOf(msg Message) []uint64 {
	switch msg.Kind {
	case object.KindSignal:
		if len(msg.Scope) > 0 {
			return msg.Scope[:1]
		}
		if s := g.byID[msg.ID]; s.live() && s.rec.Parent() != nil {
			return []uint64{s.rec.Parent().ID()}
		}
	case object.KindMap:
		var devs []uint64
		for _, id := range msg.Scope {
			if s := g.byID[id]; s.live() && s.rec.Parent() != nil {
				devs = append(devs, s.rec.Parent().ID())
			}
		}
		return devs
	}
	return nil
}

// renew refreshes auto-renewing leases shortly before they run out and
// drops subscriptions whose timeout has passed.
func (g *Graph) renew(now value.Time) {
	for scope, sub := range g.subs {
		left := sub.expires.Sub(now)
		switch {
		case sub.renew && left <= leaseRenewal.Seconds():
			if g.transport != nil {
				if err := g.transport.Subscribe(scope, sub.kinds, leaseDuration); err != nil {
					g.log.Warn("lease renewal failed", "scope", fmt.Sprintf("%#x", scope), "err", err)
					continue
				}
			}
			sub.expires = now.Add(leaseDuration.Seconds())
		case !sub.renew && left <= 0:
			delete(g.subs, scope)
			if g.transport != nil {
				if err := g.transport.Unsubscribe(scope); err != nil {
					g.log.Warn("unsubscribe failed", "scope", fmt.Sprintf("%#x", scope), "err", err)
				}
			}
			g.log.Debug("subscription lapsed", "scope", fmt.Sprintf("%#x", scope))
		}
	}
}
