package graph

import (
	"fmt"

	"github.com/delaneyj/mappergraph/object"
)

// Handler observes record events during Poll. A returned error, or a panic,
// is logged and passed to the graph's OnErrorFunc; dispatch carries on with
// the next handler.
type Handler func(g *Graph, rec *object.Record, evt Event) error

type HandlerID uint64

// AddHandler registers h for events on records of the given kinds.
func (g *Graph) AddHandler(h Handler, kinds object.Kind) HandlerID {
	g.handlerID++
	g.handlers = append(g.handlers, handler{id: g.handlerID, fn: h, kinds: kinds})
	return g.handlerID
}

// RemoveHandler unregisters a handler. Removed from inside a handler, it
// receives no further events, including the rest of the current Poll.
func (g *Graph) RemoveHandler(id HandlerID) bool {
	for i, h := range g.handlers {
		if h.id == id {
			g.handlers = append(g.handlers[:i:i], g.handlers[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Graph) registered(id HandlerID) bool {
	for _, h := range g.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

func (g *Graph) dispatch() {
	if len(g.handlers) == 0 {
		return
	}
	// handlers may add or remove handlers while running
	handlers := g.handlers
	for i := 0; i < len(g.pending); i++ {
		s := g.pending[i]
		if s.evt == EventNone {
			continue
		}
		for _, h := range handlers {
			if h.kinds.Has(s.rec.Kind()) && g.registered(h.id) {
				g.call(h, s.rec, s.evt)
			}
		}
	}
}

func (g *Graph) call(h handler, rec *object.Record, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			g.fail(rec, evt, fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := h.fn(g, rec, evt); err != nil {
		g.fail(rec, evt, err)
	}
}

func (g *Graph) fail(rec *object.Record, evt Event, err error) {
	err = fmt.Errorf("%s handler for %v: %w", evt, rec, err)
	g.log.Warn("handler failed", "id", fmt.Sprintf("%#x", rec.ID()), "kind", rec.Kind(), "event", evt, "err", err)
	if g.onError != nil {
		g.onError(rec, err)
	}
}
