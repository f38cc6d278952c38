package graph

import (
	"log/slog"
	"time"

	"github.com/delaneyj/mappergraph/object"
)

const (
	DefaultGroup   = "224.0.1.3"
	DefaultPort    = 7570
	DefaultTimeout = 10 * time.Second

	// auto-renewing subscriptions request this lease and renew it shortly
	// before it runs out
	leaseDuration = 60 * time.Second
	leaseRenewal  = 10 * time.Second
)

// OnErrorFunc receives handler failures. The record is the one being
// dispatched when the handler failed.
type OnErrorFunc func(rec *object.Record, err error)

// Transport carries messages between graphs. The graph hands itself to
// Attach and receives inbound traffic through Deliver.
type Transport interface {
	Bind(iface, group string, port int) error
	Attach(sink Sink)
	Publish(msg Message) error
	Subscribe(scope uint64, kinds object.Kind, lease time.Duration) error
	Unsubscribe(scope uint64) error
	Close() error
}

// Sink accepts inbound messages from any goroutine.
type Sink interface {
	Deliver(msg Message)
}

type Option func(*Graph)

func WithLogger(log *slog.Logger) Option {
	return func(g *Graph) {
		if log != nil {
			g.log = log
		}
	}
}

func WithTransport(t Transport) Option {
	return func(g *Graph) { g.transport = t }
}

func WithOnError(fn OnErrorFunc) Option {
	return func(g *Graph) { g.onError = fn }
}

// WithTimeout sets how long a remote device may stay silent before it is
// marked expired.
func WithTimeout(d time.Duration) Option {
	return func(g *Graph) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		if now != nil {
			g.now = now
		}
	}
}

func WithInterface(name string) Option {
	return func(g *Graph) { g.iface = name }
}

func WithAddress(group string, port int) Option {
	return func(g *Graph) {
		g.group, g.port = group, port
	}
}
