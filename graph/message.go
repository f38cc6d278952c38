package graph

import (
	"fmt"

	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

// Action is what an inbound message does to its record.
type Action uint8

const (
	ActionUpsert Action = iota // create, or update with a property delta
	ActionRemove
	ActionExpire
)

func (a Action) String() string {
	switch a {
	case ActionUpsert:
		return "upsert"
	case ActionRemove:
		return "remove"
	case ActionExpire:
		return "expire"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Message is one record update exchanged with a transport. Scope names the
// records the subject hangs off: the owning device of a signal, or the
// signals a map connects.
type Message struct {
	Kind   object.Kind  `cbor:"k"`
	ID     uint64       `cbor:"id"`
	Action Action       `cbor:"a"`
	Scope  []uint64     `cbor:"sc,omitempty"`
	Props  []PropUpdate `cbor:"p,omitempty"`
}

// PropUpdate is one property in a message. Key is the property name as
// returned by object.Key.String.
type PropUpdate struct {
	Key    string    `cbor:"k"`
	Raw    value.Raw `cbor:"v"`
	Remove bool      `cbor:"r,omitempty"`
}

// Prop builds a property update from a key name and value.
func Prop(key string, v value.Value) PropUpdate {
	return PropUpdate{Key: key, Raw: value.Encode(v)}
}

func (m Message) String() string {
	return fmt.Sprintf("%s %s %#x (%d props)", m.Action, m.Kind, m.ID, len(m.Props))
}

// Event is what a handler is told about a record during Poll.
type Event uint8

const (
	EventNone Event = iota
	EventNew
	EventModified
	EventRemoved
	EventExpired
)

func (e Event) String() string {
	switch e {
	case EventNew:
		return "new"
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	case EventExpired:
		return "expired"
	}
	return "none"
}

// rank orders the events a record collects in one poll; only the highest
// is dispatched.
func (e Event) rank() int {
	switch e {
	case EventRemoved:
		return 4
	case EventExpired:
		return 3
	case EventNew:
		return 2
	case EventModified:
		return 1
	}
	return 0
}
