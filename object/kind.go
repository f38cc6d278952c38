package object

import (
	"fmt"
	"strings"

	"github.com/delaneyj/mappergraph/value"
)

// Kind is the record kind. Kinds are bits so that a Kind also serves as a
// filter over several kinds.
type Kind uint8

const (
	KindDevice Kind = 1 << iota
	KindSignal
	KindMap

	KindNone Kind = 0
	KindAll       = KindDevice | KindSignal | KindMap
)

func (k Kind) Has(o Kind) bool { return k&o != 0 }

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAll:
		return "all"
	}
	var parts []string
	if k.Has(KindDevice) {
		parts = append(parts, "device")
	}
	if k.Has(KindSignal) {
		parts = append(parts, "signal")
	}
	if k.Has(KindMap) {
		parts = append(parts, "map")
	}
	return strings.Join(parts, "|")
}

// HandleType is the value type of a handle to a record of this kind.
func (k Kind) HandleType() value.Type {
	switch k {
	case KindDevice:
		return value.TypeDevice
	case KindSignal:
		return value.TypeSignal
	case KindMap:
		return value.TypeMap
	}
	return value.TypeNull
}

// KindOf maps a handle value type back to a record kind.
func KindOf(t value.Type) Kind {
	switch t {
	case value.TypeDevice:
		return KindDevice
	case value.TypeSignal:
		return KindSignal
	case value.TypeMap:
		return KindMap
	}
	return KindNone
}

// ParseKind accepts "device", "signal", "map", "all", "none" and
// combinations joined with '|'.
func ParseKind(s string) (Kind, error) {
	var k Kind
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "device", "devices", "dev":
			k |= KindDevice
		case "signal", "signals", "sig":
			k |= KindSignal
		case "map", "maps":
			k |= KindMap
		case "all", "any":
			k |= KindAll
		case "none", "":
		default:
			return KindNone, fmt.Errorf("unknown record kind %q", part)
		}
	}
	return k, nil
}
