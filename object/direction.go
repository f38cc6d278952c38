package object

import "fmt"

// Direction is the data flow of a signal relative to its device.
type Direction int32

const (
	DirUndefined Direction = 0
	DirIncoming  Direction = 1
	DirOutgoing  Direction = 2
	DirAny       Direction = DirIncoming | DirOutgoing
)

func (d Direction) String() string {
	switch d {
	case DirIncoming:
		return "incoming"
	case DirOutgoing:
		return "outgoing"
	case DirAny:
		return "any"
	}
	return "undefined"
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "in", "incoming", "input":
		return DirIncoming, nil
	case "out", "outgoing", "output":
		return DirOutgoing, nil
	}
	return DirUndefined, fmt.Errorf("unknown direction %q", s)
}
