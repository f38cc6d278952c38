package object

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

//go:generate go run ../cmd/codegen --out property_names.go

// Property is an enumerated property key. Application metadata uses custom
// string keys instead, see NameKey.
type Property uint8

const (
	PropUnknown Property = iota
	PropData
	PropDevice
	PropDirection
	PropEphemeral
	PropExpression
	PropHost
	PropID
	PropInstance
	PropIsLocal
	PropJitter
	PropLength
	PropLibVersion
	PropLinked
	PropMax
	PropMin
	PropMuted
	PropName
	PropNumInstances
	PropNumMaps
	PropNumMapsIn
	PropNumMapsOut
	PropNumSigsIn
	PropNumSigsOut
	PropOrdinal
	PropPeriod
	PropPort
	PropProcessLocation
	PropProtocol
	PropRate
	PropScope
	PropSignal
	PropStatus
	PropStealing
	PropSynced
	PropType
	PropUnit
	PropUseInstances
	PropVersion

	numProperties
)

// reserved keys describe a record's identity or structure and cannot be
// removed; PropID, PropIsLocal, PropStatus and PropVersion are derived from
// the record and cannot be set either.
var reserved = map[Property]bool{
	PropID:      true,
	PropIsLocal: true,
	PropStatus:  true,
	PropVersion: true,
	PropType:    true,
	PropDevice:  true,
	PropSignal:  true,
}

var derived = map[Property]bool{
	PropID:      true,
	PropIsLocal: true,
	PropStatus:  true,
	PropVersion: true,
}

// Key addresses one property: an enumerated Property or a custom name.
type Key struct {
	Prop Property
	Name string
}

func PropKey(p Property) Key { return Key{Prop: p} }

// NameKey builds a key from a string. Names of enumerated properties resolve
// to the enumerated key so both spellings reach the same entry.
func NameKey(name string) Key {
	if p, ok := LookupProperty(name); ok {
		return Key{Prop: p}
	}
	return Key{Name: name}
}

func (k Key) IsCustom() bool { return k.Prop == PropUnknown }

func (k Key) String() string {
	if k.IsCustom() {
		return k.Name
	}
	return k.Prop.String()
}

func (k Key) hash() uint64 {
	return xxhash.Sum64String(k.Name)
}

func (k Key) valid() bool {
	if k.IsCustom() {
		return k.Name != "" && !strings.HasPrefix(k.Name, "@")
	}
	return k.Prop < numProperties
}
