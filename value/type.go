package value

import "fmt"

// Type tags the element type of a Value. The codes are the single
// characters used on the wire.
type Type byte

const (
	TypeNull    Type = 'N'
	TypeInt32   Type = 'i'
	TypeInt64   Type = 'h'
	TypeFloat32 Type = 'f'
	TypeFloat64 Type = 'd'
	TypeBool    Type = 'b'
	TypeString  Type = 's'
	TypeTime    Type = 't'
	TypeDevice  Type = 'D'
	TypeSignal  Type = 'S'
	TypeMap     Type = 'M'
	TypeList    Type = 'l'
)

var typeNames = map[Type]string{
	TypeNull:    "null",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeTime:    "time",
	TypeDevice:  "device",
	TypeSignal:  "signal",
	TypeMap:     "map",
	TypeList:    "list",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%#x)", byte(t))
}

// Valid reports whether t is one of the known element types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// IsNumeric is true for the integer, floating point and boolean types.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64, TypeBool:
		return true
	}
	return false
}

// IsHandle is true for the record handle types.
func (t Type) IsHandle() bool {
	return t == TypeDevice || t == TypeSignal || t == TypeMap
}

// ParseType looks a type up by its name ("int32", "float64", ...) or by
// its single character code.
func ParseType(s string) (Type, error) {
	if len(s) == 1 && Type(s[0]).Valid() {
		return Type(s[0]), nil
	}
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeNull, fmt.Errorf("unknown type %q: %w", s, ErrUnsupported)
}
