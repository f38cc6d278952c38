// Package value holds the closed set of property values a graph record can
// carry. A Value is immutable: constructors and accessors copy their slices.
package value

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrUnsupported = errors.New("unsupported value")
	ErrMalformed   = errors.New("malformed value")
	ErrEmpty       = errors.New("empty value")
)

// Value is a scalar or fixed-length homogeneous array of one element Type.
// A length-one array and a scalar are the same Value.
type Value struct {
	typ  Type
	elem Type
	data any // one of []int32 []int64 []float32 []float64 []bool []string []Time []uint64
}

// Elem is the set of host element types with a direct Value representation.
type Elem interface {
	int32 | int64 | float32 | float64 | bool | string | Time
}

func Int32(v ...int32) Value     { return build(TypeInt32, v) }
func Int64(v ...int64) Value     { return build(TypeInt64, v) }
func Float32(v ...float32) Value { return build(TypeFloat32, v) }
func Float64(v ...float64) Value { return build(TypeFloat64, v) }
func Bool(v ...bool) Value       { return build(TypeBool, v) }
func String(v ...string) Value   { return build(TypeString, v) }
func Times(v ...Time) Value      { return build(TypeTime, v) }

// Handle builds a Device, Signal or Map handle value from record ids.
func Handle(t Type, ids ...uint64) Value {
	if !t.IsHandle() {
		return Value{}
	}
	return build(t, ids)
}

// List builds a single list-of-handles value whose members are records of
// handle type elem.
func List(elem Type, ids ...uint64) Value {
	if !elem.IsHandle() {
		return Value{}
	}
	members := slices.Clone(ids)
	if members == nil {
		members = []uint64{}
	}
	return Value{typ: TypeList, elem: elem, data: members}
}

func build[T any](t Type, v []T) Value {
	if len(v) == 0 {
		return Value{}
	}
	return Value{typ: t, data: slices.Clone(v)}
}

// Of builds a Value from any member of the closed element set.
func Of[T Elem](v ...T) Value {
	switch x := any(v).(type) {
	case []int32:
		return Int32(x...)
	case []int64:
		return Int64(x...)
	case []float32:
		return Float32(x...)
	case []float64:
		return Float64(x...)
	case []bool:
		return Bool(x...)
	case []string:
		return String(x...)
	case []Time:
		return Times(x...)
	}
	return Value{}
}

// Get returns a copy of the elements of v if they are of type T.
func Get[T Elem](v Value) ([]T, bool) {
	s, ok := v.data.([]T)
	if !ok || v.typ == TypeList {
		return nil, false
	}
	return slices.Clone(s), true
}

func scalar[T Elem](v Value) (T, bool) {
	var zero T
	s, ok := v.data.([]T)
	if !ok || len(s) == 0 {
		return zero, false
	}
	return s[0], true
}

func (v Value) Type() Type {
	if v.data == nil {
		return TypeNull
	}
	return v.typ
}

// Elem is the member handle type of a list value.
func (v Value) Elem() Type { return v.elem }

// Len is the element count; a list value has length one.
func (v Value) Len() int {
	switch v.typ {
	case TypeNull:
		return 0
	case TypeList:
		return 1
	}
	return length(v.data)
}

func (v Value) IsNull() bool  { return v.Type() == TypeNull }
func (v Value) IsArray() bool { return v.Len() > 1 }

func length(data any) int {
	switch s := data.(type) {
	case []int32:
		return len(s)
	case []int64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []bool:
		return len(s)
	case []string:
		return len(s)
	case []Time:
		return len(s)
	case []uint64:
		return len(s)
	}
	return 0
}

func (v Value) Int32() (int32, bool)     { return scalar[int32](v) }
func (v Value) Int64() (int64, bool)     { return scalar[int64](v) }
func (v Value) Float32() (float32, bool) { return scalar[float32](v) }
func (v Value) Float64() (float64, bool) { return scalar[float64](v) }
func (v Value) Bool() (bool, bool)       { return scalar[bool](v) }
func (v Value) String() string           { return v.format() }
func (v Value) Time() (Time, bool)       { return scalar[Time](v) }

func (v Value) Int32s() ([]int32, bool)     { return Get[int32](v) }
func (v Value) Int64s() ([]int64, bool)     { return Get[int64](v) }
func (v Value) Float32s() ([]float32, bool) { return Get[float32](v) }
func (v Value) Float64s() ([]float64, bool) { return Get[float64](v) }
func (v Value) Bools() ([]bool, bool)       { return Get[bool](v) }
func (v Value) Strings() ([]string, bool)   { return Get[string](v) }
func (v Value) Times() ([]Time, bool)       { return Get[Time](v) }

// Str returns the string of a scalar string value.
func (v Value) Str() (string, bool) {
	if v.typ != TypeString || v.Len() != 1 {
		return "", false
	}
	return scalar[string](v)
}

// ID returns the first record id of a handle value.
func (v Value) ID() (uint64, bool) {
	if !v.typ.IsHandle() {
		return 0, false
	}
	s := v.data.([]uint64)
	return s[0], true
}

// IDs returns the record ids of a handle or list value.
func (v Value) IDs() ([]uint64, bool) {
	if !v.typ.IsHandle() && v.typ != TypeList {
		return nil, false
	}
	return slices.Clone(v.data.([]uint64)), true
}

// AsInt64 coerces the first element of a numeric or time value.
func (v Value) AsInt64() (int64, bool) {
	switch s := v.data.(type) {
	case []int32:
		return int64(s[0]), true
	case []int64:
		return s[0], true
	case []float32:
		return int64(s[0]), true
	case []float64:
		return int64(s[0]), true
	case []bool:
		if s[0] {
			return 1, true
		}
		return 0, true
	case []Time:
		return int64(s[0].Sec()), true
	}
	return 0, false
}

func (v Value) AsInt32() (int32, bool) {
	i, ok := v.AsInt64()
	return int32(i), ok
}

// AsFloat64 coerces the first element of a numeric or time value.
func (v Value) AsFloat64() (float64, bool) {
	switch s := v.data.(type) {
	case []int32:
		return float64(s[0]), true
	case []int64:
		return float64(s[0]), true
	case []float32:
		return float64(s[0]), true
	case []float64:
		return s[0], true
	case []bool:
		if s[0] {
			return 1, true
		}
		return 0, true
	case []Time:
		return s[0].Float64(), true
	}
	return 0, false
}

func (v Value) AsFloat32() (float32, bool) {
	f, ok := v.AsFloat64()
	return float32(f), ok
}

// AsString is the string of a scalar string value, or the formatted value
// for everything else.
func (v Value) AsString() string {
	if s, ok := v.Str(); ok {
		return s
	}
	return v.format()
}

// Equal compares type, length and elements.
func (v Value) Equal(o Value) bool {
	if v.Type() != o.Type() || v.elem != o.elem {
		return false
	}
	switch a := v.data.(type) {
	case nil:
		return true
	case []int32:
		return slices.Equal(a, o.data.([]int32))
	case []int64:
		return slices.Equal(a, o.data.([]int64))
	case []float32:
		return slices.Equal(a, o.data.([]float32))
	case []float64:
		return slices.Equal(a, o.data.([]float64))
	case []bool:
		return slices.Equal(a, o.data.([]bool))
	case []string:
		return slices.Equal(a, o.data.([]string))
	case []Time:
		return slices.Equal(a, o.data.([]Time))
	case []uint64:
		return slices.Equal(a, o.data.([]uint64))
	}
	return false
}

// Compare orders two values of the same type and length element by element.
// ok is false when they cannot be compared.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.Type() != o.Type() || v.Len() != o.Len() || v.typ == TypeList {
		return 0, false
	}
	switch a := v.data.(type) {
	case []int32:
		return slices.Compare(a, o.data.([]int32)), true
	case []int64:
		return slices.Compare(a, o.data.([]int64)), true
	case []float32:
		return slices.Compare(a, o.data.([]float32)), true
	case []float64:
		return slices.Compare(a, o.data.([]float64)), true
	case []bool:
		return slices.CompareFunc(a, o.data.([]bool), func(x, y bool) int {
			switch {
			case x == y:
				return 0
			case y:
				return -1
			}
			return 1
		}), true
	case []string:
		return slices.Compare(a, o.data.([]string)), true
	case []Time:
		return slices.Compare(a, o.data.([]Time)), true
	case []uint64:
		return slices.Compare(a, o.data.([]uint64)), true
	}
	return 0, false
}

func (v Value) format() string {
	var parts []string
	switch s := v.data.(type) {
	case nil:
		return "null"
	case []int32:
		for _, x := range s {
			parts = append(parts, strconv.FormatInt(int64(x), 10))
		}
	case []int64:
		for _, x := range s {
			parts = append(parts, strconv.FormatInt(x, 10))
		}
	case []float32:
		for _, x := range s {
			parts = append(parts, strconv.FormatFloat(float64(x), 'g', -1, 32))
		}
	case []float64:
		for _, x := range s {
			parts = append(parts, strconv.FormatFloat(x, 'g', -1, 64))
		}
	case []bool:
		for _, x := range s {
			parts = append(parts, strconv.FormatBool(x))
		}
	case []string:
		for _, x := range s {
			parts = append(parts, strconv.Quote(x))
		}
	case []Time:
		for _, x := range s {
			parts = append(parts, x.String())
		}
	case []uint64:
		for _, x := range s {
			parts = append(parts, fmt.Sprintf("%s:%#x", v.handleType(), x))
		}
		if v.typ == TypeList {
			return "{" + strings.Join(parts, ", ") + "}"
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v Value) handleType() Type {
	if v.typ == TypeList {
		return v.elem
	}
	return v.typ
}
