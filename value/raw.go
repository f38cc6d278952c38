package value

import (
	"fmt"
	"slices"
)

// Raw is the boundary form of a Value exchanged with a transport. Booleans
// travel as Int32 0/1; time and handle ids travel as uint64.
type Raw struct {
	Type Type      `cbor:"t" yaml:"type"`
	Elem Type      `cbor:"e,omitempty" yaml:"elem,omitempty"`
	Len  int       `cbor:"n" yaml:"len"`
	I32  []int32   `cbor:"i,omitempty" yaml:"i32,omitempty"`
	I64  []int64   `cbor:"h,omitempty" yaml:"i64,omitempty"`
	F32  []float32 `cbor:"f,omitempty" yaml:"f32,omitempty"`
	F64  []float64 `cbor:"d,omitempty" yaml:"f64,omitempty"`
	Str  []string  `cbor:"s,omitempty" yaml:"str,omitempty"`
	U64  []uint64  `cbor:"u,omitempty" yaml:"u64,omitempty"`
}

// Encode converts v to its boundary form.
func Encode(v Value) Raw {
	r := Raw{Type: v.Type(), Elem: v.elem, Len: v.Len()}
	switch s := v.data.(type) {
	case []int32:
		r.I32 = slices.Clone(s)
	case []int64:
		r.I64 = slices.Clone(s)
	case []float32:
		r.F32 = slices.Clone(s)
	case []float64:
		r.F64 = slices.Clone(s)
	case []bool:
		r.I32 = make([]int32, len(s))
		for i, b := range s {
			if b {
				r.I32[i] = 1
			}
		}
	case []string:
		r.Str = slices.Clone(s)
	case []Time:
		r.U64 = make([]uint64, len(s))
		for i, t := range s {
			r.U64[i] = uint64(t)
		}
	case []uint64:
		r.U64 = slices.Clone(s)
		if v.typ == TypeList {
			r.Len = len(s)
		}
	}
	return r
}

// Decode converts a boundary value back into a Value. The declared length
// must match the payload; nothing is returned on mismatch.
func Decode(r Raw) (Value, error) {
	check := func(n int) error {
		if n != r.Len {
			return fmt.Errorf("%w: %s declares length %d, carries %d", ErrMalformed, r.Type, r.Len, n)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrEmpty, r.Type)
		}
		return nil
	}

	switch r.Type {
	case TypeNull:
		return Value{}, nil
	case TypeInt32:
		if err := check(len(r.I32)); err != nil {
			return Value{}, err
		}
		return Int32(r.I32...), nil
	case TypeInt64:
		if err := check(len(r.I64)); err != nil {
			return Value{}, err
		}
		return Int64(r.I64...), nil
	case TypeFloat32:
		if err := check(len(r.F32)); err != nil {
			return Value{}, err
		}
		return Float32(r.F32...), nil
	case TypeFloat64:
		if err := check(len(r.F64)); err != nil {
			return Value{}, err
		}
		return Float64(r.F64...), nil
	case TypeBool:
		if err := check(len(r.I32)); err != nil {
			return Value{}, err
		}
		b := make([]bool, len(r.I32))
		for i, x := range r.I32 {
			b[i] = x != 0
		}
		return Bool(b...), nil
	case TypeString:
		if err := check(len(r.Str)); err != nil {
			return Value{}, err
		}
		return String(r.Str...), nil
	case TypeTime:
		if err := check(len(r.U64)); err != nil {
			return Value{}, err
		}
		t := make([]Time, len(r.U64))
		for i, x := range r.U64 {
			t[i] = Time(x)
		}
		return Times(t...), nil
	case TypeDevice, TypeSignal, TypeMap:
		if err := check(len(r.U64)); err != nil {
			return Value{}, err
		}
		return Handle(r.Type, r.U64...), nil
	case TypeList:
		if !r.Elem.IsHandle() {
			return Value{}, fmt.Errorf("%w: list of %s", ErrMalformed, r.Elem)
		}
		if len(r.U64) != r.Len {
			return Value{}, fmt.Errorf("%w: list declares %d members, carries %d", ErrMalformed, r.Len, len(r.U64))
		}
		return List(r.Elem, r.U64...), nil
	}
	return Value{}, fmt.Errorf("%w: unknown type %s", ErrMalformed, r.Type)
}
