package value

import (
	"fmt"
	"math"
	"time"
)

// FromAny converts a host value into a Value. Accepted shapes are scalars and
// slices of the element types, Go int (as Int32 when every element fits,
// Int64 otherwise), time.Time, and homogeneous []any such as decoded YAML or
// JSON produces. Mixed integer and float slices become Float64.
func FromAny(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case int32:
		return Int32(v), nil
	case []int32:
		return nonEmpty(Int32(v...), len(v))
	case int64:
		return Int64(v), nil
	case []int64:
		return nonEmpty(Int64(v...), len(v))
	case int:
		return ints([]int{v}), nil
	case []int:
		if len(v) == 0 {
			return Value{}, ErrEmpty
		}
		return ints(v), nil
	case float32:
		return Float32(v), nil
	case []float32:
		return nonEmpty(Float32(v...), len(v))
	case float64:
		return Float64(v), nil
	case []float64:
		return nonEmpty(Float64(v...), len(v))
	case bool:
		return Bool(v), nil
	case []bool:
		return nonEmpty(Bool(v...), len(v))
	case string:
		return String(v), nil
	case []string:
		return nonEmpty(String(v...), len(v))
	case Time:
		return Times(v), nil
	case []Time:
		return nonEmpty(Times(v...), len(v))
	case time.Time:
		return Times(FromTime(v)), nil
	case []any:
		return fromSlice(v)
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, x)
}

func nonEmpty(v Value, n int) (Value, error) {
	if n == 0 {
		return Value{}, ErrEmpty
	}
	return v, nil
}

func ints(v []int) Value {
	fits := true
	for _, i := range v {
		if i < math.MinInt32 || i > math.MaxInt32 {
			fits = false
			break
		}
	}
	if fits {
		out := make([]int32, len(v))
		for i, x := range v {
			out[i] = int32(x)
		}
		return Int32(out...)
	}
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return Int64(out...)
}

func fromSlice(v []any) (Value, error) {
	if len(v) == 0 {
		return Value{}, ErrEmpty
	}
	var (
		intsOnly   = true
		floatsSeen bool
		is         []int
		fs         []float64
		bs         []bool
		ss         []string
	)
	for _, e := range v {
		switch x := e.(type) {
		case int:
			is = append(is, x)
			fs = append(fs, float64(x))
		case int32:
			is = append(is, int(x))
			fs = append(fs, float64(x))
		case int64:
			is = append(is, int(x))
			fs = append(fs, float64(x))
		case float32:
			intsOnly, floatsSeen = false, true
			fs = append(fs, float64(x))
		case float64:
			intsOnly, floatsSeen = false, true
			fs = append(fs, x)
		case bool:
			bs = append(bs, x)
		case string:
			ss = append(ss, x)
		default:
			return Value{}, fmt.Errorf("%w: []any element %T", ErrUnsupported, e)
		}
	}
	switch {
	case len(bs) == len(v):
		return Bool(bs...), nil
	case len(ss) == len(v):
		return String(ss...), nil
	case len(fs) == len(v) && intsOnly:
		return ints(is), nil
	case len(fs) == len(v) && floatsSeen:
		return Float64(fs...), nil
	}
	return Value{}, fmt.Errorf("%w: heterogeneous []any", ErrUnsupported)
}
