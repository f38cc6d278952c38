package value_test

import (
	"testing"
	"time"

	"github.com/delaneyj/mappergraph/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarAndArrayShapes(t *testing.T) {
	s := value.Int32(7)
	assert.Equal(t, value.TypeInt32, s.Type())
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.IsArray())
	i, ok := s.Int32()
	require.True(t, ok)
	assert.Equal(t, int32(7), i)

	a := value.Int32(1, 2, 3)
	assert.True(t, a.IsArray())
	got, ok := a.Int32s()
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2, 3}, got)

	_, ok = a.Float64s()
	assert.False(t, ok)
}

func TestAccessorsCopy(t *testing.T) {
	src := []float64{1.5, 2.5}
	v := value.Float64(src...)
	src[0] = 99

	got, _ := v.Float64s()
	assert.Equal(t, []float64{1.5, 2.5}, got)

	got[1] = 42
	again, _ := v.Float64s()
	assert.Equal(t, []float64{1.5, 2.5}, again)
}

func TestGenericOfAndGet(t *testing.T) {
	v := value.Of(true, false, true)
	assert.Equal(t, value.TypeBool, v.Type())
	b, ok := value.Get[bool](v)
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true}, b)

	_, ok = value.Get[string](v)
	assert.False(t, ok)

	s := value.Of("a", "b")
	assert.Equal(t, value.String("a", "b"), s)
}

func TestEmptyIsNull(t *testing.T) {
	assert.True(t, value.Int64().IsNull())
	assert.Equal(t, value.TypeNull, value.Value{}.Type())
	assert.Equal(t, 0, value.Value{}.Len())
}

func TestHandlesAndLists(t *testing.T) {
	h := value.Handle(value.TypeDevice, 0xabc)
	id, ok := h.ID()
	require.True(t, ok)
	assert.Equal(t, uint64(0xabc), id)

	l := value.List(value.TypeSignal, 1, 2, 3)
	assert.Equal(t, value.TypeList, l.Type())
	assert.Equal(t, value.TypeSignal, l.Elem())
	assert.Equal(t, 1, l.Len())
	ids, ok := l.IDs()
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	empty := value.List(value.TypeMap)
	assert.Equal(t, value.TypeList, empty.Type())

	assert.True(t, value.Handle(value.TypeInt32, 1).IsNull())
}

func TestCoercions(t *testing.T) {
	f, ok := value.Int32(3).AsFloat64()
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	i, ok := value.Float64(2.9).AsInt32()
	require.True(t, ok)
	assert.Equal(t, int32(2), i)

	i64, ok := value.Bool(true).AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), i64)

	_, ok = value.String("x").AsFloat64()
	assert.False(t, ok)

	assert.Equal(t, "x", value.String("x").AsString())
	assert.Equal(t, "[1, 2]", value.Int64(1, 2).AsString())
}

func TestEqualAndCompare(t *testing.T) {
	assert.True(t, value.Int32(1, 2).Equal(value.Int32(1, 2)))
	assert.False(t, value.Int32(1, 2).Equal(value.Int64(1, 2)))
	assert.False(t, value.Int32(1, 2).Equal(value.Int32(1)))
	assert.True(t, value.Value{}.Equal(value.Value{}))

	c, ok := value.Float32(1).Compare(value.Float32(2))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = value.Float32(1).Compare(value.Float64(2))
	assert.False(t, ok)
}

func TestTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	tt := value.FromTime(now)
	assert.Equal(t, uint32(0x80000000), tt.Frac())
	assert.WithinDuration(t, now, tt.Time(), time.Microsecond)

	later := tt.Add(1.25)
	assert.InDelta(t, 1.25, later.Sub(tt), 1e-9)
	assert.InDelta(t, -1.25, tt.Sub(later), 1e-9)

	assert.True(t, value.FromTime(time.Time{}).IsZero())
}

func TestParseType(t *testing.T) {
	typ, err := value.ParseType("float64")
	require.NoError(t, err)
	assert.Equal(t, value.TypeFloat64, typ)

	typ, err = value.ParseType("i")
	require.NoError(t, err)
	assert.Equal(t, value.TypeInt32, typ)

	_, err = value.ParseType("complex")
	assert.ErrorIs(t, err, value.ErrUnsupported)
}
