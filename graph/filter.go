package graph

import (
	"cmp"
	"fmt"

	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
)

// Op is a property comparison used by List.Filter.
type Op uint8

const (
	OpExists Op = iota
	OpNotExists
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var opNames = map[Op]string{
	OpExists:       "exists",
	OpNotExists:    "!exists",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

func ParseOp(s string) (Op, error) {
	for op, name := range opNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown filter op %q", s)
}

type filter struct {
	key object.Key
	val value.Value
	op  Op
}

func (f filter) match(rec *object.Record) bool {
	got, ok := rec.Get(f.key)
	switch f.op {
	case OpExists:
		return ok
	case OpNotExists:
		return !ok
	}
	if !ok {
		return f.op == OpNotEqual
	}
	c, ok := compare(got, f.val)
	if !ok {
		return f.op == OpNotEqual
	}
	switch f.op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	}
	return false
}

// compare orders values of the same type, and numeric scalars of
// different types by their float64 value.
func compare(a, b value.Value) (int, bool) {
	if c, ok := a.Compare(b); ok {
		return c, true
	}
	if a.Len() != 1 || b.Len() != 1 || !a.Type().IsNumeric() || !b.Type().IsNumeric() {
		return 0, false
	}
	x, _ := a.AsFloat64()
	y, _ := b.AsFloat64()
	return cmp.Compare(x, y), true
}
