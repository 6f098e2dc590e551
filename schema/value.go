package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ValueKind tags the concrete shape held by a Value.
type ValueKind int

const (
	ValueInvalid ValueKind = iota
	ValueString
	ValueInt
	ValueFloat
	ValueBool
	ValueVariant
	ValueVariantSet
	ValueStringList
	ValueIntList
	ValueFloatList
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueBool:
		return "bool"
	case ValueVariant:
		return "variant"
	case ValueVariantSet:
		return "variant_set"
	case ValueStringList:
		return "string_list"
	case ValueIntList:
		return "int_list"
	case ValueFloatList:
		return "float_list"
	default:
		return "invalid"
	}
}

// Value holds one concrete answer. It is a closed tagged union: exactly one
// of the payload slots is meaningful, selected by the kind tag. The zero
// Value has kind ValueInvalid and is never a legal answer.
type Value struct {
	kind ValueKind

	str  string
	num  int64
	fnum float64
	b    bool

	set   []int
	strs  []string
	nums  []int64
	fnums []float64
}

// NewString returns a string-tagged value.
func NewString(v string) Value { return Value{kind: ValueString, str: v} }

// NewInt returns an int-tagged value.
func NewInt(v int64) Value { return Value{kind: ValueInt, num: v} }

// NewFloat returns a float-tagged value.
func NewFloat(v float64) Value { return Value{kind: ValueFloat, fnum: v} }

// NewBool returns a bool-tagged value.
func NewBool(v bool) Value { return Value{kind: ValueBool, b: v} }

// NewVariant returns a chosen-variant value holding a single variant index.
func NewVariant(index int) Value { return Value{kind: ValueVariant, num: int64(index)} }

// NewVariantSet returns a chosen-variants value. The index set is
// deduplicated and normalized to ascending order; insertion order carries no
// meaning.
func NewVariantSet(indexes ...int) Value {
	set := append([]int(nil), indexes...)
	sort.Ints(set)
	dedup := set[:0]
	for i, idx := range set {
		if i == 0 || idx != set[i-1] {
			dedup = append(dedup, idx)
		}
	}
	return Value{kind: ValueVariantSet, set: dedup}
}

// NewStringList returns an ordered list of strings.
func NewStringList(vs ...string) Value {
	return Value{kind: ValueStringList, strs: append([]string(nil), vs...)}
}

// NewIntList returns an ordered list of ints.
func NewIntList(vs ...int64) Value {
	return Value{kind: ValueIntList, nums: append([]int64(nil), vs...)}
}

// NewFloatList returns an ordered list of floats.
func NewFloatList(vs ...float64) Value {
	return Value{kind: ValueFloatList, fnums: append([]float64(nil), vs...)}
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether the value is the invalid zero value.
func (v Value) IsZero() bool { return v.kind == ValueInvalid }

// AsString returns the string payload if the tag matches.
func (v Value) AsString() (string, bool) { return v.str, v.kind == ValueString }

// AsInt returns the int payload if the tag matches.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == ValueInt }

// AsFloat returns the float payload if the tag matches.
func (v Value) AsFloat() (float64, bool) { return v.fnum, v.kind == ValueFloat }

// AsBool returns the bool payload if the tag matches.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == ValueBool }

// AsVariant returns the chosen variant index if the tag matches.
func (v Value) AsVariant() (int, bool) { return int(v.num), v.kind == ValueVariant }

// AsVariantSet returns the chosen variant indexes in ascending order if the
// tag matches. The returned slice is a copy.
func (v Value) AsVariantSet() ([]int, bool) {
	if v.kind != ValueVariantSet {
		return nil, false
	}
	return append([]int(nil), v.set...), true
}

// AsStringList returns a copy of the string list payload if the tag matches.
func (v Value) AsStringList() ([]string, bool) {
	if v.kind != ValueStringList {
		return nil, false
	}
	return append([]string(nil), v.strs...), true
}

// AsIntList returns a copy of the int list payload if the tag matches.
func (v Value) AsIntList() ([]int64, bool) {
	if v.kind != ValueIntList {
		return nil, false
	}
	return append([]int64(nil), v.nums...), true
}

// AsFloatList returns a copy of the float list payload if the tag matches.
func (v Value) AsFloatList() ([]float64, bool) {
	if v.kind != ValueFloatList {
		return nil, false
	}
	return append([]float64(nil), v.fnums...), true
}

// Equal reports whether both values carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueInt, ValueVariant:
		return v.num == o.num
	case ValueFloat:
		return v.fnum == o.fnum
	case ValueBool:
		return v.b == o.b
	case ValueVariantSet:
		return equalSlices(v.set, o.set)
	case ValueStringList:
		return equalSlices(v.strs, o.strs)
	case ValueIntList:
		return equalSlices(v.nums, o.nums)
	case ValueFloatList:
		return equalSlices(v.fnums, o.fnums)
	default:
		return true
	}
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders a debug form of the value.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return fmt.Sprintf("%q", v.str)
	case ValueInt:
		return fmt.Sprintf("%d", v.num)
	case ValueFloat:
		return fmt.Sprintf("%g", v.fnum)
	case ValueBool:
		return fmt.Sprintf("%t", v.b)
	case ValueVariant:
		return fmt.Sprintf("variant(%d)", v.num)
	case ValueVariantSet:
		parts := make([]string, len(v.set))
		for i, idx := range v.set {
			parts[i] = fmt.Sprintf("%d", idx)
		}
		return "variants(" + strings.Join(parts, ",") + ")"
	case ValueStringList:
		return fmt.Sprintf("%q", v.strs)
	case ValueIntList:
		return fmt.Sprintf("%v", v.nums)
	case ValueFloatList:
		return fmt.Sprintf("%v", v.fnums)
	default:
		return "<invalid>"
	}
}
