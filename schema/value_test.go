package schema

import "testing"

func TestValueTagging(t *testing.T) {
	v := NewInt(42)
	if v.Kind() != ValueInt {
		t.Fatalf("kind = %v", v.Kind())
	}
	if n, ok := v.AsInt(); !ok || n != 42 {
		t.Fatalf("AsInt = %d, %t", n, ok)
	}
	if _, ok := v.AsString(); ok {
		t.Fatal("AsString succeeded on an int value")
	}
	if _, ok := v.AsFloat(); ok {
		t.Fatal("AsFloat succeeded on an int value; no implicit numeric conversion")
	}
}

func TestValueZeroIsInvalid(t *testing.T) {
	var v Value
	if !v.IsZero() || v.Kind() != ValueInvalid {
		t.Fatalf("zero value kind = %v", v.Kind())
	}
}

func TestVariantSetNormalization(t *testing.T) {
	v := NewVariantSet(2, 0, 2, 1, 0)
	got, ok := v.AsVariantSet()
	if !ok {
		t.Fatal("AsVariantSet failed")
	}
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("set = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("set = %v, want %v", got, want)
		}
	}
}

func TestVariantAndVariantSetAreDistinct(t *testing.T) {
	single := NewVariant(1)
	set := NewVariantSet(1)
	if _, ok := single.AsVariantSet(); ok {
		t.Fatal("variant readable as variant set")
	}
	if _, ok := set.AsVariant(); ok {
		t.Fatal("variant set readable as single variant")
	}
	if single.Equal(set) {
		t.Fatal("variant and variant set compared equal")
	}
}

func TestListAccessorsCopy(t *testing.T) {
	v := NewStringList("a", "b")
	got, _ := v.AsStringList()
	got[0] = "mutated"
	again, _ := v.AsStringList()
	if again[0] != "a" {
		t.Fatal("AsStringList leaked internal storage")
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{NewString("x"), NewString("x"), true},
		{NewString("x"), NewString("y"), false},
		{NewInt(1), NewVariant(1), false},
		{NewVariantSet(0, 2), NewVariantSet(2, 0), true},
		{NewIntList(1, 2), NewIntList(2, 1), false},
		{NewFloatList(1.5), NewFloatList(1.5), true},
	}
	for i, tc := range cases {
		if got := tc.a.Equal(tc.b); got != tc.want {
			t.Fatalf("case %d: Equal(%v, %v) = %t, want %t", i, tc.a, tc.b, got, tc.want)
		}
	}
}
