package schema

import (
	"errors"
	"testing"
)

func TestStoreTypedAccessors(t *testing.T) {
	s := NewStore()
	s.Set(NewPath("name"), NewString("Alice"))
	s.Set(NewPath("age"), NewInt(30))

	name, err := s.StringAt(NewPath("name"))
	if err != nil || name != "Alice" {
		t.Fatalf("StringAt = %q, %v", name, err)
	}

	_, err = s.StringAt(NewPath("age"))
	var mismatch *KindMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected KindMismatchError, got %v", err)
	}
	if mismatch.Want != ValueString || mismatch.Got != ValueInt {
		t.Fatalf("mismatch = want %v got %v", mismatch.Want, mismatch.Got)
	}

	_, err = s.IntAt(NewPath("missing"))
	var missing *MissingAnswerError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAnswerError, got %v", err)
	}
	if missing.Path.String() != "missing" {
		t.Fatalf("missing path = %q", missing.Path.String())
	}
}

func TestStoreSetReplaces(t *testing.T) {
	s := NewStore()
	p := NewPath("name")
	s.Set(p, NewString("a"))
	s.Set(p, NewString("b"))
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
	v, _ := s.StringAt(p)
	if v != "b" {
		t.Fatalf("value = %q", v)
	}
}

func TestStoreFilterPrefixIsolation(t *testing.T) {
	s := NewStore()
	s.Set(ParsePath("address.street"), NewString("Main"))
	s.Set(ParsePath("address.city"), NewString("Reno"))
	s.Set(ParsePath("name"), NewString("Alice"))
	s.Set(ParsePath("addressBook"), NewString("unrelated"))

	sub := s.Filter(NewPath("address"))
	if sub.Len() != 2 {
		t.Fatalf("filtered store has %d entries", sub.Len())
	}
	city, err := sub.StringAt(NewPath("city"))
	if err != nil || city != "Reno" {
		t.Fatalf("city = %q, %v", city, err)
	}
	if sub.Has(NewPath("name")) || sub.Has(NewPath("addressBook")) {
		t.Fatal("sibling entries leaked through the filter")
	}

	// The original is untouched.
	if s.Len() != 4 {
		t.Fatalf("original store has %d entries", s.Len())
	}
}

func TestStoreFilterExcludesExactPrefixMatch(t *testing.T) {
	s := NewStore()
	s.Set(NewPath("address"), NewString("whole"))
	s.Set(ParsePath("address.city"), NewString("Reno"))

	sub := s.Filter(NewPath("address"))
	if sub.Len() != 1 {
		t.Fatalf("filtered store has %d entries", sub.Len())
	}
	if sub.Has(NewPath()) {
		t.Fatal("exact prefix match produced a root key")
	}
}

func TestStoreCloneAndMerge(t *testing.T) {
	a := NewStore()
	a.Set(NewPath("x"), NewInt(1))

	b := a.Clone()
	b.Set(NewPath("x"), NewInt(2))
	b.Set(NewPath("y"), NewInt(3))

	if v, _ := a.IntAt(NewPath("x")); v != 1 {
		t.Fatalf("clone mutated the original: %d", v)
	}

	a.Merge(b)
	if v, _ := a.IntAt(NewPath("x")); v != 2 {
		t.Fatalf("merge did not overwrite: %d", v)
	}
	if v, _ := a.IntAt(NewPath("y")); v != 3 {
		t.Fatalf("merge did not copy: %d", v)
	}
}

func TestStorePathsSorted(t *testing.T) {
	s := NewStore()
	s.Set(NewPath("b"), NewInt(1))
	s.Set(NewPath("a"), NewInt(2))
	s.Set(ParsePath("a.x"), NewInt(3))

	paths := s.Paths()
	want := []string{"a", "a.x", "b"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths", len(paths))
	}
	for i, p := range paths {
		if p.String() != want[i] {
			t.Fatalf("paths[%d] = %q, want %q", i, p.String(), want[i])
		}
	}
}
