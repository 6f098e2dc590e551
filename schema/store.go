package schema

import (
	"fmt"
	"sort"
)

// MissingAnswerError reports a read of a path that has no value.
type MissingAnswerError struct {
	Path Path
}

func (e *MissingAnswerError) Error() string {
	return fmt.Sprintf("no answer at %q", e.Path.String())
}

// KindMismatchError reports a value whose tag does not match the kind the
// reader expected at that path.
type KindMismatchError struct {
	Path Path
	Want ValueKind
	Got  ValueKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("answer at %q is %s, want %s", e.Path.String(), e.Got, e.Want)
}

// Store is a flat mapping from Path to Value with unique keys. It is owned
// by whoever drives collection; the mapping engine only reads from it or
// derives prefix-filtered sub-stores.
//
// A Store is not safe for concurrent mutation. Concurrent reads are safe.
type Store struct {
	values map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Set records a value at the given path, replacing any previous value.
func (s *Store) Set(p Path, v Value) {
	s.values[p.String()] = v
}

// Get returns the value at the given path.
func (s *Store) Get(p Path) (Value, bool) {
	v, ok := s.values[p.String()]
	return v, ok
}

// Has reports whether a value exists at the given path.
func (s *Store) Has(p Path) bool {
	_, ok := s.values[p.String()]
	return ok
}

// Delete removes the value at the given path, if any.
func (s *Store) Delete(p Path) {
	delete(s.values, p.String())
}

// Len returns the number of stored values.
func (s *Store) Len() int { return len(s.values) }

// Paths returns every stored path, sorted by dotted form for determinism.
func (s *Store) Paths() []Path {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paths := make([]Path, len(keys))
	for i, k := range keys {
		paths[i] = ParsePath(k)
	}
	return paths
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	out := NewStore()
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Merge copies every entry of other into s, overwriting on key collision.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}
	for k, v := range other.values {
		s.values[k] = v
	}
}

// Filter returns a new store holding only the entries whose path starts with
// prefix, with that prefix stripped from every retained key. The receiver is
// not modified. Filtering by a child path and reading the result is how a
// nested shape reconstructs itself independently of its siblings.
func (s *Store) Filter(prefix Path) *Store {
	out := NewStore()
	for k, v := range s.values {
		p := ParsePath(k)
		if !p.HasPrefix(prefix) || p.Len() == prefix.Len() {
			continue
		}
		out.values[p.TrimPrefix(prefix).String()] = v
	}
	return out
}

// StringAt reads the string value at p.
func (s *Store) StringAt(p Path) (string, error) {
	v, err := s.at(p, ValueString)
	if err != nil {
		return "", err
	}
	out, _ := v.AsString()
	return out, nil
}

// IntAt reads the int value at p.
func (s *Store) IntAt(p Path) (int64, error) {
	v, err := s.at(p, ValueInt)
	if err != nil {
		return 0, err
	}
	out, _ := v.AsInt()
	return out, nil
}

// FloatAt reads the float value at p.
func (s *Store) FloatAt(p Path) (float64, error) {
	v, err := s.at(p, ValueFloat)
	if err != nil {
		return 0, err
	}
	out, _ := v.AsFloat()
	return out, nil
}

// BoolAt reads the bool value at p.
func (s *Store) BoolAt(p Path) (bool, error) {
	v, err := s.at(p, ValueBool)
	if err != nil {
		return false, err
	}
	out, _ := v.AsBool()
	return out, nil
}

// VariantAt reads the chosen-variant index at p.
func (s *Store) VariantAt(p Path) (int, error) {
	v, err := s.at(p, ValueVariant)
	if err != nil {
		return 0, err
	}
	out, _ := v.AsVariant()
	return out, nil
}

// VariantSetAt reads the chosen-variant index set at p, ascending.
func (s *Store) VariantSetAt(p Path) ([]int, error) {
	v, err := s.at(p, ValueVariantSet)
	if err != nil {
		return nil, err
	}
	out, _ := v.AsVariantSet()
	return out, nil
}

// StringListAt reads the string list at p.
func (s *Store) StringListAt(p Path) ([]string, error) {
	v, err := s.at(p, ValueStringList)
	if err != nil {
		return nil, err
	}
	out, _ := v.AsStringList()
	return out, nil
}

// IntListAt reads the int list at p.
func (s *Store) IntListAt(p Path) ([]int64, error) {
	v, err := s.at(p, ValueIntList)
	if err != nil {
		return nil, err
	}
	out, _ := v.AsIntList()
	return out, nil
}

// FloatListAt reads the float list at p.
func (s *Store) FloatListAt(p Path) ([]float64, error) {
	v, err := s.at(p, ValueFloatList)
	if err != nil {
		return nil, err
	}
	out, _ := v.AsFloatList()
	return out, nil
}

func (s *Store) at(p Path, want ValueKind) (Value, error) {
	v, ok := s.Get(p)
	if !ok {
		return Value{}, &MissingAnswerError{Path: p}
	}
	if v.Kind() != want {
		return Value{}, &KindMismatchError{Path: p, Want: want, Got: v.Kind()}
	}
	return v, nil
}
