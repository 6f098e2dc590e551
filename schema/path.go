package schema

import "strings"

// Reserved path segments used when a question tree encodes a closed variant
// set. The discriminant of a variant field lives at
// "<field>.selected_alternative" and the payload questions of variant N live
// under "<field>.alternatives.N".
const (
	SelectedAlternative = "selected_alternative"
	Alternatives        = "alternatives"

	// PositionalField names the single payload of a variant whose prototype
	// is a bare primitive rather than a struct.
	PositionalField = "field_0"
)

// Path identifies one logical question/value location inside a (possibly
// nested) shape. A Path is immutable once constructed; all methods that
// produce a different path return a fresh value backed by its own storage.
//
// The zero Path is the root path (no segments).
type Path struct {
	segs []string
}

// NewPath builds a path from the given segments.
func NewPath(segments ...string) Path {
	if len(segments) == 0 {
		return Path{}
	}
	return Path{segs: append([]string(nil), segments...)}
}

// ParsePath builds a path from its dotted string form. An empty string
// parses to the root path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{segs: strings.Split(s, ".")}
}

// Child returns the path extended by one segment.
func (p Path) Child(segment string) Path {
	segs := make([]string, len(p.segs)+1)
	copy(segs, p.segs)
	segs[len(p.segs)] = segment
	return Path{segs: segs}
}

// Join returns the path extended by every segment of suffix.
func (p Path) Join(suffix Path) Path {
	if len(suffix.segs) == 0 {
		return p
	}
	segs := make([]string, 0, len(p.segs)+len(suffix.segs))
	segs = append(segs, p.segs...)
	segs = append(segs, suffix.segs...)
	return Path{segs: segs}
}

// Segments returns a copy of the segment list.
func (p Path) Segments() []string {
	return append([]string(nil), p.segs...)
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segs) == 0 }

// Base returns the last segment, or "" for the root path.
func (p Path) Base() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[len(p.segs)-1]
}

// String returns the canonical dotted form.
func (p Path) String() string { return strings.Join(p.segs, ".") }

// Equal reports whether both paths have identical segment sequences.
func (p Path) Equal(o Path) bool {
	if len(p.segs) != len(o.segs) {
		return false
	}
	for i := range p.segs {
		if p.segs[i] != o.segs[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix's segments are an ordered prefix of p's.
// Every path has the root path as a prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segs) > len(p.segs) {
		return false
	}
	for i := range prefix.segs {
		if p.segs[i] != prefix.segs[i] {
			return false
		}
	}
	return true
}

// TrimPrefix returns the path with prefix removed. If prefix is not a prefix
// of p, p is returned unchanged.
func (p Path) TrimPrefix(prefix Path) Path {
	if !p.HasPrefix(prefix) {
		return p
	}
	rest := p.segs[len(prefix.segs):]
	if len(rest) == 0 {
		return Path{}
	}
	return Path{segs: append([]string(nil), rest...)}
}
