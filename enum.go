package wizard

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Variant declares one alternative of a closed variant set. Proto is a
// prototype value implementing the set's interface type: an empty struct for
// a data-free alternative, a struct whose fields become the alternative's
// question group, or a bare primitive that becomes a single positional
// question.
type Variant struct {
	Name  string
	Proto any
}

type enumInfo struct {
	iface    reflect.Type
	variants []Variant
	protos   []reflect.Type // dynamic types of the prototypes
}

// enumRegistry is process-wide read-only state keyed by interface type.
// Entries are written once during RegisterEnum and only read afterwards.
var enumRegistry sync.Map // reflect.Type -> *enumInfo

// RegisterEnum declares the closed variant set behind interface type E.
// Variant order is significant: it fixes the indexes used for selections in
// answer stores. Registration happens once per process, typically from an
// init function, and panics on misuse: E not an interface, duplicate
// registration, empty or dotted variant names, or a prototype that does not
// implement E.
func RegisterEnum[E any](variants ...Variant) {
	et := reflect.TypeOf((*E)(nil)).Elem()
	if et.Kind() != reflect.Interface {
		panic(fmt.Sprintf("wizard: RegisterEnum type %s is not an interface", et))
	}
	if len(variants) == 0 {
		panic(fmt.Sprintf("wizard: RegisterEnum %s: no variants", et))
	}

	info := &enumInfo{
		iface:    et,
		variants: append([]Variant(nil), variants...),
		protos:   make([]reflect.Type, len(variants)),
	}
	seen := make(map[string]struct{}, len(variants))
	for i, v := range variants {
		if v.Name == "" {
			panic(fmt.Sprintf("wizard: RegisterEnum %s: variant %d has empty name", et, i))
		}
		if strings.Contains(v.Name, ".") {
			// Dotted names would be ambiguous against structural nesting in
			// flat path keys.
			panic(fmt.Sprintf("wizard: RegisterEnum %s: variant %q: name must not contain '.'", et, v.Name))
		}
		if _, dup := seen[v.Name]; dup {
			panic(fmt.Sprintf("wizard: RegisterEnum %s: duplicate variant %q", et, v.Name))
		}
		seen[v.Name] = struct{}{}
		if v.Proto == nil {
			panic(fmt.Sprintf("wizard: RegisterEnum %s: variant %q has nil prototype", et, v.Name))
		}
		pt := reflect.TypeOf(v.Proto)
		if !pt.Implements(et) {
			panic(fmt.Sprintf("wizard: RegisterEnum %s: prototype %s does not implement the interface", et, pt))
		}
		info.protos[i] = pt
	}

	if _, loaded := enumRegistry.LoadOrStore(et, info); loaded {
		panic(fmt.Sprintf("wizard: RegisterEnum %s: already registered", et))
	}
}

func enumFor(rt reflect.Type) (*enumInfo, bool) {
	v, ok := enumRegistry.Load(rt)
	if !ok {
		return nil, false
	}
	return v.(*enumInfo), true
}

// payloadType returns the variant's payload type with any pointer wrapper
// removed.
func (ei *enumInfo) payloadType(i int) reflect.Type {
	pt := ei.protos[i]
	if pt.Kind() == reflect.Pointer {
		pt = pt.Elem()
	}
	return pt
}

// isUnit reports whether variant i carries no data.
func (ei *enumInfo) isUnit(i int) bool {
	pt := ei.payloadType(i)
	return pt.Kind() == reflect.Struct && pt.NumField() == 0
}

// allUnit reports whether every variant carries no data. Multi-selections
// require this: element reconstruction only sees the selection index.
func (ei *enumInfo) allUnit() bool {
	for i := range ei.variants {
		if !ei.isUnit(i) {
			return false
		}
	}
	return true
}

// indexOf maps a concrete value's dynamic type back to its variant index.
func (ei *enumInfo) indexOf(dynamic reflect.Type) (int, bool) {
	for i, pt := range ei.protos {
		if pt == dynamic {
			return i, true
		}
	}
	return 0, false
}
