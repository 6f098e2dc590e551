package wizard

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/ggoodman/wizard-go/schema"
)

// Builder configures one collection run for shape type T: which answers are
// suggested (pre-filled but presented) and which are assumed (injected and
// skipped). Configuration calls chain; the first error sticks and is reported
// by Run or Err.
//
// A Builder is single-use state for one run and is not safe for concurrent
// use. The derived schema it configures is.
type Builder[T any] struct {
	c         *compiled
	base      *schema.Schema
	suggested map[string]schema.Value
	assumed   map[string]schema.Value
	err       error
}

// NewBuilder prepares a collection run for shape type T. Authoring errors in
// T surface from Run (or Err), not here, so construction can chain directly
// into configuration.
func NewBuilder[T any]() *Builder[T] {
	b := &Builder[T]{
		suggested: make(map[string]schema.Value),
		assumed:   make(map[string]schema.Value),
	}
	rt := reflect.TypeOf((*T)(nil)).Elem()
	c, err := compile(rt, nil)
	if err != nil {
		b.err = err
		return b
	}
	b.c = c
	b.base = c.newSchema()
	return b
}

// Err returns the first configuration or derivation error, if any.
func (b *Builder[T]) Err() error { return b.err }

// Suggest pre-fills the question at the dotted path with a value that the
// collector still presents for confirmation or editing. For a one-of group,
// value is the variant index to preselect. Accepts schema.Value or a plain Go
// value matching the question's kind.
func (b *Builder[T]) Suggest(path string, value any) *Builder[T] {
	if b.err != nil {
		return b
	}
	p := schema.ParsePath(path)
	v, err := b.coerce(p, value)
	if err != nil {
		b.err = err
		return b
	}
	b.suggested[p.String()] = v
	return b
}

// Assume injects a value for the question at the dotted path and removes the
// question from presentation entirely. Assumed values always win: they are
// re-applied after collection, so a collector cannot override them.
func (b *Builder[T]) Assume(path string, value any) *Builder[T] {
	if b.err != nil {
		return b
	}
	p := schema.ParsePath(path)
	v, err := b.coerce(p, value)
	if err != nil {
		b.err = err
		return b
	}
	b.assumed[p.String()] = v
	return b
}

// WithExisting seeds every question with the corresponding value from an
// existing T, as suggestions. Collecting with a scripted backend that accepts
// all defaults then reproduces v exactly, which is the re-edit flow: show the
// user their previous answers and let them change any of them.
func (b *Builder[T]) WithExisting(v T) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.suggestFrom(b.c, reflect.ValueOf(v), schema.NewPath()); err != nil {
		b.err = err
	}
	return b
}

func (b *Builder[T]) suggestFrom(c *compiled, src reflect.Value, base schema.Path) error {
	for _, plan := range c.plans {
		field := src.Field(plan.index)
		abs := base.Child(plan.name)

		switch plan.class {
		case classString:
			b.suggested[abs.String()] = schema.NewString(field.String())
		case classInt:
			b.suggested[abs.String()] = schema.NewInt(field.Int())
		case classUint:
			b.suggested[abs.String()] = schema.NewInt(int64(field.Uint()))
		case classFloat:
			b.suggested[abs.String()] = schema.NewFloat(field.Float())
		case classBool:
			b.suggested[abs.String()] = schema.NewBool(field.Bool())

		case classStringList:
			vs := make([]string, field.Len())
			for i := range vs {
				vs[i] = field.Index(i).String()
			}
			b.suggested[abs.String()] = schema.NewStringList(vs...)
		case classIntList:
			vs := make([]int64, field.Len())
			for i := range vs {
				elem := field.Index(i)
				if isUintKind(elem.Kind()) {
					vs[i] = int64(elem.Uint())
				} else {
					vs[i] = elem.Int()
				}
			}
			b.suggested[abs.String()] = schema.NewIntList(vs...)
		case classFloatList:
			vs := make([]float64, field.Len())
			for i := range vs {
				vs[i] = field.Index(i).Float()
			}
			b.suggested[abs.String()] = schema.NewFloatList(vs...)

		case classNested:
			if err := b.suggestFrom(plan.nested, field, abs); err != nil {
				return err
			}

		case classEnum:
			if field.IsNil() {
				continue
			}
			if err := b.suggestEnum(plan, field.Elem(), abs); err != nil {
				return err
			}

		case classEnumSet:
			idxs := make([]int, 0, field.Len())
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				if elem.IsNil() {
					continue
				}
				idx, ok := plan.enum.indexOf(elem.Elem().Type())
				if !ok {
					return fmt.Errorf("wizard: value of type %s at %q is not a registered variant", elem.Elem().Type(), abs.String())
				}
				idxs = append(idxs, idx)
			}
			b.suggested[abs.String()] = schema.NewVariantSet(idxs...)
		}
	}
	return nil
}

func (b *Builder[T]) suggestEnum(plan fieldPlan, dyn reflect.Value, abs schema.Path) error {
	idx, ok := plan.enum.indexOf(dyn.Type())
	if !ok {
		return fmt.Errorf("wizard: value of type %s at %q is not a registered variant", dyn.Type(), abs.String())
	}
	b.suggested[abs.String()] = schema.NewVariant(idx)
	if plan.enum.isUnit(idx) {
		return nil
	}

	altBase := abs.Join(schema.NewPath(schema.Alternatives, strconv.Itoa(idx)))
	payload := dyn
	if payload.Kind() == reflect.Pointer {
		if payload.IsNil() {
			return nil
		}
		payload = payload.Elem()
	}

	if pc := plan.payloads[idx]; pc != nil {
		return b.suggestFrom(pc, payload, altBase)
	}

	slot := altBase.Child(schema.PositionalField)
	switch {
	case payload.Kind() == reflect.String:
		b.suggested[slot.String()] = schema.NewString(payload.String())
	case isIntKind(payload.Kind()):
		b.suggested[slot.String()] = schema.NewInt(payload.Int())
	case isUintKind(payload.Kind()):
		b.suggested[slot.String()] = schema.NewInt(int64(payload.Uint()))
	case payload.Kind() == reflect.Float32 || payload.Kind() == reflect.Float64:
		b.suggested[slot.String()] = schema.NewFloat(payload.Float())
	case payload.Kind() == reflect.Bool:
		b.suggested[slot.String()] = schema.NewBool(payload.Bool())
	}
	return nil
}

// coerce turns a configuration value into the tagged value the question at p
// expects. schema.Value passes through untouched.
func (b *Builder[T]) coerce(p schema.Path, value any) (schema.Value, error) {
	if v, ok := value.(schema.Value); ok {
		return v, nil
	}
	q, ok := b.base.Lookup(p)
	if !ok {
		return schema.Value{}, fmt.Errorf("wizard: no question at %q", p.String())
	}

	switch q.Kind.(type) {
	case schema.OneOf:
		idx, ok := asInt(value)
		if !ok {
			return schema.Value{}, fmt.Errorf("wizard: %q selects an alternative, want an index, got %T", p.String(), value)
		}
		return schema.NewVariant(int(idx)), nil
	case schema.AnyOf:
		switch vs := value.(type) {
		case []int:
			return schema.NewVariantSet(vs...), nil
		}
		return schema.Value{}, fmt.Errorf("wizard: %q selects alternatives, want []int, got %T", p.String(), value)
	}

	want, _ := schema.ValueKindFor(q.Kind)
	switch want {
	case schema.ValueString:
		if s, ok := value.(string); ok {
			return schema.NewString(s), nil
		}
	case schema.ValueInt:
		if n, ok := asInt(value); ok {
			return schema.NewInt(n), nil
		}
	case schema.ValueFloat:
		switch n := value.(type) {
		case float64:
			return schema.NewFloat(n), nil
		case float32:
			return schema.NewFloat(float64(n)), nil
		}
		if n, ok := asInt(value); ok {
			return schema.NewFloat(float64(n)), nil
		}
	case schema.ValueBool:
		if v, ok := value.(bool); ok {
			return schema.NewBool(v), nil
		}
	case schema.ValueStringList:
		if vs, ok := value.([]string); ok {
			return schema.NewStringList(vs...), nil
		}
	case schema.ValueIntList:
		switch vs := value.(type) {
		case []int64:
			return schema.NewIntList(vs...), nil
		case []int:
			out := make([]int64, len(vs))
			for i, n := range vs {
				out[i] = int64(n)
			}
			return schema.NewIntList(out...), nil
		}
	case schema.ValueFloatList:
		if vs, ok := value.([]float64); ok {
			return schema.NewFloatList(vs...), nil
		}
	}
	return schema.Value{}, fmt.Errorf("wizard: %q wants a %s answer, got %T", p.String(), want, value)
}

func asInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	return 0, false
}

// Schema returns the derived schema for T with this builder's default
// policies applied: assumed entries become Assumed defaults, suggested
// entries become Suggested defaults, and an assumed entry wins over a
// suggestion at the same path. Tag-declared suggestions survive unless
// overridden here.
func (b *Builder[T]) Schema() (*schema.Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := b.base.Clone()
	b.applyDefaults(out.Questions)
	return out, nil
}

func (b *Builder[T]) applyDefaults(qs []schema.Question) {
	for i := range qs {
		key := qs[i].Path.String()
		if v, ok := b.assumed[key]; ok {
			qs[i].Default = schema.Assumed(v)
		} else if v, ok := b.suggested[key]; ok {
			qs[i].Default = schema.Suggested(v)
		}
		switch kind := qs[i].Kind.(type) {
		case schema.AllOf:
			b.applyDefaults(kind.Children)
		case schema.OneOf:
			for _, alt := range kind.Alternatives {
				b.applyDefaults(alt.Questions)
			}
		}
	}
}

// Run drives one collection: it hands the configured schema and a store
// seeded with the assumed answers to the collector, re-applies the assumed
// answers over whatever comes back, validates everything and reconstructs a
// T. Validation failures are returned as *ValidationError without aborting
// earlier than that, so callers can present every message at once.
func (b *Builder[T]) Run(ctx context.Context, c Collector) (T, error) {
	var zero T
	sch, err := b.Schema()
	if err != nil {
		return zero, err
	}

	seed := schema.NewStore()
	b.seedAssumed(sch.Questions, seed)

	collected, err := c.Collect(ctx, sch, seed)
	if err != nil {
		return zero, err
	}

	store := collected.Clone()
	b.seedAssumed(sch.Questions, store)

	val := &Validator{sch: b.base, rules: make(map[string][]Rule)}
	if err := val.collect(b.c, schema.NewPath()); err != nil {
		return zero, err
	}
	if msgs := val.ValidateAll(store); len(msgs) > 0 {
		return zero, &ValidationError{Fields: msgs}
	}

	return Reconstruct[T](store)
}

// seedAssumed writes every assumed default into the store at the path the
// answer lives at. A one-of selection lands on the reserved
// selected_alternative child, everything else on the question's own path.
func (b *Builder[T]) seedAssumed(qs []schema.Question, store *schema.Store) {
	for _, q := range qs {
		if q.Default.Mode() == schema.DefaultAssumed {
			if v, ok := q.Default.Value(); ok {
				if _, isOneOf := q.Kind.(schema.OneOf); isOneOf {
					store.Set(q.Path.Child(schema.SelectedAlternative), v)
				} else {
					store.Set(q.Path, v)
				}
			}
		}
		switch kind := q.Kind.(type) {
		case schema.AllOf:
			b.seedAssumed(kind.Children, store)
		case schema.OneOf:
			for _, alt := range kind.Alternatives {
				b.seedAssumed(alt.Questions, store)
			}
		}
	}
}
