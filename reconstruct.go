package wizard

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/ggoodman/wizard-go/schema"
)

// Reconstruct maps a populated answer store back into a value of shape T.
// It is a read-only traversal: the store is never mutated and repeated calls
// on the same store yield identical results.
//
// Errors identify the first failing path: a missing answer, a value whose
// tag does not match the question kind, or a chosen-variant index outside
// the registered set. A store that passed Validator.ValidateAll cannot
// produce any of these.
func Reconstruct[T any](store *schema.Store) (T, error) {
	var zero T
	rt := reflect.TypeOf((*T)(nil)).Elem()
	c, err := compile(rt, nil)
	if err != nil {
		return zero, err
	}
	rv := reflect.New(rt).Elem()
	if err := reconstructInto(c, store, rv, schema.NewPath()); err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// reconstructInto fills dst from a store whose keys are local to this shape.
// root is the absolute prefix, used only so errors name the full path.
func reconstructInto(c *compiled, store *schema.Store, dst reflect.Value, root schema.Path) error {
	for _, plan := range c.plans {
		local := schema.NewPath(plan.name)
		field := dst.Field(plan.index)

		switch plan.class {
		case classString:
			v, err := store.StringAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			field.SetString(v)

		case classInt:
			v, err := store.IntAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			if field.OverflowInt(v) {
				return fmt.Errorf("value %d at %q overflows %s", v, root.Join(local).String(), field.Type())
			}
			field.SetInt(v)

		case classUint:
			v, err := store.IntAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			if v < 0 || field.OverflowUint(uint64(v)) {
				return fmt.Errorf("value %d at %q out of range for %s", v, root.Join(local).String(), field.Type())
			}
			field.SetUint(uint64(v))

		case classFloat:
			v, err := store.FloatAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			field.SetFloat(v)

		case classBool:
			v, err := store.BoolAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			field.SetBool(v)

		case classStringList:
			vs, err := store.StringListAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			out := reflect.MakeSlice(plan.ftype, len(vs), len(vs))
			for i, v := range vs {
				out.Index(i).SetString(v)
			}
			field.Set(out)

		case classIntList:
			vs, err := store.IntListAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			out := reflect.MakeSlice(plan.ftype, len(vs), len(vs))
			for i, v := range vs {
				elem := out.Index(i)
				if isUintKind(elem.Kind()) {
					if v < 0 || elem.OverflowUint(uint64(v)) {
						return fmt.Errorf("value %d at %q out of range for %s", v, root.Join(local).String(), elem.Type())
					}
					elem.SetUint(uint64(v))
				} else {
					if elem.OverflowInt(v) {
						return fmt.Errorf("value %d at %q overflows %s", v, root.Join(local).String(), elem.Type())
					}
					elem.SetInt(v)
				}
			}
			field.Set(out)

		case classFloatList:
			vs, err := store.FloatListAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			out := reflect.MakeSlice(plan.ftype, len(vs), len(vs))
			for i, v := range vs {
				out.Index(i).SetFloat(v)
			}
			field.Set(out)

		case classNested:
			sub := store.Filter(local)
			if err := reconstructInto(plan.nested, sub, field, root.Join(local)); err != nil {
				return err
			}

		case classEnum:
			sub := store.Filter(local)
			val, err := reconstructEnum(plan, sub, root.Join(local))
			if err != nil {
				return err
			}
			field.Set(val)

		case classEnumSet:
			idxs, err := store.VariantSetAt(local)
			if err != nil {
				return rebasePathErr(err, root)
			}
			out := reflect.MakeSlice(plan.ftype, 0, len(idxs))
			for _, idx := range idxs {
				// Each selection reconstructs through the single-choice
				// path with a synthesized one-entry sub-store.
				one := schema.NewStore()
				one.Set(schema.NewPath(schema.SelectedAlternative), schema.NewVariant(idx))
				val, err := reconstructEnum(plan, one, root.Join(local))
				if err != nil {
					return err
				}
				out = reflect.Append(out, val)
			}
			field.Set(out)
		}
	}
	return nil
}

// reconstructEnum assembles one value of a closed variant set from a store
// local to the enum field: the discriminant at "selected_alternative" and,
// for data-carrying variants, the payload under "alternatives.<index>".
func reconstructEnum(plan fieldPlan, sub *schema.Store, root schema.Path) (reflect.Value, error) {
	ei := plan.enum
	idx, err := sub.VariantAt(schema.NewPath(schema.SelectedAlternative))
	if err != nil {
		return reflect.Value{}, rebasePathErr(err, root)
	}
	if idx < 0 || idx >= len(ei.variants) {
		return reflect.Value{}, &UnknownVariantError{
			Path:  root.Child(schema.SelectedAlternative),
			Index: idx,
			Count: len(ei.variants),
		}
	}

	if ei.isUnit(idx) {
		return reflect.ValueOf(ei.variants[idx].Proto), nil
	}

	altLocal := schema.NewPath(schema.Alternatives, strconv.Itoa(idx))
	altRoot := root.Join(altLocal)
	payload := ei.payloadType(idx)
	ptr := ei.protos[idx].Kind() == reflect.Pointer

	if payload.Kind() == reflect.Struct {
		pc := plan.payloads[idx]
		pv := reflect.New(payload)
		if err := reconstructInto(pc, sub.Filter(altLocal), pv.Elem(), altRoot); err != nil {
			return reflect.Value{}, err
		}
		if ptr {
			return pv, nil
		}
		return pv.Elem(), nil
	}

	// Bare primitive payload at the positional slot.
	slot := altLocal.Child(schema.PositionalField)
	slotRoot := altRoot.Child(schema.PositionalField)
	out := reflect.New(payload).Elem()
	switch {
	case payload.Kind() == reflect.String:
		v, err := sub.StringAt(slot)
		if err != nil {
			return reflect.Value{}, rebasePathErr(err, root)
		}
		out.SetString(v)
	case isIntKind(payload.Kind()):
		v, err := sub.IntAt(slot)
		if err != nil {
			return reflect.Value{}, rebasePathErr(err, root)
		}
		if out.OverflowInt(v) {
			return reflect.Value{}, fmt.Errorf("value %d at %q overflows %s", v, slotRoot.String(), payload)
		}
		out.SetInt(v)
	case isUintKind(payload.Kind()):
		v, err := sub.IntAt(slot)
		if err != nil {
			return reflect.Value{}, rebasePathErr(err, root)
		}
		if v < 0 || out.OverflowUint(uint64(v)) {
			return reflect.Value{}, fmt.Errorf("value %d at %q out of range for %s", v, slotRoot.String(), payload)
		}
		out.SetUint(uint64(v))
	case payload.Kind() == reflect.Float32 || payload.Kind() == reflect.Float64:
		v, err := sub.FloatAt(slot)
		if err != nil {
			return reflect.Value{}, rebasePathErr(err, root)
		}
		out.SetFloat(v)
	case payload.Kind() == reflect.Bool:
		v, err := sub.BoolAt(slot)
		if err != nil {
			return reflect.Value{}, rebasePathErr(err, root)
		}
		out.SetBool(v)
	}
	if ptr {
		p := reflect.New(payload)
		p.Elem().Set(out)
		return p, nil
	}
	return out, nil
}
