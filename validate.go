package wizard

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/ggoodman/wizard-go/schema"
)

// Rule checks one answered value. It receives the value, the answers
// collected so far, and the path being validated. A non-nil error is the
// message shown to the user; the collection is never aborted by it.
type Rule func(v schema.Value, answers *schema.Store, p schema.Path) error

// FieldRuler attaches rules to individual questions of a shape, keyed by the
// dotted field path relative to that shape. A nested shape declares rules
// against its own field names; the dispatcher strips the nesting prefix and
// delegates, so rules compose the same way derivation does.
type FieldRuler interface {
	FieldRules() map[string]Rule
}

// NumericRuler attaches one rule to every numeric field of the shape. The
// rule is expanded at derivation time into one field-level rule per matching
// question; nested shapes propagate their own.
type NumericRuler interface {
	NumericRule() Rule
}

// CrossChecker validates invariants spanning multiple fields of a shape.
// It runs once over the whole answer store (prefix-stripped for nested
// shapes), after every individual field passed, and returns a message per
// offending dotted path.
type CrossChecker interface {
	CrossCheck(answers *schema.Store) map[string]string
}

// Validator dispatches field-level, propagated and composite validation for
// one shape type. Implicit numeric bounds from the derived schema always run
// ahead of user-declared rules, so an out-of-bounds value never reaches
// reconstruction.
//
// Validators are built once per shape and safe for concurrent use.
type Validator struct {
	sch   *schema.Schema
	rules map[string][]Rule
	cross []crossCheck
}

type crossCheck struct {
	prefix schema.Path
	fn     func(answers *schema.Store) map[string]string
}

// NewValidator builds the validation dispatcher for shape type T.
func NewValidator[T any]() (*Validator, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	c, err := compile(rt, nil)
	if err != nil {
		return nil, err
	}
	v := &Validator{
		sch:   c.newSchema(),
		rules: make(map[string][]Rule),
	}
	if err := v.collect(c, schema.NewPath()); err != nil {
		return nil, err
	}
	return v, nil
}

// collect walks one shape level, registering implicit bounds rules, the
// propagated numeric rule, declared field rules, and the composite check,
// then recurses into nested shapes and variant payloads.
func (v *Validator) collect(c *compiled, base schema.Path) error {
	inst := reflect.New(c.rt).Interface()

	var numeric Rule
	if nr, ok := inst.(NumericRuler); ok {
		numeric = scopeRule(nr.NumericRule(), base)
	}

	for i, plan := range c.plans {
		q := c.questions[i]
		abs := base.Child(plan.name)

		switch kind := q.Kind.(type) {
		case schema.Int:
			if kind.Min != nil || kind.Max != nil {
				v.add(abs, intBoundsRule(kind))
			}
		case schema.Float:
			if kind.Min != nil || kind.Max != nil {
				v.add(abs, floatBoundsRule(kind))
			}
		}

		if numeric != nil {
			switch plan.class {
			case classInt, classUint, classFloat:
				v.add(abs, numeric)
			}
		}

		switch plan.class {
		case classNested:
			if err := v.collect(plan.nested, abs); err != nil {
				return err
			}
		case classEnum:
			oneOf, _ := q.Kind.(schema.OneOf)
			for idx, pc := range plan.payloads {
				altBase := abs.Join(schema.NewPath(schema.Alternatives, strconv.Itoa(idx)))
				if pc != nil {
					if err := v.collect(pc, altBase); err != nil {
						return err
					}
					continue
				}
				// Positional primitive payloads are synthesized questions with
				// no compiled plan of their own; their implicit bounds are
				// registered here.
				for _, aq := range oneOf.Alternatives[idx].Questions {
					switch k := aq.Kind.(type) {
					case schema.Int:
						if k.Min != nil || k.Max != nil {
							v.add(base.Join(aq.Path), intBoundsRule(k))
						}
					case schema.Float:
						if k.Min != nil || k.Max != nil {
							v.add(base.Join(aq.Path), floatBoundsRule(k))
						}
					}
				}
			}
		}
	}

	if fr, ok := inst.(FieldRuler); ok {
		declared := fr.FieldRules()
		names := make([]string, 0, len(declared))
		for name := range declared {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			abs := base.Join(schema.ParsePath(name))
			if _, found := v.sch.Lookup(abs); !found {
				return authoringErr(c.rt.String(), name, "field rule names unknown question path")
			}
			v.add(abs, scopeRule(declared[name], base))
		}
	}

	if cc, ok := inst.(CrossChecker); ok {
		v.cross = append(v.cross, crossCheck{prefix: base, fn: cc.CrossCheck})
	}
	return nil
}

func (v *Validator) add(p schema.Path, r Rule) {
	key := p.String()
	v.rules[key] = append(v.rules[key], r)
}

// scopeRule adapts a rule declared by a nested shape so that, however deep
// the shape ends up nested, the rule still sees its own local paths and a
// prefix-stripped view of the answers.
func scopeRule(r Rule, base schema.Path) Rule {
	if base.IsRoot() {
		return r
	}
	return func(val schema.Value, answers *schema.Store, p schema.Path) error {
		return r(val, answers.Filter(base), p.TrimPrefix(base))
	}
}

func intBoundsRule(k schema.Int) Rule {
	return func(val schema.Value, _ *schema.Store, p schema.Path) error {
		n, ok := val.AsInt()
		if !ok {
			return fmt.Errorf("expected an integer answer")
		}
		if k.Min != nil && n < *k.Min {
			return fmt.Errorf("must be at least %d", *k.Min)
		}
		if k.Max != nil && n > *k.Max {
			return fmt.Errorf("must be at most %d", *k.Max)
		}
		return nil
	}
}

func floatBoundsRule(k schema.Float) Rule {
	return func(val schema.Value, _ *schema.Store, p schema.Path) error {
		n, ok := val.AsFloat()
		if !ok {
			return fmt.Errorf("expected a number answer")
		}
		if k.Min != nil && n < *k.Min {
			return fmt.Errorf("must be at least %g", *k.Min)
		}
		if k.Max != nil && n > *k.Max {
			return fmt.Errorf("must be at most %g", *k.Max)
		}
		return nil
	}
}

// ValidateField runs the rules attached to one path against a candidate
// value. Implicit bounds run first, then propagated and declared rules in
// declaration order. A kind mismatch against the bound question fails
// before any rule runs.
func (v *Validator) ValidateField(p schema.Path, val schema.Value, answers *schema.Store) error {
	if q, ok := v.sch.Lookup(p); ok {
		if want, direct := schema.ValueKindFor(q.Kind); direct && val.Kind() != want {
			return fmt.Errorf("expected a %s answer, got %s", want, val.Kind())
		}
		if anyOf, ok := q.Kind.(schema.AnyOf); ok {
			idxs, _ := val.AsVariantSet()
			for _, idx := range idxs {
				if idx < 0 || idx >= len(anyOf.Options) {
					return fmt.Errorf("unknown option %d", idx)
				}
			}
		}
	}
	for _, r := range v.rules[p.String()] {
		if err := r(val, answers, p); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll checks a completed store: every required question must be
// answered with a matching value tag and pass its field rules. Only the
// selected alternative of a one-of group is required. Composite checks run
// once, only after every individual field passed. The result maps dotted
// paths to messages; an empty map means the store is safe to reconstruct.
func (v *Validator) ValidateAll(store *schema.Store) map[string]string {
	msgs := make(map[string]string)
	v.checkQuestions(v.sch.Questions, store, msgs)
	if len(msgs) > 0 {
		return msgs
	}
	for _, cc := range v.cross {
		view := store
		if !cc.prefix.IsRoot() {
			view = store.Filter(cc.prefix)
		}
		for name, msg := range cc.fn(view) {
			abs := cc.prefix.Join(schema.ParsePath(name))
			if _, exists := msgs[abs.String()]; !exists {
				msgs[abs.String()] = msg
			}
		}
	}
	return msgs
}

func (v *Validator) checkQuestions(qs []schema.Question, store *schema.Store, msgs map[string]string) {
	for _, q := range qs {
		switch kind := q.Kind.(type) {
		case schema.Unit:
			continue

		case schema.AllOf:
			v.checkQuestions(kind.Children, store, msgs)

		case schema.OneOf:
			selPath := q.Path.Child(schema.SelectedAlternative)
			val, ok := store.Get(selPath)
			if !ok {
				msgs[selPath.String()] = "an alternative must be selected"
				continue
			}
			idx, isVariant := val.AsVariant()
			if !isVariant {
				msgs[selPath.String()] = fmt.Sprintf("expected a variant answer, got %s", val.Kind())
				continue
			}
			if idx < 0 || idx >= len(kind.Alternatives) {
				msgs[selPath.String()] = fmt.Sprintf("unknown alternative %d", idx)
				continue
			}
			v.checkQuestions(kind.Alternatives[idx].Questions, store, msgs)

		default:
			val, ok := store.Get(q.Path)
			if !ok {
				msgs[q.Path.String()] = "an answer is required"
				continue
			}
			if err := v.ValidateField(q.Path, val, store); err != nil {
				msgs[q.Path.String()] = err.Error()
			}
		}
	}
}
