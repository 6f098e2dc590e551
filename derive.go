package wizard

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/ggoodman/wizard-go/schema"
)

// PreludeProvider lets a shape type contribute introductory text to its
// derived schema.
type PreludeProvider interface {
	WizardPrelude() string
}

// EpilogueProvider lets a shape type contribute closing text to its derived
// schema.
type EpilogueProvider interface {
	WizardEpilogue() string
}

// Derive produces the question schema for shape type T. Derivation is
// deterministic and side-effect free; results are compiled once per type and
// cached process-wide, with every call returning an independent deep copy.
//
// T must be a struct type whose exported fields each carry a `prompt` tag.
// Malformed declarations are reported as *AuthoringError.
func Derive[T any]() (*schema.Schema, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	c, err := compile(rt, nil)
	if err != nil {
		return nil, err
	}
	return c.newSchema(), nil
}

// MustDerive is Derive that panics on authoring errors. Use it for shapes
// whose derivation is exercised by tests or init-time registration.
func MustDerive[T any]() *schema.Schema {
	s, err := Derive[T]()
	if err != nil {
		panic(err)
	}
	return s
}

type fieldClass int

const (
	classString fieldClass = iota
	classInt
	classUint
	classFloat
	classBool
	classStringList
	classIntList
	classFloatList
	classNested
	classEnum
	classEnumSet
)

// fieldPlan captures what reconstruction and validation need to know about
// one field, parallel to the question derived for it.
type fieldPlan struct {
	index    int // struct field index
	name     string
	class    fieldClass
	ftype    reflect.Type
	enum     *enumInfo
	nested   *compiled   // classNested
	payloads []*compiled // classEnum: compiled struct payloads per variant, nil entries for unit/primitive
}

// compiled is the cached derivation product for one struct type: its
// unrooted question list plus the parallel field plans.
type compiled struct {
	rt        reflect.Type
	questions []schema.Question
	plans     []fieldPlan
	prelude   string
	epilogue  string
}

func (c *compiled) newSchema() *schema.Schema {
	return &schema.Schema{
		Prelude:   c.prelude,
		Epilogue:  c.epilogue,
		Questions: schema.Rebase(c.questions, schema.NewPath()),
	}
}

var compileCache sync.Map // reflect.Type -> *compiled

func compile(rt reflect.Type, stack []reflect.Type) (*compiled, error) {
	if rt.Kind() != reflect.Struct {
		return nil, authoringErr(rt.String(), "", "shape must be a struct type, got %s", rt.Kind())
	}
	if v, ok := compileCache.Load(rt); ok {
		return v.(*compiled), nil
	}
	for _, t := range stack {
		if t == rt {
			return nil, authoringErr(rt.String(), "", "recursive shape nesting is not supported")
		}
	}
	stack = append(stack, rt)

	c := &compiled{rt: rt}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		q, plan, err := compileField(rt, f, i, stack)
		if err != nil {
			return nil, err
		}
		c.questions = append(c.questions, q)
		c.plans = append(c.plans, plan)
	}

	if err := checkPathUniqueness(rt, c.questions); err != nil {
		return nil, err
	}

	inst := reflect.New(rt).Interface()
	if p, ok := inst.(PreludeProvider); ok {
		c.prelude = p.WizardPrelude()
	}
	if p, ok := inst.(EpilogueProvider); ok {
		c.epilogue = p.WizardEpilogue()
	}

	actual, _ := compileCache.LoadOrStore(rt, c)
	return actual.(*compiled), nil
}

func compileField(rt reflect.Type, f reflect.StructField, index int, stack []reflect.Type) (schema.Question, fieldPlan, error) {
	shape := rt.String()
	none := schema.Question{}

	prompt := f.Tag.Get("prompt")
	if prompt == "" {
		return none, fieldPlan{}, authoringErr(shape, f.Name, "missing required prompt tag")
	}
	attrs, err := parseWizardTag(shape, f.Name, f.Tag.Get("wizard"))
	if err != nil {
		return none, fieldPlan{}, err
	}

	name := lowerFirst(f.Name)
	path := schema.NewPath(name)
	plan := fieldPlan{index: index, name: name, ftype: f.Type}
	q := schema.Question{Path: path, Prompt: prompt, Default: schema.NoDefault()}

	ft := f.Type
	kind := ft.Kind()

	// Fixed precedence: mask, multiline, then type-driven mapping.
	switch {
	case attrs.mask && attrs.multiline:
		return none, fieldPlan{}, authoringErr(shape, f.Name, "mask and multiline are mutually exclusive")

	case attrs.mask:
		if kind != reflect.String {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "mask requires a string field, got %s", kind)
		}
		plan.class = classString
		q.Kind = schema.Masked{}

	case attrs.multiline:
		if kind != reflect.String {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "multiline requires a string field, got %s", kind)
		}
		plan.class = classString
		q.Kind = schema.Multiline{}

	case kind == reflect.Bool:
		plan.class = classBool
		q.Kind = schema.Confirm{}

	case isIntKind(kind) || isUintKind(kind):
		if isUintKind(kind) {
			plan.class = classUint
		} else {
			plan.class = classInt
		}
		ik := schema.Int{}
		if ik.Min, ik.Max, err = intBounds(shape, f.Name, attrs); err != nil {
			return none, fieldPlan{}, err
		}
		if ik.Min == nil && plan.class == classUint {
			zero := int64(0)
			ik.Min = &zero
		}
		q.Kind = ik

	case kind == reflect.Float32 || kind == reflect.Float64:
		plan.class = classFloat
		fk := schema.Float{}
		if fk.Min, fk.Max, err = floatBounds(shape, f.Name, attrs); err != nil {
			return none, fieldPlan{}, err
		}
		q.Kind = fk

	case kind == reflect.String:
		plan.class = classString
		q.Kind = schema.Input{}

	case kind == reflect.Slice:
		return compileSliceField(shape, f, q, plan, attrs)

	case kind == reflect.Interface:
		return compileEnumField(shape, f, q, plan, attrs, stack)

	case kind == reflect.Struct:
		if attrs.multiselect {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "multiselect requires a collection of a registered enum type")
		}
		if err := checkCompositeAttrs(shape, f.Name, attrs); err != nil {
			return none, fieldPlan{}, err
		}
		nested, err := compile(ft, stack)
		if err != nil {
			return none, fieldPlan{}, err
		}
		plan.class = classNested
		plan.nested = nested
		q.Kind = schema.AllOf{Children: schema.Rebase(nested.questions, path)}
		return q, plan, nil

	default:
		return none, fieldPlan{}, authoringErr(shape, f.Name, "unsupported field type %s", ft)
	}

	if attrs.multiselect {
		return none, fieldPlan{}, authoringErr(shape, f.Name, "multiselect requires a collection of a registered enum type")
	}
	if q.Default, err = defaultFor(shape, f.Name, plan.class, attrs); err != nil {
		return none, fieldPlan{}, err
	}
	if err := checkBoundsAttrs(shape, f.Name, plan.class, attrs); err != nil {
		return none, fieldPlan{}, err
	}
	return q, plan, nil
}

func compileSliceField(shape string, f reflect.StructField, q schema.Question, plan fieldPlan, attrs wizardAttrs) (schema.Question, fieldPlan, error) {
	none := schema.Question{}
	elem := f.Type.Elem()

	if elem.Kind() == reflect.Interface {
		ei, ok := enumFor(elem)
		if !ok {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "element interface %s is not registered with RegisterEnum", elem)
		}
		if !attrs.multiselect {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "collection of enum %s requires the multiselect attribute", elem)
		}
		if !ei.allUnit() {
			return none, fieldPlan{}, authoringErr(shape, f.Name, "multiselect enum %s must have only data-free variants", elem)
		}
		if err := checkCompositeAttrs(shape, f.Name, attrs); err != nil {
			return none, fieldPlan{}, err
		}
		plan.class = classEnumSet
		plan.enum = ei
		options := make([]string, len(ei.variants))
		for i, v := range ei.variants {
			options[i] = v.Name
		}
		q.Kind = schema.AnyOf{Options: options}
		return q, plan, nil
	}

	if attrs.multiselect {
		return none, fieldPlan{}, authoringErr(shape, f.Name, "multiselect requires a collection of a registered enum type, got %s", f.Type)
	}

	switch {
	case elem.Kind() == reflect.String:
		plan.class = classStringList
		q.Kind = schema.List{Elem: schema.PrimitiveString}
	case isIntKind(elem.Kind()) || isUintKind(elem.Kind()):
		plan.class = classIntList
		q.Kind = schema.List{Elem: schema.PrimitiveInt}
	case elem.Kind() == reflect.Float32 || elem.Kind() == reflect.Float64:
		plan.class = classFloatList
		q.Kind = schema.List{Elem: schema.PrimitiveFloat}
	default:
		return none, fieldPlan{}, authoringErr(shape, f.Name, "unsupported collection element type %s", elem)
	}
	if err := checkCompositeAttrs(shape, f.Name, attrs); err != nil {
		return none, fieldPlan{}, err
	}
	return q, plan, nil
}

func compileEnumField(shape string, f reflect.StructField, q schema.Question, plan fieldPlan, attrs wizardAttrs, stack []reflect.Type) (schema.Question, fieldPlan, error) {
	none := schema.Question{}
	ei, ok := enumFor(f.Type)
	if !ok {
		return none, fieldPlan{}, authoringErr(shape, f.Name, "interface %s is not registered with RegisterEnum", f.Type)
	}
	if attrs.multiselect {
		return none, fieldPlan{}, authoringErr(shape, f.Name, "multiselect requires a collection, not a single enum field")
	}
	if err := checkCompositeAttrs(shape, f.Name, attrs); err != nil {
		return none, fieldPlan{}, err
	}

	plan.class = classEnum
	plan.enum = ei
	plan.payloads = make([]*compiled, len(ei.variants))

	alts := make([]schema.Alternative, len(ei.variants))
	for i, v := range ei.variants {
		altBase := q.Path.Join(schema.NewPath(schema.Alternatives, strconv.Itoa(i)))
		payload := ei.payloadType(i)

		switch {
		case ei.isUnit(i):
			alts[i] = schema.Alternative{Name: v.Name, Questions: []schema.Question{{
				Path:   altBase,
				Prompt: v.Name,
				Kind:   schema.Unit{},
			}}}

		case payload.Kind() == reflect.Struct:
			sub, err := compile(payload, stack)
			if err != nil {
				return none, fieldPlan{}, err
			}
			plan.payloads[i] = sub
			alts[i] = schema.Alternative{Name: v.Name, Questions: schema.Rebase(sub.questions, altBase)}

		default:
			pk, err := positionalKind(shape, f.Name, v.Name, payload)
			if err != nil {
				return none, fieldPlan{}, err
			}
			alts[i] = schema.Alternative{Name: v.Name, Questions: []schema.Question{{
				Path:   altBase.Child(schema.PositionalField),
				Prompt: v.Name,
				Kind:   pk,
			}}}
		}
	}
	q.Kind = schema.OneOf{Alternatives: alts}
	return q, plan, nil
}

// positionalKind maps a bare primitive variant payload to its question kind.
func positionalKind(shape, field, variant string, payload reflect.Type) (schema.QuestionKind, error) {
	switch {
	case payload.Kind() == reflect.String:
		return schema.Input{}, nil
	case isIntKind(payload.Kind()):
		return schema.Int{}, nil
	case isUintKind(payload.Kind()):
		zero := int64(0)
		return schema.Int{Min: &zero}, nil
	case payload.Kind() == reflect.Float32 || payload.Kind() == reflect.Float64:
		return schema.Float{}, nil
	case payload.Kind() == reflect.Bool:
		return schema.Confirm{}, nil
	default:
		return nil, authoringErr(shape, field, "variant %s: unsupported payload type %s", variant, payload)
	}
}

func checkPathUniqueness(rt reflect.Type, qs []schema.Question) error {
	seen := make(map[string]struct{})
	var dup string
	tmp := schema.Schema{Questions: qs}
	tmp.Walk(func(q schema.Question) bool {
		key := q.Path.String()
		if _, ok := seen[key]; ok {
			dup = key
			return false
		}
		seen[key] = struct{}{}
		return true
	})
	if dup != "" {
		return authoringErr(rt.String(), "", "duplicate question path %q", dup)
	}
	return nil
}

type wizardAttrs struct {
	mask        bool
	multiline   bool
	multiselect bool
	min, max    *string
	def         *string
}

func parseWizardTag(shape, field, tag string) (wizardAttrs, error) {
	var attrs wizardAttrs
	if tag == "" {
		return attrs, nil
	}
	for _, token := range strings.Split(tag, ",") {
		if token == "" {
			continue
		}
		key, val, hasVal := strings.Cut(token, "=")
		switch key {
		case "mask":
			attrs.mask = true
		case "multiline":
			attrs.multiline = true
		case "multiselect":
			attrs.multiselect = true
		case "min":
			if !hasVal {
				return attrs, authoringErr(shape, field, "min attribute requires a value")
			}
			v := val
			attrs.min = &v
		case "max":
			if !hasVal {
				return attrs, authoringErr(shape, field, "max attribute requires a value")
			}
			v := val
			attrs.max = &v
		case "default":
			if !hasVal {
				return attrs, authoringErr(shape, field, "default attribute requires a value")
			}
			v := val
			attrs.def = &v
		default:
			return attrs, authoringErr(shape, field, "unknown wizard attribute %q", key)
		}
	}
	return attrs, nil
}

func intBounds(shape, field string, attrs wizardAttrs) (min, max *int64, err error) {
	if attrs.min != nil {
		v, perr := strconv.ParseInt(*attrs.min, 10, 64)
		if perr != nil {
			return nil, nil, authoringErr(shape, field, "malformed min %q", *attrs.min)
		}
		min = &v
	}
	if attrs.max != nil {
		v, perr := strconv.ParseInt(*attrs.max, 10, 64)
		if perr != nil {
			return nil, nil, authoringErr(shape, field, "malformed max %q", *attrs.max)
		}
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, authoringErr(shape, field, "min %d exceeds max %d", *min, *max)
	}
	return min, max, nil
}

func floatBounds(shape, field string, attrs wizardAttrs) (min, max *float64, err error) {
	if attrs.min != nil {
		v, perr := strconv.ParseFloat(*attrs.min, 64)
		if perr != nil {
			return nil, nil, authoringErr(shape, field, "malformed min %q", *attrs.min)
		}
		min = &v
	}
	if attrs.max != nil {
		v, perr := strconv.ParseFloat(*attrs.max, 64)
		if perr != nil {
			return nil, nil, authoringErr(shape, field, "malformed max %q", *attrs.max)
		}
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, authoringErr(shape, field, "min %g exceeds max %g", *min, *max)
	}
	return min, max, nil
}

// checkBoundsAttrs rejects min/max on non-numeric fields.
func checkBoundsAttrs(shape, field string, class fieldClass, attrs wizardAttrs) error {
	switch class {
	case classInt, classUint, classFloat:
		return nil
	}
	if attrs.min != nil || attrs.max != nil {
		return authoringErr(shape, field, "min/max apply only to numeric fields")
	}
	return nil
}

// checkCompositeAttrs rejects every primitive-only attribute on fields that
// group other questions or collect variants.
func checkCompositeAttrs(shape, field string, attrs wizardAttrs) error {
	if attrs.min != nil || attrs.max != nil {
		return authoringErr(shape, field, "min/max apply only to numeric fields")
	}
	if attrs.def != nil {
		return authoringErr(shape, field, "default applies only to primitive fields")
	}
	return nil
}

func defaultFor(shape, field string, class fieldClass, attrs wizardAttrs) (schema.Default, error) {
	if attrs.def == nil {
		return schema.NoDefault(), nil
	}
	raw := *attrs.def
	switch class {
	case classString:
		return schema.Suggested(schema.NewString(raw)), nil
	case classInt, classUint:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return schema.NoDefault(), authoringErr(shape, field, "malformed default %q", raw)
		}
		return schema.Suggested(schema.NewInt(v)), nil
	case classFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return schema.NoDefault(), authoringErr(shape, field, "malformed default %q", raw)
		}
		return schema.Suggested(schema.NewFloat(v)), nil
	case classBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return schema.NoDefault(), authoringErr(shape, field, "malformed default %q", raw)
		}
		return schema.Suggested(schema.NewBool(v)), nil
	default:
		return schema.NoDefault(), authoringErr(shape, field, "default applies only to primitive fields")
	}
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
