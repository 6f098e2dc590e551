package schema

// DefaultMode distinguishes the three default-value policies a question can
// carry.
type DefaultMode int

const (
	// DefaultNone means the question must be answered by the collector.
	DefaultNone DefaultMode = iota
	// DefaultSuggested means the question is pre-filled but still presented.
	DefaultSuggested
	// DefaultAssumed means the question is never presented; its value is
	// injected into the answer store as-is.
	DefaultAssumed
)

// Default is a question's default-value policy.
type Default struct {
	mode  DefaultMode
	value Value
}

// NoDefault returns the must-answer policy.
func NoDefault() Default { return Default{} }

// Suggested returns a pre-filled-but-presented policy carrying v.
func Suggested(v Value) Default { return Default{mode: DefaultSuggested, value: v} }

// Assumed returns a pre-filled-and-skipped policy carrying v.
func Assumed(v Value) Default { return Default{mode: DefaultAssumed, value: v} }

// Mode returns the policy mode.
func (d Default) Mode() DefaultMode { return d.mode }

// Value returns the carried value and whether one is present.
func (d Default) Value() (Value, bool) {
	return d.value, d.mode != DefaultNone
}

// PrimitiveKind names the element type of a List question.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveInt
	PrimitiveFloat
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveInt:
		return "int"
	case PrimitiveFloat:
		return "float"
	default:
		return "string"
	}
}

// QuestionKind is the closed set of question shapes. The concrete types
// below are the only implementations; dispatch is always an exhaustive type
// switch, never open-ended.
type QuestionKind interface {
	isQuestionKind()
}

// Unit marks a variant alternative that carries no data. Collectors skip it.
type Unit struct{}

// Input asks for a single line of text.
type Input struct{}

// Multiline asks for free-form multi-line text.
type Multiline struct{}

// Masked asks for text that must not be echoed (passwords and the like).
type Masked struct{}

// Int asks for a 64-bit signed integer, optionally bounded inclusively.
type Int struct {
	Min *int64
	Max *int64
}

// Float asks for a 64-bit float, optionally bounded inclusively.
type Float struct {
	Min *float64
	Max *float64
}

// Confirm asks a yes/no question.
type Confirm struct{}

// List asks for an ordered collection of one primitive type.
type List struct {
	Elem PrimitiveKind
}

// AnyOf asks for an independent multi-selection over a closed variant set.
// The answer is a chosen-variant index set stored at the question's own path.
type AnyOf struct {
	Options []string
}

// AllOf groups child questions that must all be answered; it represents the
// fields of a nested struct. Child paths are rooted under the group's path.
type AllOf struct {
	Children []Question
}

// OneOf asks for exactly one of a closed set of alternatives. The selection
// is stored as a chosen-variant index at the reserved child path
// "<path>.selected_alternative"; only the selected alternative's descendant
// paths are required to hold values.
type OneOf struct {
	Alternatives []Alternative
}

// Alternative is one selectable group inside a OneOf question.
type Alternative struct {
	Name      string
	Questions []Question
}

func (Unit) isQuestionKind()      {}
func (Input) isQuestionKind()     {}
func (Multiline) isQuestionKind() {}
func (Masked) isQuestionKind()    {}
func (Int) isQuestionKind()       {}
func (Float) isQuestionKind()     {}
func (Confirm) isQuestionKind()   {}
func (List) isQuestionKind()      {}
func (AnyOf) isQuestionKind()     {}
func (AllOf) isQuestionKind()     {}
func (OneOf) isQuestionKind()     {}

// Question binds a path to a prompt, a kind and a default policy.
type Question struct {
	Path    Path
	Prompt  string
	Kind    QuestionKind
	Default Default
}

// ValueKindFor returns the value tag a direct answer to the given question
// kind must carry, and whether the kind takes a direct answer at all. AllOf
// and OneOf group other questions and have no direct value; Unit needs none.
func ValueKindFor(k QuestionKind) (ValueKind, bool) {
	switch kind := k.(type) {
	case Input, Multiline, Masked:
		return ValueString, true
	case Int:
		return ValueInt, true
	case Float:
		return ValueFloat, true
	case Confirm:
		return ValueBool, true
	case List:
		switch kind.Elem {
		case PrimitiveInt:
			return ValueIntList, true
		case PrimitiveFloat:
			return ValueFloatList, true
		default:
			return ValueStringList, true
		}
	case AnyOf:
		return ValueVariantSet, true
	default:
		return ValueInvalid, false
	}
}
