package wizard

import (
	"errors"
	"strings"
	"testing"

	"github.com/ggoodman/wizard-go/schema"
)

func TestValidateFieldBounds(t *testing.T) {
	v, err := NewValidator[person]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	store := schema.NewStore()

	if err := v.ValidateField(schema.NewPath("age"), schema.NewInt(30), store); err != nil {
		t.Fatalf("in-range value rejected: %v", err)
	}
	if err := v.ValidateField(schema.NewPath("age"), schema.NewInt(17), store); err == nil {
		t.Fatal("below-min value accepted")
	}
	if err := v.ValidateField(schema.NewPath("age"), schema.NewInt(121), store); err == nil {
		t.Fatal("above-max value accepted")
	}
}

func TestValidateFieldKindMismatch(t *testing.T) {
	v, _ := NewValidator[person]()
	err := v.ValidateField(schema.NewPath("age"), schema.NewString("thirty"), schema.NewStore())
	if err == nil || !strings.Contains(err.Error(), "expected a int") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateAllFlatShape(t *testing.T) {
	v, _ := NewValidator[person]()

	ok := storeOf(map[string]schema.Value{
		"name": schema.NewString("Alice"),
		"age":  schema.NewInt(30),
	})
	if msgs := v.ValidateAll(ok); len(msgs) != 0 {
		t.Fatalf("unexpected messages: %v", msgs)
	}

	young := storeOf(map[string]schema.Value{
		"name": schema.NewString("Alice"),
		"age":  schema.NewInt(17),
	})
	msgs := v.ValidateAll(young)
	if len(msgs) != 1 || msgs["age"] == "" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestValidateAllMissingAnswer(t *testing.T) {
	v, _ := NewValidator[person]()
	msgs := v.ValidateAll(storeOf(map[string]schema.Value{
		"name": schema.NewString("Alice"),
	}))
	if msgs["age"] == "" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestValidateAllOnlySelectedAlternativeRequired(t *testing.T) {
	type checkout struct {
		Payment Payment `prompt:"Payment method"`
	}
	v, err := NewValidator[checkout]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	// Cash selected: card questions are not required.
	cash := storeOf(map[string]schema.Value{
		"payment.selected_alternative": schema.NewVariant(0),
	})
	if msgs := v.ValidateAll(cash); len(msgs) != 0 {
		t.Fatalf("messages = %v", msgs)
	}

	// Card selected but unanswered: its questions are required.
	card := storeOf(map[string]schema.Value{
		"payment.selected_alternative": schema.NewVariant(1),
	})
	msgs := v.ValidateAll(card)
	if msgs["payment.alternatives.1.number"] == "" {
		t.Fatalf("messages = %v", msgs)
	}

	// No selection at all.
	msgs = v.ValidateAll(schema.NewStore())
	if msgs["payment.selected_alternative"] == "" {
		t.Fatalf("messages = %v", msgs)
	}

	// Selection out of range.
	bogus := storeOf(map[string]schema.Value{
		"payment.selected_alternative": schema.NewVariant(9),
	})
	msgs = v.ValidateAll(bogus)
	if msgs["payment.selected_alternative"] == "" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestValidateAllRejectsUnknownMultiSelectOption(t *testing.T) {
	type gadget struct {
		Features []Feature `prompt:"Extra features" wizard:"multiselect"`
	}
	v, err := NewValidator[gadget]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	bogus := storeOf(map[string]schema.Value{
		"features": schema.NewVariantSet(9),
	})
	msgs := v.ValidateAll(bogus)
	if msgs["features"] == "" {
		t.Fatalf("messages = %v", msgs)
	}
	if err := v.ValidateField(schema.NewPath("features"), schema.NewVariantSet(-1), schema.NewStore()); err == nil {
		t.Fatal("negative option index accepted")
	}

	// A store that passes validation must reconstruct.
	ok := storeOf(map[string]schema.Value{
		"features": schema.NewVariantSet(0, 2),
	})
	if msgs := v.ValidateAll(ok); len(msgs) != 0 {
		t.Fatalf("messages = %v", msgs)
	}
	got, err := Reconstruct[gadget](ok)
	if err != nil {
		t.Fatalf("validated store failed reconstruction: %v", err)
	}
	if len(got.Features) != 2 {
		t.Fatalf("features = %v", got.Features)
	}
}

func TestValidateAllBoundsPositionalPayload(t *testing.T) {
	type plan struct {
		Quota limit `prompt:"Quota"`
	}
	v, err := NewValidator[plan]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	negative := storeOf(map[string]schema.Value{
		"quota.selected_alternative":   schema.NewVariant(1),
		"quota.alternatives.1.field_0": schema.NewInt(-5),
	})
	msgs := v.ValidateAll(negative)
	if msgs["quota.alternatives.1.field_0"] == "" {
		t.Fatalf("messages = %v", msgs)
	}

	// A store that passes validation must reconstruct.
	ok := storeOf(map[string]schema.Value{
		"quota.selected_alternative":   schema.NewVariant(1),
		"quota.alternatives.1.field_0": schema.NewInt(5),
	})
	if msgs := v.ValidateAll(ok); len(msgs) != 0 {
		t.Fatalf("messages = %v", msgs)
	}
	got, err := Reconstruct[plan](ok)
	if err != nil {
		t.Fatalf("validated store failed reconstruction: %v", err)
	}
	if c, isCapped := got.Quota.(capped); !isCapped || c != 5 {
		t.Fatalf("quota = %#v", got.Quota)
	}
}

// limit has a bare-unsigned payload variant, which gets an implicit lower
// bound of zero.
type limit interface{ isLimit() }

type unmetered struct{}
type capped uint32

func (unmetered) isLimit() {}
func (capped) isLimit()    {}

func init() {
	RegisterEnum[limit](
		Variant{Name: "Unmetered", Proto: unmetered{}},
		Variant{Name: "Capped", Proto: capped(0)},
	)
}

func TestValidateDeclaredFieldRules(t *testing.T) {
	v, err := NewValidator[ruled]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	err = v.ValidateField(schema.NewPath("username"), schema.NewString(""), schema.NewStore())
	if err == nil || err.Error() != "must not be empty" {
		t.Fatalf("err = %v", err)
	}
}

func TestValidatePropagatedNumericRule(t *testing.T) {
	v, _ := NewValidator[ruled]()
	store := schema.NewStore()

	if err := v.ValidateField(schema.NewPath("retries"), schema.NewInt(-1), store); err == nil {
		t.Fatal("negative retries accepted")
	}
	if err := v.ValidateField(schema.NewPath("timeout"), schema.NewInt(-1), store); err == nil {
		t.Fatal("propagated rule missing on second numeric field")
	}
	// Non-numeric fields are untouched by the propagated rule.
	if err := v.ValidateField(schema.NewPath("password"), schema.NewString("hunter2"), store); err != nil {
		t.Fatalf("string field hit numeric rule: %v", err)
	}
}

func TestValidateCrossCheckRunsAfterFields(t *testing.T) {
	v, _ := NewValidator[ruled]()

	mismatched := storeOf(map[string]schema.Value{
		"username": schema.NewString("alice"),
		"password": schema.NewString("one"),
		"confirm":  schema.NewString("two"),
		"retries":  schema.NewInt(3),
		"timeout":  schema.NewInt(10),
	})
	msgs := v.ValidateAll(mismatched)
	if msgs["confirm"] != "passwords do not match" {
		t.Fatalf("messages = %v", msgs)
	}

	// A field failure suppresses the composite check entirely.
	broken := mismatched.Clone()
	broken.Set(schema.NewPath("username"), schema.NewString(""))
	msgs = v.ValidateAll(broken)
	if _, ok := msgs["confirm"]; ok {
		t.Fatalf("composite check ran despite field failures: %v", msgs)
	}
	if msgs["username"] == "" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestValidateNestedRulesSeeLocalPaths(t *testing.T) {
	v, err := NewValidator[ruledParent]()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	err = v.ValidateField(schema.ParsePath("inner.port"), schema.NewInt(70000), schema.NewStore())
	if err == nil || err.Error() != "port out of range" {
		t.Fatalf("err = %v", err)
	}
}

type ruledParent struct {
	Label string     `prompt:"Label"`
	Inner ruledChild `prompt:"Inner"`
}

type ruledChild struct {
	Port int64 `prompt:"Port"`
}

func (ruledChild) FieldRules() map[string]Rule {
	return map[string]Rule{
		"port": func(v schema.Value, _ *schema.Store, p schema.Path) error {
			// The dispatcher hands nested rules their local path.
			if p.String() != "port" {
				return errors.New("rule saw a non-local path: " + p.String())
			}
			n, _ := v.AsInt()
			if n < 1 || n > 65535 {
				return errors.New("port out of range")
			}
			return nil
		},
	}
}

func TestValidatorRejectsUnknownRulePath(t *testing.T) {
	_, err := NewValidator[badRules]()
	var ae *AuthoringError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthoringError, got %v", err)
	}
}

type badRules struct {
	Name string `prompt:"Name"`
}

func (badRules) FieldRules() map[string]Rule {
	return map[string]Rule{
		"nonexistent": func(schema.Value, *schema.Store, schema.Path) error { return nil },
	}
}
