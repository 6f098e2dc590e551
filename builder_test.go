package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/ggoodman/wizard-go/schema"
	"github.com/ggoodman/wizard-go/wizardtest"
	"github.com/google/go-cmp/cmp"
)

func TestRunCollectsAndReconstructs(t *testing.T) {
	got, err := Run[person](context.Background(), wizardtest.New(
		wizardtest.WithString("name", "Alice"),
		wizardtest.WithInt("age", 30),
	))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Name != "Alice" || got.Age != 30 {
		t.Fatalf("got %+v", got)
	}
}

func TestRunReturnsValidationError(t *testing.T) {
	_, err := Run[person](context.Background(), wizardtest.New(
		wizardtest.WithString("name", "Alice"),
		wizardtest.WithInt("age", 17),
	))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["age"] == "" {
		t.Fatalf("fields = %v", ve.Fields)
	}
}

func TestRunPropagatesCollectorError(t *testing.T) {
	boom := errors.New("terminal gone")
	_, err := Run[person](context.Background(), wizardtest.New(wizardtest.FailWith(boom)))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuilderSuggestBecomesDefault(t *testing.T) {
	sch, err := NewBuilder[person]().Suggest("age", 21).Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	q, _ := sch.Lookup(schema.NewPath("age"))
	if q.Default.Mode() != schema.DefaultSuggested {
		t.Fatalf("default mode = %v", q.Default.Mode())
	}
	v, _ := q.Default.Value()
	if n, _ := v.AsInt(); n != 21 {
		t.Fatalf("default = %v", v)
	}
}

func TestBuilderAssumeWinsOverSuggest(t *testing.T) {
	sch, err := NewBuilder[person]().
		Suggest("age", 21).
		Assume("age", 40).
		Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	q, _ := sch.Lookup(schema.NewPath("age"))
	if q.Default.Mode() != schema.DefaultAssumed {
		t.Fatalf("default mode = %v", q.Default.Mode())
	}
	v, _ := q.Default.Value()
	if n, _ := v.AsInt(); n != 40 {
		t.Fatalf("default = %v", v)
	}
}

func TestBuilderAssumedAnswerCannotBeOverridden(t *testing.T) {
	got, err := NewBuilder[person]().
		Assume("age", 40).
		Run(context.Background(), wizardtest.New(
			wizardtest.WithString("name", "Alice"),
			wizardtest.WithInt("age", 99),
		))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Age != 40 {
		t.Fatalf("assumed answer was overridden: %+v", got)
	}
}

func TestBuilderAssumedValuesStillValidated(t *testing.T) {
	_, err := NewBuilder[person]().
		Assume("age", 17).
		Run(context.Background(), wizardtest.New(
			wizardtest.WithString("name", "Alice"),
		))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuilderSuggestUnknownPath(t *testing.T) {
	if err := NewBuilder[person]().Suggest("nope", 1).Err(); err == nil {
		t.Fatal("unknown path accepted")
	}
}

func TestBuilderCoerceMismatch(t *testing.T) {
	if err := NewBuilder[person]().Suggest("age", "thirty").Err(); err == nil {
		t.Fatal("mistyped suggestion accepted")
	}
}

func TestBuilderAssumeOneOfSelection(t *testing.T) {
	type checkout struct {
		Payment Payment `prompt:"Payment method"`
	}
	got, err := NewBuilder[checkout]().
		Assume("payment", 0).
		Run(context.Background(), wizardtest.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := got.Payment.(Cash); !ok {
		t.Fatalf("payment = %T", got.Payment)
	}
}

func TestRoundTripWithExisting(t *testing.T) {
	original := order{
		Customer: "Alice",
		Address:  address{Street: "Main", City: "Reno"},
		Payment:  Card{Number: "4111", Expiry: "12/30"},
		Features: []Feature{Gps{}, Camera{}},
		Notes:    []string{"fragile", "gift"},
		Weight:   1.5,
		Express:  true,
	}

	got, err := NewBuilder[order]().
		WithExisting(original).
		Run(context.Background(), wizardtest.New(wizardtest.AcceptDefaults()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(original, got); diff != "" {
		t.Fatalf("round trip mismatch (-original +got):\n%s", diff)
	}
}

func TestRoundTripWithExistingEditOneAnswer(t *testing.T) {
	original := order{
		Customer: "Alice",
		Address:  address{Street: "Main", City: "Reno"},
		Payment:  Cash{},
		Features: []Feature{},
		Notes:    []string{},
		Weight:   2.0,
	}

	got, err := NewBuilder[order]().
		WithExisting(original).
		Run(context.Background(), wizardtest.New(
			wizardtest.AcceptDefaults(),
			wizardtest.WithString("address.city", "Fallon"),
		))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Address.City != "Fallon" {
		t.Fatalf("edited answer lost: %+v", got.Address)
	}
	if got.Customer != "Alice" || got.Address.Street != "Main" {
		t.Fatalf("untouched answers changed: %+v", got)
	}
}

func TestBuilderErrSticksOnBadShape(t *testing.T) {
	type broken struct {
		Name string
	}
	b := NewBuilder[broken]().Suggest("name", "x")
	var ae *AuthoringError
	if !errors.As(b.Err(), &ae) {
		t.Fatalf("expected AuthoringError, got %v", b.Err())
	}
	if _, err := b.Run(context.Background(), wizardtest.New()); !errors.As(err, &ae) {
		t.Fatalf("Run err = %v", err)
	}
}
