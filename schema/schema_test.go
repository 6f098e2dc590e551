package schema

import "testing"

func demoSchema() *Schema {
	return &Schema{
		Questions: []Question{
			{Path: NewPath("name"), Prompt: "Name", Kind: Input{}},
			{Path: NewPath("address"), Prompt: "Address", Kind: AllOf{Children: []Question{
				{Path: ParsePath("address.street"), Prompt: "Street", Kind: Input{}},
				{Path: ParsePath("address.city"), Prompt: "City", Kind: Input{}},
			}}},
			{Path: NewPath("payment"), Prompt: "Payment", Kind: OneOf{Alternatives: []Alternative{
				{Name: "Cash", Questions: []Question{
					{Path: ParsePath("payment.alternatives.0"), Prompt: "Cash", Kind: Unit{}},
				}},
				{Name: "Card", Questions: []Question{
					{Path: ParsePath("payment.alternatives.1.number"), Prompt: "Number", Kind: Input{}},
				}},
			}}},
		},
	}
}

func TestWalkOrder(t *testing.T) {
	var got []string
	demoSchema().Walk(func(q Question) bool {
		got = append(got, q.Path.String())
		return true
	})
	want := []string{
		"name",
		"address", "address.street", "address.city",
		"payment", "payment.alternatives.0", "payment.alternatives.1.number",
	}
	if len(got) != len(want) {
		t.Fatalf("visited %d questions: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	count := 0
	demoSchema().Walk(func(q Question) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("visited %d questions after stop", count)
	}
}

func TestLookup(t *testing.T) {
	s := demoSchema()
	q, ok := s.Lookup(ParsePath("payment.alternatives.1.number"))
	if !ok {
		t.Fatal("nested lookup failed")
	}
	if q.Prompt != "Number" {
		t.Fatalf("prompt = %q", q.Prompt)
	}
	if _, ok := s.Lookup(ParsePath("nope")); ok {
		t.Fatal("lookup of unknown path succeeded")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := demoSchema()
	c := s.Clone()

	kind := c.Questions[1].Kind.(AllOf)
	kind.Children[0].Prompt = "mutated"

	orig := s.Questions[1].Kind.(AllOf)
	if orig.Children[0].Prompt != "Street" {
		t.Fatal("clone shares question storage with the original")
	}
}

func TestRebase(t *testing.T) {
	child := []Question{
		{Path: NewPath("street"), Prompt: "Street", Kind: Input{}},
		{Path: NewPath("inner"), Prompt: "Inner", Kind: AllOf{Children: []Question{
			{Path: ParsePath("inner.deep"), Prompt: "Deep", Kind: Input{}},
		}}},
	}
	out := Rebase(child, NewPath("home"))

	if got := out[0].Path.String(); got != "home.street" {
		t.Fatalf("rebased path = %q", got)
	}
	deep := out[1].Kind.(AllOf).Children[0].Path.String()
	if deep != "home.inner.deep" {
		t.Fatalf("nested rebased path = %q", deep)
	}

	// Source slice untouched.
	if child[0].Path.String() != "street" {
		t.Fatal("Rebase mutated its input")
	}
}
