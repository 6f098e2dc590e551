package wizard

import (
	"fmt"

	"github.com/ggoodman/wizard-go/schema"
)

// Payment is a variant set with a data-free, a struct-payload and a
// primitive-payload alternative.
type Payment interface{ isPayment() }

type Cash struct{}

type Card struct {
	Number string `prompt:"Card number"`
	Expiry string `prompt:"Expiry (MM/YY)"`
}

// GiftCode is a bare-primitive payload: the variant carries one string.
type GiftCode string

func (Cash) isPayment()     {}
func (Card) isPayment()     {}
func (GiftCode) isPayment() {}

// Feature is a variant set with only data-free alternatives, usable in
// multi-selections.
type Feature interface{ isFeature() }

type Gps struct{}
type Bluetooth struct{}
type Camera struct{}

func (Gps) isFeature()       {}
func (Bluetooth) isFeature() {}
func (Camera) isFeature()    {}

func init() {
	RegisterEnum[Payment](
		Variant{Name: "Cash", Proto: Cash{}},
		Variant{Name: "Card", Proto: Card{}},
		Variant{Name: "GiftCode", Proto: GiftCode("")},
	)
	RegisterEnum[Feature](
		Variant{Name: "Gps", Proto: Gps{}},
		Variant{Name: "Bluetooth", Proto: Bluetooth{}},
		Variant{Name: "Camera", Proto: Camera{}},
	)
}

type person struct {
	Name string `prompt:"Your name"`
	Age  int64  `prompt:"Your age" wizard:"min=18,max=120"`
}

type address struct {
	Street string `prompt:"Street"`
	City   string `prompt:"City"`
}

type profile struct {
	Name    string  `prompt:"Name"`
	Address address `prompt:"Address"`
}

type order struct {
	Customer string    `prompt:"Customer name"`
	Address  address   `prompt:"Delivery address"`
	Payment  Payment   `prompt:"Payment method"`
	Features []Feature `prompt:"Extra features" wizard:"multiselect"`
	Notes    []string  `prompt:"Order notes"`
	Weight   float64   `prompt:"Weight (kg)" wizard:"min=0.1"`
	Express  bool      `prompt:"Express delivery?" wizard:"default=false"`
}

// ruled exercises the three validation hooks together.
type ruled struct {
	Username string `prompt:"Username"`
	Password string `prompt:"Password" wizard:"mask"`
	Confirm  string `prompt:"Repeat password" wizard:"mask"`
	Retries  int64  `prompt:"Retries"`
	Timeout  int64  `prompt:"Timeout (s)"`
}

func (ruled) FieldRules() map[string]Rule {
	return map[string]Rule{
		"username": func(v schema.Value, _ *schema.Store, _ schema.Path) error {
			s, _ := v.AsString()
			if s == "" {
				return fmt.Errorf("must not be empty")
			}
			return nil
		},
	}
}

func (ruled) NumericRule() Rule {
	return func(v schema.Value, _ *schema.Store, _ schema.Path) error {
		n, ok := v.AsInt()
		if ok && n < 0 {
			return fmt.Errorf("must not be negative")
		}
		return nil
	}
}

func (ruled) CrossCheck(answers *schema.Store) map[string]string {
	pw, err1 := answers.StringAt(schema.NewPath("password"))
	rep, err2 := answers.StringAt(schema.NewPath("confirm"))
	if err1 == nil && err2 == nil && pw != rep {
		return map[string]string{"confirm": "passwords do not match"}
	}
	return nil
}

func storeOf(entries map[string]schema.Value) *schema.Store {
	s := schema.NewStore()
	for k, v := range entries {
		s.Set(schema.ParsePath(k), v)
	}
	return s
}
