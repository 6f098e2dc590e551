// Package wizardtest provides a scripted answer backend for exercising
// collection flows without a terminal. Tests seed it with the answers they
// want given and hand it to a builder's Run; unanswered questions fall back
// to suggested defaults when AcceptDefaults is set.
package wizardtest

import (
	"context"
	"fmt"

	"github.com/ggoodman/wizard-go/schema"
)

// Collector replays scripted answers against a derived schema, in schema
// order. It never blocks and never prompts.
type Collector struct {
	answers        map[string]schema.Value
	acceptDefaults bool
	failErr        error
}

// Option configures a scripted collector.
type Option func(*Collector)

// WithString scripts a text answer.
func WithString(path, v string) Option {
	return func(c *Collector) { c.answers[path] = schema.NewString(v) }
}

// WithInt scripts an integer answer.
func WithInt(path string, v int64) Option {
	return func(c *Collector) { c.answers[path] = schema.NewInt(v) }
}

// WithFloat scripts a number answer.
func WithFloat(path string, v float64) Option {
	return func(c *Collector) { c.answers[path] = schema.NewFloat(v) }
}

// WithBool scripts a yes/no answer.
func WithBool(path string, v bool) Option {
	return func(c *Collector) { c.answers[path] = schema.NewBool(v) }
}

// WithVariant scripts the selection of one alternative, by index, for the
// one-of question at path.
func WithVariant(path string, idx int) Option {
	return func(c *Collector) { c.answers[path] = schema.NewVariant(idx) }
}

// WithVariantSet scripts a multi-selection, by indexes.
func WithVariantSet(path string, idxs ...int) Option {
	return func(c *Collector) { c.answers[path] = schema.NewVariantSet(idxs...) }
}

// WithStringList scripts a list-of-text answer.
func WithStringList(path string, vs ...string) Option {
	return func(c *Collector) { c.answers[path] = schema.NewStringList(vs...) }
}

// WithIntList scripts a list-of-integer answer.
func WithIntList(path string, vs ...int64) Option {
	return func(c *Collector) { c.answers[path] = schema.NewIntList(vs...) }
}

// WithFloatList scripts a list-of-number answer.
func WithFloatList(path string, vs ...float64) Option {
	return func(c *Collector) { c.answers[path] = schema.NewFloatList(vs...) }
}

// WithValue scripts an already-tagged answer.
func WithValue(path string, v schema.Value) Option {
	return func(c *Collector) { c.answers[path] = v }
}

// AcceptDefaults makes the collector answer every unscripted question with
// its suggested default, mimicking a user pressing enter through the run.
func AcceptDefaults() Option {
	return func(c *Collector) { c.acceptDefaults = true }
}

// FailWith makes Collect return err immediately, for exercising abort paths.
func FailWith(err error) Option {
	return func(c *Collector) { c.failErr = err }
}

// New builds a scripted collector from the given options.
func New(opts ...Option) *Collector {
	c := &Collector{answers: make(map[string]schema.Value)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect replays the script over the schema. Scripted answers win over
// defaults; assumed defaults are honored without consuming script entries;
// only the selected alternative of a one-of group is descended into.
func (c *Collector) Collect(ctx context.Context, s *schema.Schema, seed *schema.Store) (*schema.Store, error) {
	if c.failErr != nil {
		return nil, c.failErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store := schema.NewStore()
	if seed != nil {
		store.Merge(seed)
	}
	if err := c.fill(s.Questions, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (c *Collector) fill(qs []schema.Question, store *schema.Store) error {
	for _, q := range qs {
		switch kind := q.Kind.(type) {
		case schema.Unit:
			continue

		case schema.AllOf:
			if err := c.fill(kind.Children, store); err != nil {
				return err
			}

		case schema.OneOf:
			selPath := q.Path.Child(schema.SelectedAlternative)
			if v, ok := c.resolve(q, q.Path.String()); ok {
				store.Set(selPath, v)
			}
			sel, ok := store.Get(selPath)
			if !ok {
				continue
			}
			idx, isVariant := sel.AsVariant()
			if !isVariant || idx < 0 || idx >= len(kind.Alternatives) {
				return fmt.Errorf("wizardtest: scripted selection at %q is not a valid alternative", q.Path.String())
			}
			if err := c.fill(kind.Alternatives[idx].Questions, store); err != nil {
				return err
			}

		default:
			if v, ok := c.resolve(q, q.Path.String()); ok {
				store.Set(q.Path, v)
			}
		}
	}
	return nil
}

// resolve picks the answer for one question: the scripted value if present,
// the assumed default unconditionally, the suggested default only when
// AcceptDefaults is on.
func (c *Collector) resolve(q schema.Question, key string) (schema.Value, bool) {
	if v, ok := c.answers[key]; ok {
		return v, true
	}
	switch q.Default.Mode() {
	case schema.DefaultAssumed:
		return q.Default.Value()
	case schema.DefaultSuggested:
		if c.acceptDefaults {
			return q.Default.Value()
		}
	}
	return schema.Value{}, false
}
