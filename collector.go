package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ggoodman/wizard-go/schema"
)

// Collector gathers answers for a schema. Implementations range from
// interactive terminal sessions to scripted backends for tests. The seed
// store holds values injected ahead of collection; collectors must carry
// them through into the returned store and must honor each question's
// default policy.
type Collector interface {
	Collect(ctx context.Context, s *schema.Schema, seed *schema.Store) (*schema.Store, error)
}

// ValidationError reports the questions that failed validation after
// collection, keyed by dotted path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "wizard: validation failed"
	}
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var sb strings.Builder
	fmt.Fprintf(&sb, "wizard: %d answer(s) failed validation:", len(paths))
	for _, p := range paths {
		fmt.Fprintf(&sb, "\n  %s: %s", p, e.Fields[p])
	}
	return sb.String()
}

// Run derives the schema for T, collects answers with c, validates them and
// reconstructs the result. It is shorthand for an unconfigured Builder.
func Run[T any](ctx context.Context, c Collector) (T, error) {
	return NewBuilder[T]().Run(ctx, c)
}
