// Package termprompt collects answers interactively on a terminal. It walks
// the derived schema in order, prompting for each question, honoring default
// policies and optionally validating each answer as it is entered so the user
// can correct mistakes immediately.
package termprompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	wizard "github.com/ggoodman/wizard-go"
	"github.com/ggoodman/wizard-go/internal/logctx"
	"github.com/ggoodman/wizard-go/schema"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// Collector prompts for answers on a terminal.
type Collector struct {
	in          io.Reader
	out         io.Writer
	log         *slog.Logger
	validator   *wizard.Validator
	maxAttempts int
	interactive bool
}

// Option configures a terminal collector.
type Option func(*Collector)

// WithInput reads answers from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(c *Collector) { c.in = r }
}

// WithOutput writes prompts to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Collector) { c.out = w }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Collector) { c.log = log }
}

// WithValidator validates each answer as it is entered, re-prompting on
// failure, instead of leaving all validation to the post-collection pass.
func WithValidator(v *wizard.Validator) Option {
	return func(c *Collector) { c.validator = v }
}

// WithMaxAttempts bounds how often one question is re-asked after invalid
// input before the collection aborts. Defaults to 3.
func WithMaxAttempts(n int) Option {
	return func(c *Collector) { c.maxAttempts = n }
}

// New builds a terminal collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		in:          os.Stdin,
		out:         os.Stdout,
		log:         slog.Default(),
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	if f, ok := c.in.(*os.File); ok {
		c.interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return c
}

// Collect walks the schema, prompting question by question. Assumed answers
// are carried over without prompting; suggested answers are offered as the
// value an empty input accepts. Only the selected alternative of a one-of
// group is descended into.
func (c *Collector) Collect(ctx context.Context, s *schema.Schema, seed *schema.Store) (*schema.Store, error) {
	store := schema.NewStore()
	if seed != nil {
		store.Merge(seed)
	}

	scanner := bufio.NewScanner(c.in)

	if !c.interactive {
		c.log.DebugContext(ctx, "input is not a terminal, collecting from piped input")
	}
	if s.Prelude != "" {
		c.banner(s.Prelude)
	}
	if err := c.ask(ctx, s.Questions, store, scanner); err != nil {
		return nil, err
	}
	if s.Epilogue != "" {
		fmt.Fprintf(c.out, "\n%s\n", s.Epilogue)
	}
	return store, nil
}

func (c *Collector) banner(text string) {
	fmt.Fprintln(c.out, text)
	if c.interactive {
		fmt.Fprintln(c.out, strings.Repeat("=", runewidth.StringWidth(text)))
	}
}

func (c *Collector) ask(ctx context.Context, qs []schema.Question, store *schema.Store, scanner *bufio.Scanner) error {
	for _, q := range qs {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch kind := q.Kind.(type) {
		case schema.Unit:
			continue

		case schema.AllOf:
			if err := c.ask(ctx, kind.Children, store, scanner); err != nil {
				return err
			}

		case schema.OneOf:
			if err := c.askOneOf(ctx, q, kind, store, scanner); err != nil {
				return err
			}

		default:
			if v, ok := assumedValue(q); ok {
				store.Set(q.Path, v)
				c.log.DebugContext(logctx.WithQuestionPath(ctx, q.Path.String()), "answer assumed")
				continue
			}
			v, err := c.askLeaf(q, store, scanner)
			if err != nil {
				return err
			}
			store.Set(q.Path, v)
		}
	}
	return nil
}

func (c *Collector) askOneOf(ctx context.Context, q schema.Question, kind schema.OneOf, store *schema.Store, scanner *bufio.Scanner) error {
	selPath := q.Path.Child(schema.SelectedAlternative)

	var idx int
	if v, ok := assumedValue(q); ok {
		i, isVariant := v.AsVariant()
		if !isVariant || i < 0 || i >= len(kind.Alternatives) {
			return fmt.Errorf("termprompt: assumed selection at %q is not a valid alternative", q.Path.String())
		}
		idx = i
		c.log.DebugContext(logctx.WithQuestionPath(ctx, q.Path.String()), "selection assumed", slog.Int("alternative", idx))
	} else {
		i, err := c.promptSelection(q, kind, scanner)
		if err != nil {
			return err
		}
		idx = i
	}

	store.Set(selPath, schema.NewVariant(idx))
	return c.ask(ctx, kind.Alternatives[idx].Questions, store, scanner)
}

func (c *Collector) promptSelection(q schema.Question, kind schema.OneOf, scanner *bufio.Scanner) (int, error) {
	fmt.Fprintf(c.out, "\n%s\n", q.Prompt)
	width := 0
	for _, alt := range kind.Alternatives {
		if w := runewidth.StringWidth(alt.Name); w > width {
			width = w
		}
	}
	for i, alt := range kind.Alternatives {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, runewidth.FillRight(alt.Name, width))
	}

	def, hasDef := suggestedVariant(q, len(kind.Alternatives))
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if hasDef {
			fmt.Fprintf(c.out, "Choose 1-%d [%s]: ", len(kind.Alternatives), kind.Alternatives[def].Name)
		} else {
			fmt.Fprintf(c.out, "Choose 1-%d: ", len(kind.Alternatives))
		}
		line, err := readLine(scanner)
		if err != nil {
			return 0, err
		}
		if line == "" && hasDef {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(kind.Alternatives) {
			return n - 1, nil
		}
		fmt.Fprintln(c.out, "Please enter a number from the list.")
	}
	return 0, fmt.Errorf("termprompt: no valid selection for %q after %d attempts", q.Path.String(), c.maxAttempts)
}

func (c *Collector) askLeaf(q schema.Question, store *schema.Store, scanner *bufio.Scanner) (schema.Value, error) {
	def, hasDef := q.Default.Value()
	if _, masked := q.Kind.(schema.Masked); masked {
		// Never echo a secret back as part of the prompt.
		hasDef = false
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		c.printPrompt(q, def, hasDef)
		line, err := readLine(scanner)
		if err != nil {
			return schema.Value{}, err
		}
		if line == "" && hasDef {
			return def, nil
		}

		v, err := parseAnswer(q.Kind, line)
		if err != nil {
			fmt.Fprintln(c.out, err.Error())
			continue
		}
		if c.validator != nil {
			if err := c.validator.ValidateField(q.Path, v, store); err != nil {
				fmt.Fprintln(c.out, err.Error())
				continue
			}
		}
		return v, nil
	}
	return schema.Value{}, fmt.Errorf("termprompt: no valid answer for %q after %d attempts", q.Path.String(), c.maxAttempts)
}

func (c *Collector) printPrompt(q schema.Question, def schema.Value, hasDef bool) {
	hint := promptHint(q.Kind)
	switch {
	case hasDef:
		fmt.Fprintf(c.out, "%s [%s]: ", q.Prompt, defaultLabel(def))
	case hint != "":
		fmt.Fprintf(c.out, "%s (%s): ", q.Prompt, hint)
	default:
		fmt.Fprintf(c.out, "%s: ", q.Prompt)
	}
}

func promptHint(k schema.QuestionKind) string {
	switch kind := k.(type) {
	case schema.Confirm:
		return "y/n"
	case schema.Int:
		switch {
		case kind.Min != nil && kind.Max != nil:
			return fmt.Sprintf("%d-%d", *kind.Min, *kind.Max)
		case kind.Min != nil:
			return fmt.Sprintf(">= %d", *kind.Min)
		case kind.Max != nil:
			return fmt.Sprintf("<= %d", *kind.Max)
		}
	case schema.Float:
		switch {
		case kind.Min != nil && kind.Max != nil:
			return fmt.Sprintf("%g-%g", *kind.Min, *kind.Max)
		case kind.Min != nil:
			return fmt.Sprintf(">= %g", *kind.Min)
		case kind.Max != nil:
			return fmt.Sprintf("<= %g", *kind.Max)
		}
	case schema.List:
		return "comma separated"
	case schema.AnyOf:
		parts := make([]string, len(kind.Options))
		for i, name := range kind.Options {
			parts[i] = fmt.Sprintf("%d=%s", i+1, name)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func defaultLabel(v schema.Value) string {
	switch v.Kind() {
	case schema.ValueString:
		s, _ := v.AsString()
		return s
	case schema.ValueBool:
		b, _ := v.AsBool()
		if b {
			return "y"
		}
		return "n"
	case schema.ValueStringList:
		vs, _ := v.AsStringList()
		return strings.Join(vs, ",")
	default:
		return v.String()
	}
}

func parseAnswer(k schema.QuestionKind, line string) (schema.Value, error) {
	switch kind := k.(type) {
	case schema.Input, schema.Masked:
		return schema.NewString(line), nil

	case schema.Multiline:
		// Single-prompt capture; literal "\n" separates lines.
		return schema.NewString(strings.ReplaceAll(line, `\n`, "\n")), nil

	case schema.Confirm:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "true":
			return schema.NewBool(true), nil
		case "n", "no", "false":
			return schema.NewBool(false), nil
		}
		return schema.Value{}, fmt.Errorf("please answer y or n")

	case schema.Int:
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return schema.Value{}, fmt.Errorf("please enter a whole number")
		}
		return schema.NewInt(n), nil

	case schema.Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return schema.Value{}, fmt.Errorf("please enter a number")
		}
		return schema.NewFloat(f), nil

	case schema.List:
		return parseList(kind.Elem, line)

	case schema.AnyOf:
		return parseSelectionSet(line, len(kind.Options))
	}
	return schema.Value{}, fmt.Errorf("termprompt: unpromptable question kind %T", k)
}

func parseList(elem schema.PrimitiveKind, line string) (schema.Value, error) {
	parts := splitList(line)
	switch elem {
	case schema.PrimitiveInt:
		vs := make([]int64, len(parts))
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return schema.Value{}, fmt.Errorf("%q is not a whole number", p)
			}
			vs[i] = n
		}
		return schema.NewIntList(vs...), nil
	case schema.PrimitiveFloat:
		vs := make([]float64, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return schema.Value{}, fmt.Errorf("%q is not a number", p)
			}
			vs[i] = f
		}
		return schema.NewFloatList(vs...), nil
	default:
		return schema.NewStringList(parts...), nil
	}
}

func parseSelectionSet(line string, count int) (schema.Value, error) {
	parts := splitList(line)
	idxs := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > count {
			return schema.Value{}, fmt.Errorf("%q is not an option number", p)
		}
		idxs = append(idxs, n-1)
	}
	return schema.NewVariantSet(idxs...), nil
}

func splitList(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	raw := strings.Split(line, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func assumedValue(q schema.Question) (schema.Value, bool) {
	if q.Default.Mode() != schema.DefaultAssumed {
		return schema.Value{}, false
	}
	return q.Default.Value()
}

func suggestedVariant(q schema.Question, count int) (int, bool) {
	if q.Default.Mode() != schema.DefaultSuggested {
		return 0, false
	}
	v, ok := q.Default.Value()
	if !ok {
		return 0, false
	}
	idx, isVariant := v.AsVariant()
	if !isVariant || idx < 0 || idx >= count {
		return 0, false
	}
	return idx, true
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("termprompt: read answer: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}
