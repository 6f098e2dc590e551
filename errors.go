package wizard

import (
	"fmt"

	"github.com/ggoodman/wizard-go/schema"
)

// AuthoringError reports a malformed shape declaration. It is returned at
// derivation time and is always a programming error in the shape type, not a
// runtime condition.
type AuthoringError struct {
	Shape  string // shape type name
	Field  string // offending field or variant, "" when the shape itself is at fault
	Reason string
}

func (e *AuthoringError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("wizard: invalid shape %s: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("wizard: invalid shape %s: field %s: %s", e.Shape, e.Field, e.Reason)
}

// UnknownVariantError reports a chosen-variant index outside the registered
// variant count during reconstruction.
type UnknownVariantError struct {
	Path  schema.Path
	Index int
	Count int
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %d at %q (have %d variants)", e.Index, e.Path.String(), e.Count)
}

// authoringErr is a small constructor shorthand used throughout derivation.
func authoringErr(shape, field, format string, args ...any) *AuthoringError {
	return &AuthoringError{Shape: shape, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// rebasePathErr re-roots the path carried by a typed store/reconstruction
// error under prefix. Nested shapes read from prefix-stripped sub-stores, so
// their errors come back with local paths; callers rebase them so the
// reported path identifies the absolute location.
func rebasePathErr(err error, prefix schema.Path) error {
	if prefix.IsRoot() || err == nil {
		return err
	}
	switch e := err.(type) {
	case *schema.MissingAnswerError:
		return &schema.MissingAnswerError{Path: prefix.Join(e.Path)}
	case *schema.KindMismatchError:
		return &schema.KindMismatchError{Path: prefix.Join(e.Path), Want: e.Want, Got: e.Got}
	case *UnknownVariantError:
		return &UnknownVariantError{Path: prefix.Join(e.Path), Index: e.Index, Count: e.Count}
	default:
		return err
	}
}
