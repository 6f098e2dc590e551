package schema

// Schema is the derived question tree for one shape: an ordered sequence of
// top-level questions plus optional prelude/epilogue text. No two questions
// anywhere in the tree share a path.
type Schema struct {
	Prelude   string
	Epilogue  string
	Questions []Question
}

// Walk visits every question in the tree in depth-first, declaration order,
// descending into AllOf children and OneOf alternatives. It stops early if
// fn returns false.
func (s *Schema) Walk(fn func(q Question) bool) {
	walkQuestions(s.Questions, fn)
}

func walkQuestions(qs []Question, fn func(q Question) bool) bool {
	for _, q := range qs {
		if !fn(q) {
			return false
		}
		switch kind := q.Kind.(type) {
		case AllOf:
			if !walkQuestions(kind.Children, fn) {
				return false
			}
		case OneOf:
			for _, alt := range kind.Alternatives {
				if !walkQuestions(alt.Questions, fn) {
					return false
				}
			}
		}
	}
	return true
}

// Flatten returns every question in the tree in walk order.
func (s *Schema) Flatten() []Question {
	var out []Question
	s.Walk(func(q Question) bool {
		out = append(out, q)
		return true
	})
	return out
}

// Lookup finds the question bound to the given path anywhere in the tree.
func (s *Schema) Lookup(p Path) (Question, bool) {
	var found Question
	ok := false
	s.Walk(func(q Question) bool {
		if q.Path.Equal(p) {
			found, ok = q, true
			return false
		}
		return true
	})
	return found, ok
}

// Clone returns a deep copy of the schema. Mutating the copy (for example,
// rewriting default policies) leaves the original untouched.
func (s *Schema) Clone() *Schema {
	return &Schema{
		Prelude:   s.Prelude,
		Epilogue:  s.Epilogue,
		Questions: cloneQuestions(s.Questions),
	}
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q Question) Question {
	switch kind := q.Kind.(type) {
	case AllOf:
		q.Kind = AllOf{Children: cloneQuestions(kind.Children)}
	case OneOf:
		alts := make([]Alternative, len(kind.Alternatives))
		for i, alt := range kind.Alternatives {
			alts[i] = Alternative{Name: alt.Name, Questions: cloneQuestions(alt.Questions)}
		}
		q.Kind = OneOf{Alternatives: alts}
	case AnyOf:
		q.Kind = AnyOf{Options: append([]string(nil), kind.Options...)}
	}
	return q
}

// Rebase returns a deep copy of qs with every path in the tree re-rooted
// under parent: parent's segments are prepended to each question's path.
// This is the splice a parent shape performs when embedding a child shape's
// derived questions.
func Rebase(qs []Question, parent Path) []Question {
	out := cloneQuestions(qs)
	rebaseInPlace(out, parent)
	return out
}

func rebaseInPlace(qs []Question, parent Path) {
	for i := range qs {
		qs[i].Path = parent.Join(qs[i].Path)
		switch kind := qs[i].Kind.(type) {
		case AllOf:
			rebaseInPlace(kind.Children, parent)
		case OneOf:
			for _, alt := range kind.Alternatives {
				rebaseInPlace(alt.Questions, parent)
			}
		}
	}
}
