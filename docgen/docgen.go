// Package docgen exports derived question schemas as documentation
// artifacts: a JSON Schema describing the shape's answers, and an HTML
// question reference. Neither is consumed by the engine itself; they exist
// so the questions a tool will ask can be reviewed or published.
package docgen

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/ggoodman/wizard-go/schema"
	"github.com/invopop/jsonschema"
)

// JSONSchema converts a derived question schema to a JSON Schema document.
// Structural nesting becomes nested objects, variant groups become oneOf
// branches, and numeric bounds carry over as minimum/maximum.
func JSONSchema(s *schema.Schema) *jsonschema.Schema {
	root := objectSchema(s.Questions)
	root.Version = jsonschema.Version
	root.Description = s.Prelude
	return root
}

// MarshalJSONSchema renders the JSON Schema document as indented JSON.
func MarshalJSONSchema(s *schema.Schema) ([]byte, error) {
	return json.MarshalIndent(JSONSchema(s), "", "  ")
}

func objectSchema(qs []schema.Question) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string
	for _, q := range qs {
		name := q.Path.Base()
		props.Set(name, questionSchema(q))
		if q.Default.Mode() == schema.DefaultNone {
			required = append(required, name)
		}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func questionSchema(q schema.Question) *jsonschema.Schema {
	out := &jsonschema.Schema{Description: q.Prompt}

	switch kind := q.Kind.(type) {
	case schema.Unit:
		out.Type = "object"

	case schema.Input, schema.Multiline:
		out.Type = "string"

	case schema.Masked:
		out.Type = "string"
		out.Format = "password"

	case schema.Int:
		out.Type = "integer"
		if kind.Min != nil {
			out.Minimum = json.Number(strconv.FormatInt(*kind.Min, 10))
		}
		if kind.Max != nil {
			out.Maximum = json.Number(strconv.FormatInt(*kind.Max, 10))
		}

	case schema.Float:
		out.Type = "number"
		if kind.Min != nil {
			out.Minimum = json.Number(strconv.FormatFloat(*kind.Min, 'g', -1, 64))
		}
		if kind.Max != nil {
			out.Maximum = json.Number(strconv.FormatFloat(*kind.Max, 'g', -1, 64))
		}

	case schema.Confirm:
		out.Type = "boolean"

	case schema.List:
		out.Type = "array"
		elem := &jsonschema.Schema{}
		switch kind.Elem {
		case schema.PrimitiveInt:
			elem.Type = "integer"
		case schema.PrimitiveFloat:
			elem.Type = "number"
		default:
			elem.Type = "string"
		}
		out.Items = elem

	case schema.AnyOf:
		out.Type = "array"
		out.UniqueItems = true
		enum := make([]any, len(kind.Options))
		for i, name := range kind.Options {
			enum[i] = name
		}
		out.Items = &jsonschema.Schema{Type: "string", Enum: enum}

	case schema.AllOf:
		nested := objectSchema(kind.Children)
		nested.Description = q.Prompt
		return nested

	case schema.OneOf:
		out.OneOf = make([]*jsonschema.Schema, len(kind.Alternatives))
		for i, alt := range kind.Alternatives {
			branch := alternativeSchema(alt)
			branch.Title = alt.Name
			out.OneOf[i] = branch
		}
	}

	if v, ok := q.Default.Value(); ok {
		out.Default = defaultJSON(v)
	}
	return out
}

// alternativeSchema maps one variant branch. A data-free variant is an empty
// object; payload questions become the branch's properties.
func alternativeSchema(alt schema.Alternative) *jsonschema.Schema {
	if len(alt.Questions) == 1 {
		if _, unit := alt.Questions[0].Kind.(schema.Unit); unit {
			return &jsonschema.Schema{Type: "object"}
		}
	}
	return objectSchema(alt.Questions)
}

func defaultJSON(v schema.Value) any {
	switch v.Kind() {
	case schema.ValueString:
		s, _ := v.AsString()
		return s
	case schema.ValueInt:
		n, _ := v.AsInt()
		return n
	case schema.ValueFloat:
		f, _ := v.AsFloat()
		return f
	case schema.ValueBool:
		b, _ := v.AsBool()
		return b
	case schema.ValueVariant:
		idx, _ := v.AsVariant()
		return idx
	case schema.ValueVariantSet:
		set, _ := v.AsVariantSet()
		return set
	case schema.ValueStringList:
		vs, _ := v.AsStringList()
		return vs
	case schema.ValueIntList:
		vs, _ := v.AsIntList()
		return vs
	case schema.ValueFloatList:
		vs, _ := v.AsFloatList()
		return vs
	default:
		return nil
	}
}

var htmlTmpl = template.Must(template.New("questions").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Question reference</title></head>
<body>
{{- if .Prelude}}
<p>{{.Prelude}}</p>
{{- end}}
<table border="1" cellpadding="4">
<tr><th>Path</th><th>Prompt</th><th>Kind</th><th>Default</th></tr>
{{- range .Rows}}
<tr><td><code>{{.Path}}</code></td><td>{{.Prompt}}</td><td>{{.Kind}}</td><td>{{.Default}}</td></tr>
{{- end}}
</table>
{{- if .Epilogue}}
<p>{{.Epilogue}}</p>
{{- end}}
</body>
</html>
`))

type htmlRow struct {
	Path    string
	Prompt  string
	Kind    string
	Default string
}

type htmlData struct {
	Prelude  string
	Epilogue string
	Rows     []htmlRow
}

// RenderHTML writes an HTML table listing every question in walk order.
func RenderHTML(w io.Writer, s *schema.Schema) error {
	data := htmlData{Prelude: s.Prelude, Epilogue: s.Epilogue}
	s.Walk(func(q schema.Question) bool {
		data.Rows = append(data.Rows, htmlRow{
			Path:    q.Path.String(),
			Prompt:  q.Prompt,
			Kind:    kindLabel(q.Kind),
			Default: defaultLabel(q.Default),
		})
		return true
	})
	return htmlTmpl.Execute(w, data)
}

func kindLabel(k schema.QuestionKind) string {
	switch kind := k.(type) {
	case schema.Unit:
		return "marker"
	case schema.Input:
		return "text"
	case schema.Multiline:
		return "multi-line text"
	case schema.Masked:
		return "secret"
	case schema.Int:
		return "integer" + boundsSuffix(kind.Min, kind.Max)
	case schema.Float:
		return "number" + floatBoundsSuffix(kind.Min, kind.Max)
	case schema.Confirm:
		return "yes/no"
	case schema.List:
		return "list of " + kind.Elem.String()
	case schema.AnyOf:
		return fmt.Sprintf("multi-select (%d options)", len(kind.Options))
	case schema.AllOf:
		return "group"
	case schema.OneOf:
		return fmt.Sprintf("choice (%d alternatives)", len(kind.Alternatives))
	default:
		return "unknown"
	}
}

func boundsSuffix(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf(" (%d-%d)", *min, *max)
	case min != nil:
		return fmt.Sprintf(" (>= %d)", *min)
	case max != nil:
		return fmt.Sprintf(" (<= %d)", *max)
	default:
		return ""
	}
}

func floatBoundsSuffix(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf(" (%g-%g)", *min, *max)
	case min != nil:
		return fmt.Sprintf(" (>= %g)", *min)
	case max != nil:
		return fmt.Sprintf(" (<= %g)", *max)
	default:
		return ""
	}
}

func defaultLabel(d schema.Default) string {
	v, ok := d.Value()
	if !ok {
		return ""
	}
	label := v.String()
	if d.Mode() == schema.DefaultAssumed {
		return label + " (assumed)"
	}
	return label
}
