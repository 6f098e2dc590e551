package docgen

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	wizard "github.com/ggoodman/wizard-go"
	"github.com/stretchr/testify/require"
)

type tier interface{ isTier() }

type hobby struct{}
type pro struct {
	Seats int64 `prompt:"Seats" wizard:"min=1,max=500"`
}

func (hobby) isTier() {}
func (pro) isTier()   {}

func init() {
	wizard.RegisterEnum[tier](
		wizard.Variant{Name: "Hobby", Proto: hobby{}},
		wizard.Variant{Name: "Pro", Proto: pro{}},
	)
}

type project struct {
	Name   string   `prompt:"Project name"`
	Age    int64    `prompt:"Age" wizard:"min=18,max=120,default=18"`
	Token  string   `prompt:"API token" wizard:"mask"`
	Tier   tier     `prompt:"Pricing tier"`
	Labels []string `prompt:"Labels"`
}

func TestJSONSchemaShape(t *testing.T) {
	data, err := MarshalJSONSchema(wizard.MustDerive[project]())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Equal(t, "object", doc["type"])
	props := doc["properties"].(map[string]any)

	age := props["age"].(map[string]any)
	require.Equal(t, "integer", age["type"])
	require.EqualValues(t, 18, age["minimum"])
	require.EqualValues(t, 120, age["maximum"])
	require.EqualValues(t, 18, age["default"])

	token := props["token"].(map[string]any)
	require.Equal(t, "password", token["format"])

	tierProp := props["tier"].(map[string]any)
	branches := tierProp["oneOf"].([]any)
	require.Len(t, branches, 2)
	require.Equal(t, "Hobby", branches[0].(map[string]any)["title"])

	proBranch := branches[1].(map[string]any)
	seats := proBranch["properties"].(map[string]any)["seats"].(map[string]any)
	require.Equal(t, "integer", seats["type"])

	labels := props["labels"].(map[string]any)
	require.Equal(t, "array", labels["type"])
	require.Equal(t, "string", labels["items"].(map[string]any)["type"])
}

func TestJSONSchemaRequiredSkipsDefaults(t *testing.T) {
	data, err := MarshalJSONSchema(wizard.MustDerive[project]())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	required := doc["required"].([]any)
	require.Contains(t, required, "name")
	require.NotContains(t, required, "age")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, wizard.MustDerive[project]()))

	html := buf.String()
	require.True(t, strings.Contains(html, "tier.alternatives.1.seats"))
	require.True(t, strings.Contains(html, "Project name"))
	require.True(t, strings.Contains(html, "integer (18-120)"))
}
