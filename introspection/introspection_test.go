package introspection_test

import (
	"context"
	"encoding/json"
	"testing"

	gqlgo "github.com/graphql-go/graphql"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/introspection"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/storage"
)

func testSchema(t *testing.T) gqlgo.Schema {
	return testEngine(t).Schema()
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()

	sb := schemabuilder.NewSchema()
	sb.Enum("TextFormat", []string{"plain_text", "full_html"}, "Text formats.")

	article := sb.EntityInput("NodeArticleInput", "node", "article", "Input for article nodes.")
	article.Field("title", "", "String!")
	article.Field("tags", "field_tags", "[TagInput!]")
	article.Field("format", "", "TextFormat")
	article.Field("sticky", "", "Boolean", schemabuilder.Deprecated("Use promote."))

	sb.FieldInput("TagInput").Field("targetId", "target_id", "ID!")

	store, err := storage.Open(context.Background(), storage.DefaultURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e, err := engine.New(sb.MustBuild(), store)
	require.NoError(t, err)
	return e
}

func TestInputTypes(t *testing.T) {
	types, err := introspection.InputTypes(context.Background(), testSchema(t))
	require.NoError(t, err)

	names := make([]string, 0, len(types))
	for _, typ := range types {
		names = append(names, typ.Name)
	}
	require.Equal(t, []string{"NodeArticleInput", "TagInput", "TextFormat"}, names)

	article := types[0]
	require.Equal(t, introspection.INPUT_OBJECT, article.Kind)
	require.Equal(t, "Input for article nodes.", article.Description)

	fields := map[string]string{}
	for _, f := range article.InputFields {
		fields[f.Name] = f.Type.String()
	}
	if diff := pretty.Compare(fields, map[string]string{
		"title":  "String!",
		"tags":   "[TagInput!]",
		"format": "TextFormat",
		"sticky": "Boolean",
	}); diff != "" {
		t.Errorf("unexpected input fields: %s", diff)
	}

	enum := types[2]
	require.Equal(t, introspection.ENUM, enum.Kind)
	require.Len(t, enum.EnumValues, 2)
	require.Equal(t, "full_html", enum.EnumValues[0].Name)
}

func TestPrint(t *testing.T) {
	out := introspection.Print([]introspection.Type{
		{
			Kind:        introspection.INPUT_OBJECT,
			Name:        "TagInput",
			Description: "A reference.",
			InputFields: []introspection.InputValue{
				{
					Name: "targetId",
					Type: introspection.TypeRef{Kind: introspection.NON_NULL, OfType: &introspection.TypeRef{Kind: introspection.SCALAR, Name: "ID"}},
				},
			},
		},
		{
			Kind:       introspection.ENUM,
			Name:       "TextFormat",
			EnumValues: []introspection.EnumValue{{Name: "full_html"}, {Name: "plain_text"}},
		},
	})

	if diff := pretty.Compare(out, `"A reference."
input TagInput {
  targetId: ID!
}

enum TextFormat {
  full_html
  plain_text
}
`); diff != "" {
		t.Errorf("unexpected SDL: %s", diff)
	}
}

func TestComputeSchemaJSON(t *testing.T) {
	raw, err := introspection.ComputeSchemaJSON(context.Background(), testSchema(t))
	require.NoError(t, err)

	var value struct {
		Schema struct {
			MutationType struct {
				Name string `json:"name"`
			} `json:"mutationType"`
		} `json:"__schema"`
	}
	require.NoError(t, json.Unmarshal(raw, &value))
	require.Equal(t, "Mutation", value.Schema.MutationType.Name)
	require.Contains(t, string(raw), "createNodeArticle")
}

func TestPrintDeprecatedFields(t *testing.T) {
	e := testEngine(t)
	types, err := introspection.InputTypes(context.Background(), e.Schema())
	require.NoError(t, err)

	out := introspection.Print(introspection.WithDeprecations(types, e.Types()))
	require.Contains(t, out, `  sticky: Boolean @deprecated(reason: "Use promote.")`+"\n")
	require.Contains(t, out, "  title: String!\n")
}
