package schemabuilder

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"go.appointy.com/entityinput/graphql"
)

// InputObject is an input type under registration. For entity inputs the
// fields name storage fields, for field inputs they name properties.
type InputObject struct {
	Name        string
	Description string

	entity *graphql.EntityInfo
	fields []*inputField
}

type inputField struct {
	name        string
	internal    string
	description string
	deprecation string

	ref    ast.Type
	refErr error
}

// FieldOption configures a field declared with InputObject.Field.
type FieldOption func(*inputField)

// FieldDesc sets the description of a field.
func FieldDesc(description string) FieldOption {
	return func(f *inputField) {
		f.description = description
	}
}

// Deprecated marks a field deprecated with the given reason.
func Deprecated(reason string) FieldOption {
	return func(f *inputField) {
		f.deprecation = reason
	}
}

// Field declares a field on the input object. name is the GraphQL facing
// name and internal the storage field or property name it maps to; an empty
// internal name is derived from name (fieldTags -> field_tags). typeRef uses
// GraphQL type syntax, for example "String!" or "[TagInput!]".
//
// Type references are resolved by Build, so the referenced types may be
// registered later.
//
//	article := schema.EntityInput("NodeArticleInput", "node", "article")
//	article.Field("title", "title", "String!")
//	article.Field("tags", "field_tags", "[EntityReferenceInput!]")
func (io *InputObject) Field(name, internal, typeRef string, opts ...FieldOption) {
	ref, err := parseTypeRef(typeRef)
	f := &inputField{
		name:     name,
		internal: internal,
		ref:      ref,
		refErr:   err,
	}
	for _, opt := range opts {
		opt(f)
	}
	io.fields = append(io.fields, f)
}

// parseTypeRef parses a type reference by wrapping it into a one field input
// definition, which keeps the accepted syntax identical to SDL files.
func parseTypeRef(typeRef string) (ast.Type, error) {
	if typeRef == "" {
		return nil, errors.New("missing type")
	}

	src := source.NewSource(&source.Source{
		Body: []byte(fmt.Sprintf("input TypeRef { ref: %s }", typeRef)),
		Name: "TypeRef",
	})
	doc, err := parser.Parse(parser.ParseParams{Source: src})
	if err != nil {
		return nil, fmt.Errorf("bad type reference %q", typeRef)
	}

	if len(doc.Definitions) != 1 {
		return nil, fmt.Errorf("bad type reference %q", typeRef)
	}
	def, ok := doc.Definitions[0].(*ast.InputObjectDefinition)
	if !ok || len(def.Fields) != 1 {
		return nil, fmt.Errorf("bad type reference %q", typeRef)
	}
	return def.Fields[0].Type, nil
}

// TypeRef renders an AST type back into GraphQL type syntax.
func TypeRef(t ast.Type) string {
	switch typ := t.(type) {
	case *ast.NonNull:
		return TypeRef(typ.Type) + "!"
	case *ast.List:
		return "[" + TypeRef(typ.Type) + "]"
	case *ast.Named:
		return typ.Name.Value
	default:
		return ""
	}
}
