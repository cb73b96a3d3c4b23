// Package sdl registers input types declared in GraphQL SDL.
//
// Entity inputs carry an @entity directive; the storage name of each of
// their fields comes from @field(name:). Inputs without @entity describe
// entity fields, and @property(name:) names the properties. Without a
// directive the internal name is the snake_case form of the GraphQL name.
//
//	"Input for article nodes."
//	input NodeArticleInput @entity(type: "node", bundle: "article") {
//	  title: String!
//	  body: TextWithSummaryInput
//	  tags: [EntityReferenceInput!] @field(name: "field_tags")
//	}
//
//	input EntityReferenceInput {
//	  targetId: ID! @property(name: "target_id")
//	}
//
// enum definitions register enums and scalar definitions register opaque
// custom scalars. Other definitions are rejected.
package sdl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"github.com/hashicorp/go-multierror"
	"go.appointy.com/entityinput/jerrors"
	"go.appointy.com/entityinput/schemabuilder"
)

// Directive names.
const (
	EntityDirective   = "entity"
	FieldDirective    = "field"
	PropertyDirective = "property"
)

// LoadFile reads an SDL file and registers its definitions on sb.
func LoadFile(sb *schemabuilder.Schema, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", path, err)
	}
	return Load(sb, filepath.Base(path), string(body))
}

// Load parses body and registers its definitions on sb. name is used in
// syntax error messages.
func Load(sb *schemabuilder.Schema, name, body string) error {
	src := source.NewSource(&source.Source{
		Body: []byte(body),
		Name: name,
	})

	doc, err := parser.Parse(parser.ParseParams{Source: src})
	if err != nil {
		return fmt.Errorf("failed to parse SDL: %w", err)
	}

	var result *multierror.Error
	for _, def := range doc.Definitions {
		if err := register(sb, def); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func register(sb *schemabuilder.Schema, def ast.Node) error {
	switch d := def.(type) {
	case *ast.InputObjectDefinition:
		return registerInput(sb, d)
	case *ast.EnumDefinition:
		values := make([]string, 0, len(d.Values))
		for _, v := range d.Values {
			values = append(values, v.Name.Value)
		}
		sb.Enum(d.Name.Value, values, description(d.Description))
		return nil
	case *ast.ScalarDefinition:
		if schemabuilder.IsBuiltinScalar(d.Name.Value) {
			return nil
		}
		sb.Scalar(d.Name.Value, description(d.Description))
		return nil
	case *ast.DirectiveDefinition:
		// Declarations of @entity, @field and @property are allowed for tooling.
		return nil
	default:
		return jerrors.New(jerrors.SchemaInconsistency, nil, "unsupported definition %s", def.GetKind())
	}
}

func registerInput(sb *schemabuilder.Schema, d *ast.InputObjectDefinition) error {
	name := d.Name.Value
	directives := extractDirectives(d.Directives)

	var io *schemabuilder.InputObject
	fieldDirective := PropertyDirective
	if entity, ok := directives[EntityDirective]; ok {
		entityType, _ := entity["type"].(string)
		bundle, _ := entity["bundle"].(string)
		io = sb.EntityInput(name, entityType, bundle, description(d.Description))
		fieldDirective = FieldDirective
	} else {
		io = sb.FieldInput(name, description(d.Description))
	}

	var result *multierror.Error
	for _, f := range d.Fields {
		fieldName := f.Name.Value
		fieldDirectives := extractDirectives(f.Directives)

		var internal string
		if args, ok := fieldDirectives[fieldDirective]; ok {
			internal, _ = args["name"].(string)
			if internal == "" {
				result = multierror.Append(result, jerrors.New(jerrors.SchemaInconsistency, []string{name, fieldName},
					"bad input type %s: @%s on %s needs a name", name, fieldDirective, fieldName))
				continue
			}
		}
		if _, misplaced := fieldDirectives[otherDirective(fieldDirective)]; misplaced {
			result = multierror.Append(result, jerrors.New(jerrors.SchemaInconsistency, []string{name, fieldName},
				"bad input type %s: @%s is not allowed on %s", name, otherDirective(fieldDirective), fieldName))
			continue
		}

		opts := []schemabuilder.FieldOption{schemabuilder.FieldDesc(description(f.Description))}
		if deprecated, ok := fieldDirectives["deprecated"]; ok {
			reason, _ := deprecated["reason"].(string)
			if reason == "" {
				reason = "No longer supported"
			}
			opts = append(opts, schemabuilder.Deprecated(reason))
		}

		io.Field(fieldName, internal, schemabuilder.TypeRef(f.Type), opts...)
	}
	return result.ErrorOrNil()
}

func otherDirective(d string) string {
	if d == FieldDirective {
		return PropertyDirective
	}
	return FieldDirective
}

// extractDirectives returns directive arguments keyed by directive name.
func extractDirectives(directives []*ast.Directive) map[string]map[string]interface{} {
	result := make(map[string]map[string]interface{}, len(directives))
	for _, directive := range directives {
		if directive.Name == nil {
			continue
		}
		args := make(map[string]interface{}, len(directive.Arguments))
		for _, arg := range directive.Arguments {
			if arg.Name != nil && arg.Value != nil {
				args[arg.Name.Value] = value(arg.Value)
			}
		}
		result[directive.Name.Value] = args
	}
	return result
}

func value(v ast.Value) interface{} {
	switch v.GetKind() {
	case kinds.StringValue, kinds.EnumValue, kinds.IntValue, kinds.FloatValue, kinds.BooleanValue:
		return v.GetValue()
	default:
		return nil
	}
}

func description(d *ast.StringValue) string {
	if d == nil {
		return ""
	}
	return d.Value
}
