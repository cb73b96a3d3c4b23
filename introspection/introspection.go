// Package introspection describes the input types an executable schema
// accepts, using the schema's own introspection.
package introspection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	gqlgo "github.com/graphql-go/graphql"
	"go.appointy.com/entityinput/graphql"
)

type TypeKind string

const (
	SCALAR       TypeKind = "SCALAR"
	OBJECT       TypeKind = "OBJECT"
	INTERFACE    TypeKind = "INTERFACE"
	UNION        TypeKind = "UNION"
	ENUM         TypeKind = "ENUM"
	INPUT_OBJECT TypeKind = "INPUT_OBJECT"
	LIST         TypeKind = "LIST"
	NON_NULL     TypeKind = "NON_NULL"
)

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   string   `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// String renders t in GraphQL syntax, for example "[TagInput!]".
func (t *TypeRef) String() string {
	switch t.Kind {
	case NON_NULL:
		return t.OfType.String() + "!"
	case LIST:
		return "[" + t.OfType.String() + "]"
	default:
		return t.Name
	}
}

type InputValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Type              TypeRef `json:"type"`
	DefaultValue      *string `json:"defaultValue"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason string  `json:"deprecationReason"`
}

type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

// Type is an input object or enum. Input fields and enum values are sorted
// by name.
type Type struct {
	Kind        TypeKind     `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputFields []InputValue `json:"inputFields"`
	EnumValues  []EnumValue  `json:"enumValues"`
}

// InputTypes returns the input object and enum types of schema sorted by
// name. Introspection types are left out.
func InputTypes(ctx context.Context, schema gqlgo.Schema) ([]Type, error) {
	var data struct {
		Schema struct {
			Types []Type `json:"types"`
		} `json:"__schema"`
	}
	if err := execute(ctx, schema, inputTypesQuery, &data); err != nil {
		return nil, err
	}

	var types []Type
	for _, t := range data.Schema.Types {
		if strings.HasPrefix(t.Name, "__") || (t.Kind != INPUT_OBJECT && t.Kind != ENUM) {
			continue
		}
		sort.Slice(t.InputFields, func(i, j int) bool {
			return t.InputFields[i].Name < t.InputFields[j].Name
		})
		sort.Slice(t.EnumValues, func(i, j int) bool {
			return t.EnumValues[i].Name < t.EnumValues[j].Name
		})
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// Print renders types as SDL.
func Print(types []Type) string {
	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "%q\n", t.Description)
		}
		switch t.Kind {
		case INPUT_OBJECT:
			fmt.Fprintf(&b, "input %s {\n", t.Name)
			for _, f := range t.InputFields {
				fmt.Fprintf(&b, "  %s: %s", f.Name, f.Type.String())
				if f.IsDeprecated {
					fmt.Fprintf(&b, " @deprecated(reason: %q)", f.DeprecationReason)
				}
				b.WriteString("\n")
			}
		case ENUM:
			fmt.Fprintf(&b, "enum %s {\n", t.Name)
			for _, v := range t.EnumValues {
				fmt.Fprintf(&b, "  %s\n", v.Name)
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// WithDeprecations marks the input fields that registry declares deprecated.
// The executable schema's introspection has no deprecation for input fields.
func WithDeprecations(types []Type, registry *graphql.Schema) []Type {
	for i := range types {
		io := registry.InputObject(types[i].Name)
		if types[i].Kind != INPUT_OBJECT || io == nil {
			continue
		}
		for j := range types[i].InputFields {
			f := &types[i].InputFields[j]
			if field := io.Field(f.Name); field != nil && field.DeprecationReason != "" {
				f.IsDeprecated = true
				f.DeprecationReason = field.DeprecationReason
			}
		}
	}
	return types
}

// ComputeSchemaJSON returns the result of executing a GraphQL introspection
// query.
func ComputeSchemaJSON(ctx context.Context, schema gqlgo.Schema) ([]byte, error) {
	var value map[string]interface{}
	if err := execute(ctx, schema, IntrospectionQuery, &value); err != nil {
		return nil, err
	}
	return json.MarshalIndent(value, "", "  ")
}

func execute(ctx context.Context, schema gqlgo.Schema, query string, into interface{}) error {
	result := gqlgo.Do(gqlgo.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
	if result.HasErrors() {
		msgs := make([]string, 0, len(result.Errors))
		for _, err := range result.Errors {
			msgs = append(msgs, err.Message)
		}
		return errors.New("introspection failed: " + strings.Join(msgs, "; "))
	}

	raw, err := json.Marshal(result.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}
