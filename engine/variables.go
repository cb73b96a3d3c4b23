package engine

import (
	"context"

	gqlgo "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"go.appointy.com/entityinput/graphql"
)

type variablesKeyType int

const variablesKey variablesKeyType = 0

// WithVariables returns a context carrying the request variables as the
// client sent them, before coercion.
func WithVariables(ctx context.Context, variables map[string]interface{}) context.Context {
	return context.WithValue(ctx, variablesKey, variables)
}

// Variables returns the request variables stored by WithVariables, or nil.
func Variables(ctx context.Context) map[string]interface{} {
	if v, ok := ctx.Value(variablesKey).(map[string]interface{}); ok {
		return v
	}
	return nil
}

// withExplicitNulls returns input with the fields the client explicitly set
// to null added back as nil values. Coercion drops them, and the query
// language has no null literal, so they can only come from variables.
func withExplicitNulls(p gqlgo.ResolveParams, io *graphql.InputObject, input map[string]interface{}) map[string]interface{} {
	nulls := explicitNulls(p)
	if len(nulls) == 0 {
		return input
	}

	out := make(map[string]interface{}, len(input)+len(nulls))
	for k, v := range input {
		out[k] = v
	}
	for _, name := range nulls {
		if _, ok := out[name]; ok || io.Field(name) == nil {
			continue
		}
		out[name] = nil
	}
	return out
}

func explicitNulls(p gqlgo.ResolveParams) []string {
	raw := Variables(p.Context)
	if raw == nil {
		return nil
	}

	var nulls []string
	for _, field := range p.Info.FieldASTs {
		if field == nil {
			continue
		}
		for _, arg := range field.Arguments {
			if arg.Name == nil || arg.Name.Value != "input" {
				continue
			}
			switch value := arg.Value.(type) {
			case *ast.Variable:
				input, _ := raw[value.Name.Value].(map[string]interface{})
				for name, v := range input {
					if v == nil {
						nulls = append(nulls, name)
					}
				}
			case *ast.ObjectValue:
				for _, f := range value.Fields {
					variable, ok := f.Value.(*ast.Variable)
					if !ok || f.Name == nil {
						continue
					}
					if v, ok := raw[variable.Name.Value]; ok && v == nil {
						nulls = append(nulls, f.Name.Value)
					}
				}
			}
		}
	}
	return nulls
}
