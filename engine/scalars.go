package engine

import (
	"strconv"
	"time"

	"github.com/golang/protobuf/ptypes"
	gqlgo "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/schemabuilder"
)

var builtins = map[string]*gqlgo.Scalar{
	schemabuilder.String:  gqlgo.String,
	schemabuilder.Int:     gqlgo.Int,
	schemabuilder.Float:   gqlgo.Float,
	schemabuilder.Boolean: gqlgo.Boolean,
	schemabuilder.ID:      gqlgo.ID,
}

func newScalar(sc *graphql.Scalar) *gqlgo.Scalar {
	if s, ok := builtins[sc.Type]; ok {
		return s
	}
	if sc.Type == schemabuilder.Timestamp {
		return gqlgo.NewScalar(gqlgo.ScalarConfig{
			Name:        sc.Type,
			Description: sc.Description,
			Serialize:   serializeTimestamp,
			ParseValue:  parseTimestamp,
			ParseLiteral: func(v ast.Value) interface{} {
				if s, ok := v.(*ast.StringValue); ok {
					return parseTimestamp(s.Value)
				}
				return nil
			},
		})
	}

	// JSON and custom scalars take any value.
	return gqlgo.NewScalar(gqlgo.ScalarConfig{
		Name:        sc.Type,
		Description: sc.Description,
		Serialize:   identity,
		ParseValue:  identity,
		ParseLiteral: func(v ast.Value) interface{} {
			return literal(v)
		},
	})
}

func identity(v interface{}) interface{} {
	return v
}

// parseTimestamp accepts RFC 3339 strings that fit in a protobuf Timestamp.
func parseTimestamp(v interface{}) interface{} {
	var t time.Time
	switch v := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil
		}
		t = parsed
	case time.Time:
		t = v
	default:
		return nil
	}

	if _, err := ptypes.TimestampProto(t); err != nil {
		return nil
	}
	return t.UTC()
}

func serializeTimestamp(v interface{}) interface{} {
	var t time.Time
	switch v := v.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil
		}
		t = *v
	case string:
		return v
	default:
		return nil
	}

	ts, err := ptypes.TimestampProto(t)
	if err != nil {
		return nil
	}
	return ptypes.TimestampString(ts)
}

// literal converts an inline JSON scalar value into the Go value a variable
// of the same shape would decode to.
func literal(v ast.Value) interface{} {
	switch v := v.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	case *ast.IntValue:
		if n, err := strconv.Atoi(v.Value); err == nil {
			return n
		}
		return v.Value
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
		return v.Value
	case *ast.ListValue:
		out := make([]interface{}, 0, len(v.Values))
		for _, elem := range v.Values {
			out = append(out, literal(elem))
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name.Value] = literal(f.Value)
		}
		return out
	default:
		return nil
	}
}
