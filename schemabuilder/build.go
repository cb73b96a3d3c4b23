package schemabuilder

import (
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/hashicorp/go-multierror"
	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/jerrors"
)

// Build resolves all type references, derives the value kind of every field
// and computes each input type's NameMap. All problems found are returned
// together; each of them is a jerrors.SchemaInconsistency.
func (s *Schema) Build() (*graphql.Schema, error) {
	var result *multierror.Error
	for _, err := range s.errs {
		result = multierror.Append(result, err)
	}

	// Create every input object up front so fields can reference types
	// registered after them.
	objects := make(map[string]*graphql.InputObject, len(s.inputs))
	for _, name := range s.order {
		io := s.inputs[name]
		objects[name] = &graphql.InputObject{
			Name:        io.Name,
			Description: io.Description,
			Entity:      io.entity,
		}
	}

	for _, name := range s.order {
		fields, err := s.buildFields(s.inputs[name], objects)
		if err != nil {
			result = multierror.Append(result, err)
		}
		objects[name].Fields = fields
	}

	// Mutation names derive from the entity name, so two entity inputs may
	// not share one.
	owners := make(map[string]string)
	for _, name := range s.order {
		io := s.inputs[name]
		if io.entity == nil || io.entity.EntityType == "" {
			continue
		}
		entityName := EntityName(io.entity.EntityType, io.entity.Bundle)
		if other, ok := owners[entityName]; ok {
			result = multierror.Append(result, jerrors.New(jerrors.SchemaInconsistency, []string{name},
				"bad input type %s: entity inputs %s and %s both map to %s mutations", name, other, name, entityName))
			continue
		}
		owners[entityName] = name
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	inputs := make([]*graphql.InputObject, 0, len(objects))
	for _, name := range s.order {
		obj := objects[name]
		obj.Seal()
		inputs = append(inputs, obj)
	}

	enums := make([]*graphql.Enum, 0, len(s.enums))
	for _, e := range s.enums {
		enums = append(enums, e)
	}
	scalars := make([]*graphql.Scalar, 0, len(s.scalars))
	for _, sc := range s.scalars {
		scalars = append(scalars, sc)
	}

	return graphql.NewSchema(inputs, enums, scalars), nil
}

// MustBuild builds the schema and panics on failure.
func (s *Schema) MustBuild() *graphql.Schema {
	built, err := s.Build()
	if err != nil {
		panic(err)
	}
	return built
}

func (s *Schema) buildFields(io *InputObject, objects map[string]*graphql.InputObject) ([]*graphql.InputField, error) {
	var result *multierror.Error
	fail := func(path []string, format string, args ...interface{}) {
		result = multierror.Append(result, jerrors.New(jerrors.SchemaInconsistency, path, format, args...))
	}

	if len(io.fields) == 0 {
		fail([]string{io.Name}, "bad input type %s: no fields", io.Name)
	}

	fields := make([]*graphql.InputField, 0, len(io.fields))
	byExternal := make(map[string]bool, len(io.fields))
	byInternal := make(map[string]string, len(io.fields))

	for _, f := range io.fields {
		path := []string{io.Name, f.name}

		if !validName(f.name) {
			fail(path, "bad input type %s: invalid field name %q", io.Name, f.name)
			continue
		}
		if byExternal[f.name] {
			fail(path, "bad input type %s: duplicate field %s", io.Name, f.name)
			continue
		}
		byExternal[f.name] = true

		if f.refErr != nil {
			fail(path, "bad input type %s: field %s: %s", io.Name, f.name, f.refErr.Error())
			continue
		}

		internal := f.internal
		if internal == "" {
			internal = InternalName(f.name)
		}
		if other, ok := byInternal[internal]; ok {
			fail(path, "bad input type %s: fields %s and %s both map to %s", io.Name, other, f.name, internal)
			continue
		}
		byInternal[internal] = f.name

		typ, err := s.resolve(f.ref, objects)
		if err != nil {
			fail(path, "bad input type %s: field %s: %s", io.Name, f.name, err.Error())
			continue
		}

		field := &graphql.InputField{
			Name:              f.name,
			Internal:          internal,
			Description:       f.description,
			Type:              typ,
			DeprecationReason: f.deprecation,
			Kind:              graphql.KindOf(typ),
			List:              graphql.IsList(typ),
		}

		if field.Kind == graphql.NestedObject {
			nested := graphql.NamedType(typ).(*graphql.InputObject)
			switch {
			case io.entity == nil:
				// Properties are leaves: entity -> field -> property.
				fail(path, "bad input type %s: property %s cannot hold input object %s", io.Name, f.name, nested.Name)
				continue
			case nested.IsEntity():
				fail(path, "bad input type %s: field %s cannot hold entity input %s", io.Name, f.name, nested.Name)
				continue
			case hasNestedList(typ):
				fail(path, "bad input type %s: field %s nests lists", io.Name, f.name)
				continue
			}
			field.Nested = nested
		}

		fields = append(fields, field)
	}

	return fields, result.ErrorOrNil()
}

func (s *Schema) resolve(t ast.Type, objects map[string]*graphql.InputObject) (graphql.Type, error) {
	switch typ := t.(type) {
	case *ast.NonNull:
		inner, err := s.resolve(typ.Type, objects)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: inner}, nil
	case *ast.List:
		inner, err := s.resolve(typ.Type, objects)
		if err != nil {
			return nil, err
		}
		return &graphql.List{Type: inner}, nil
	case *ast.Named:
		name := typ.Name.Value
		if sc, ok := s.scalars[name]; ok {
			return sc, nil
		}
		if e, ok := s.enums[name]; ok {
			return e, nil
		}
		if obj, ok := objects[name]; ok {
			return obj, nil
		}
		return nil, fmt.Errorf("unknown type %s", name)
	default:
		return nil, fmt.Errorf("unsupported type %s", TypeRef(t))
	}
}

// hasNestedList reports whether t holds a list inside a list.
func hasNestedList(t graphql.Type) bool {
	l, ok := graphql.NullableType(t).(*graphql.List)
	if !ok {
		return false
	}
	return graphql.IsList(l.Type)
}
