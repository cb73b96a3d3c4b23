// Package engine serves the input types of a schema through graphql-go.
//
// Every entity input type gets create, update and delete mutations. Their
// input is remapped to storage names before it reaches the store:
//
//	mutation {
//	  createNodeArticle(input: {title: "Hello", tags: [{targetId: "1"}]}) {
//	    id
//	    fields
//	  }
//	}
//
// stores {title: "Hello", field_tags: [{target_id: "1"}]} for node/article.
package engine

import (
	"context"
	"fmt"

	gqlgo "github.com/graphql-go/graphql"
	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/remap"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRemapper sets the remapper applied to mutation input.
func WithRemapper(r *remap.Remapper) Option {
	return func(e *Engine) {
		e.remapper = r
	}
}

// Engine executes GraphQL requests against one built schema.
type Engine struct {
	types    *graphql.Schema
	schema   gqlgo.Schema
	store    *storage.Store
	remapper *remap.Remapper
	logger   *zap.Logger

	scalars map[string]*gqlgo.Scalar
	enums   map[string]*gqlgo.Enum
	inputs  map[string]*gqlgo.InputObject
}

// New converts types into an executable schema backed by store.
func New(types *graphql.Schema, store *storage.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		types:    types,
		store:    store,
		remapper: remap.New(),
		logger:   zap.NewNop(),
		scalars:  make(map[string]*gqlgo.Scalar),
		enums:    make(map[string]*gqlgo.Enum),
		inputs:   make(map[string]*gqlgo.InputObject),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, sc := range types.Scalars() {
		e.scalars[sc.Type] = newScalar(sc)
	}
	for _, en := range types.Enums() {
		e.enums[en.Type] = newEnum(en)
	}
	for _, io := range types.InputObjects() {
		e.inputs[io.Name] = e.newInputObject(io)
	}

	entity := e.entityObject()

	config := gqlgo.SchemaConfig{
		Query: gqlgo.NewObject(gqlgo.ObjectConfig{
			Name:   "Query",
			Fields: e.queries(entity),
		}),
	}
	if mutations := e.mutations(entity); len(mutations) > 0 {
		config.Mutation = gqlgo.NewObject(gqlgo.ObjectConfig{
			Name:   "Mutation",
			Fields: mutations,
		})
	}

	schema, err := gqlgo.NewSchema(config)
	if err != nil {
		return nil, fmt.Errorf("could not build executable schema: %w", err)
	}
	e.schema = schema
	return e, nil
}

// Schema returns the executable schema.
func (e *Engine) Schema() gqlgo.Schema {
	return e.schema
}

// Types returns the input type registry the engine was built from.
func (e *Engine) Types() *graphql.Schema {
	return e.types
}

// Do executes one request in process, without the HTTP transport. Like the
// HTTP handler it keeps the raw variables on the context, so variables set to
// null clear fields on update.
func (e *Engine) Do(ctx context.Context, query string, variables map[string]interface{}, operationName string) *gqlgo.Result {
	return gqlgo.Do(gqlgo.Params{
		Schema:         e.schema,
		RequestString:  query,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        WithVariables(ctx, variables),
	})
}

// MutationNames returns the create, update and delete mutation names for an
// entity input type.
func MutationNames(io *graphql.InputObject) (create, update, remove string) {
	name := schemabuilder.EntityName(io.Entity.EntityType, io.Entity.Bundle)
	return "create" + name, "update" + name, "delete" + name
}

func newEnum(en *graphql.Enum) *gqlgo.Enum {
	values := make(gqlgo.EnumValueConfigMap, len(en.Values))
	for _, v := range en.Values {
		values[v] = &gqlgo.EnumValueConfig{Value: v}
	}
	return gqlgo.NewEnum(gqlgo.EnumConfig{
		Name:        en.Type,
		Description: en.Description,
		Values:      values,
	})
}

func (e *Engine) newInputObject(io *graphql.InputObject) *gqlgo.InputObject {
	return gqlgo.NewInputObject(gqlgo.InputObjectConfig{
		Name:        io.Name,
		Description: io.Description,
		Fields: gqlgo.InputObjectConfigFieldMapThunk(func() gqlgo.InputObjectConfigFieldMap {
			fields := make(gqlgo.InputObjectConfigFieldMap, len(io.Fields))
			for _, f := range io.Fields {
				fields[f.Name] = &gqlgo.InputObjectFieldConfig{
					Type:        e.inputType(f.Type),
					Description: f.Description,
				}
			}
			return fields
		}),
	})
}

func (e *Engine) inputType(t graphql.Type) gqlgo.Input {
	switch t := t.(type) {
	case *graphql.NonNull:
		return gqlgo.NewNonNull(e.inputType(t.Type))
	case *graphql.List:
		return gqlgo.NewList(e.inputType(t.Type))
	case *graphql.Scalar:
		return e.scalars[t.Type]
	case *graphql.Enum:
		return e.enums[t.Type]
	case *graphql.InputObject:
		return e.inputs[t.Name]
	default:
		panic(fmt.Sprintf("unknown input type %T", t))
	}
}

func (e *Engine) entityObject() *gqlgo.Object {
	source := func(p gqlgo.ResolveParams) *storage.Entity {
		entity, _ := p.Source.(*storage.Entity)
		return entity
	}

	return gqlgo.NewObject(gqlgo.ObjectConfig{
		Name:        "Entity",
		Description: "A stored content entity. Field values are keyed by storage name.",
		Fields: gqlgo.Fields{
			"id": &gqlgo.Field{
				Type: gqlgo.NewNonNull(gqlgo.ID),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					return source(p).ID, nil
				},
			},
			"entityType": &gqlgo.Field{
				Type: gqlgo.NewNonNull(gqlgo.String),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					return source(p).EntityType, nil
				},
			},
			"bundle": &gqlgo.Field{
				Type: gqlgo.NewNonNull(gqlgo.String),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					return source(p).Bundle, nil
				},
			},
			"fields": &gqlgo.Field{
				Type: gqlgo.NewNonNull(e.scalars[schemabuilder.JSON]),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					if fields := source(p).Fields; fields != nil {
						return fields, nil
					}
					return map[string]interface{}{}, nil
				},
			},
			"created": &gqlgo.Field{
				Type: gqlgo.NewNonNull(e.scalars[schemabuilder.Timestamp]),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					return source(p).Created, nil
				},
			},
			"changed": &gqlgo.Field{
				Type: gqlgo.NewNonNull(e.scalars[schemabuilder.Timestamp]),
				Resolve: func(p gqlgo.ResolveParams) (interface{}, error) {
					return source(p).Changed, nil
				},
			},
		},
	})
}

func (e *Engine) queries(entity *gqlgo.Object) gqlgo.Fields {
	return gqlgo.Fields{
		"entity": &gqlgo.Field{
			Type:        entity,
			Description: "Loads one entity by ID.",
			Args: gqlgo.FieldConfigArgument{
				"id": &gqlgo.ArgumentConfig{Type: gqlgo.NewNonNull(gqlgo.ID)},
			},
			Resolve: e.resolveEntity,
		},
		"entities": &gqlgo.Field{
			Type:        gqlgo.NewNonNull(gqlgo.NewList(gqlgo.NewNonNull(entity))),
			Description: "Lists entities, optionally restricted to an entity type and bundle.",
			Args: gqlgo.FieldConfigArgument{
				"entityType": &gqlgo.ArgumentConfig{Type: gqlgo.String},
				"bundle":     &gqlgo.ArgumentConfig{Type: gqlgo.String},
			},
			Resolve: e.resolveEntities,
		},
	}
}

func (e *Engine) mutations(entity *gqlgo.Object) gqlgo.Fields {
	fields := gqlgo.Fields{}
	for _, io := range e.types.Entities() {
		input := e.inputs[io.Name]
		create, update, remove := MutationNames(io)

		fields[create] = &gqlgo.Field{
			Type:        entity,
			Description: fmt.Sprintf("Creates a %s entity.", io.Entity.Bundle),
			Args: gqlgo.FieldConfigArgument{
				"input": &gqlgo.ArgumentConfig{Type: gqlgo.NewNonNull(input)},
			},
			Resolve: e.createResolver(io),
		}
		fields[update] = &gqlgo.Field{
			Type:        entity,
			Description: fmt.Sprintf("Updates the given fields of a %s entity.", io.Entity.Bundle),
			Args: gqlgo.FieldConfigArgument{
				"id":    &gqlgo.ArgumentConfig{Type: gqlgo.NewNonNull(gqlgo.ID)},
				"input": &gqlgo.ArgumentConfig{Type: gqlgo.NewNonNull(input)},
			},
			Resolve: e.updateResolver(io),
		}
		fields[remove] = &gqlgo.Field{
			Type:        entity,
			Description: fmt.Sprintf("Deletes a %s entity.", io.Entity.Bundle),
			Args: gqlgo.FieldConfigArgument{
				"id": &gqlgo.ArgumentConfig{Type: gqlgo.NewNonNull(gqlgo.ID)},
			},
			Resolve: e.deleteResolver(io),
		}
	}
	return fields
}
