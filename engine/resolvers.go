package engine

import (
	"errors"
	"sort"

	gqlgo "github.com/graphql-go/graphql"
	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/jerrors"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (e *Engine) resolveEntity(p gqlgo.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	entity, err := e.store.Get(p.Context, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, e.internal(err)
	}
	return entity, nil
}

func (e *Engine) resolveEntities(p gqlgo.ResolveParams) (interface{}, error) {
	entityType, _ := p.Args["entityType"].(string)
	bundle, _ := p.Args["bundle"].(string)
	entities, err := e.store.List(p.Context, entityType, bundle)
	if err != nil {
		return nil, e.internal(err)
	}
	if entities == nil {
		entities = []*storage.Entity{}
	}
	return entities, nil
}

func (e *Engine) createResolver(io *graphql.InputObject) gqlgo.FieldResolveFn {
	return func(p gqlgo.ResolveParams) (interface{}, error) {
		values, err := e.remapInput(p, io)
		if err != nil {
			return nil, err
		}

		entity, err := e.store.Create(p.Context, io.Entity.EntityType, io.Entity.Bundle, values)
		if err != nil {
			return nil, e.internal(err)
		}
		e.logger.Info("Created entity",
			zap.String("id", entity.ID),
			zap.String("entity_type", entity.EntityType),
			zap.String("bundle", entity.Bundle),
		)
		return entity, nil
	}
}

func (e *Engine) updateResolver(io *graphql.InputObject) gqlgo.FieldResolveFn {
	return func(p gqlgo.ResolveParams) (interface{}, error) {
		id, _ := p.Args["id"].(string)
		if err := e.checkBundle(p, id, io); err != nil {
			return nil, err
		}

		values, err := e.remapInput(p, io)
		if err != nil {
			return nil, err
		}

		entity, err := e.store.Update(p.Context, id, values)
		if err != nil {
			return nil, e.storeError(id, err)
		}
		e.logger.Info("Updated entity",
			zap.String("id", entity.ID),
			zap.Strings("fields", fieldNames(values)),
		)
		return entity, nil
	}
}

func (e *Engine) deleteResolver(io *graphql.InputObject) gqlgo.FieldResolveFn {
	return func(p gqlgo.ResolveParams) (interface{}, error) {
		id, _ := p.Args["id"].(string)
		if err := e.checkBundle(p, id, io); err != nil {
			return nil, err
		}

		entity, err := e.store.Delete(p.Context, id)
		if err != nil {
			return nil, e.storeError(id, err)
		}
		e.logger.Info("Deleted entity", zap.String("id", entity.ID))
		return entity, nil
	}
}

func (e *Engine) remapInput(p gqlgo.ResolveParams, io *graphql.InputObject) (map[string]interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})
	input = withExplicitNulls(p, io, input)
	values, err := e.remapper.EntityInput(input, io)
	if err != nil {
		e.logger.Debug("Rejected mutation input",
			zap.String("type", io.Name),
			zap.String("field", p.Info.FieldName),
			zap.Error(err),
		)
		return nil, err
	}
	return values, nil
}

// checkBundle makes sure the entity with id is of the type io edits.
func (e *Engine) checkBundle(p gqlgo.ResolveParams, id string, io *graphql.InputObject) error {
	entity, err := e.store.Get(p.Context, id)
	if err != nil {
		return e.storeError(id, err)
	}
	if entity.EntityType != io.Entity.EntityType || entity.Bundle != io.Entity.Bundle {
		return jerrors.ConvertError(status.Errorf(codes.InvalidArgument,
			"entity %s is a %s %s, not a %s %s", id, entity.EntityType, entity.Bundle, io.Entity.EntityType, io.Entity.Bundle))
	}
	return nil
}

func (e *Engine) storeError(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return jerrors.ConvertError(status.Errorf(codes.NotFound, "entity %s not found", id))
	}
	return e.internal(err)
}

func (e *Engine) internal(err error) error {
	e.logger.Error("Entity storage failed", zap.Error(err))
	return jerrors.ConvertError(status.Error(codes.Internal, err.Error()))
}

func fieldNames(values map[string]interface{}) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
