// Package storage persists entities in a gocloud.dev docstore collection.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/memdocstore"
	"gocloud.dev/gcerrors"
)

// DefaultURL is an in-memory collection keyed by the "id" field.
const DefaultURL = "mem://entities/id"

// ErrNotFound is returned when no entity has the requested ID.
var ErrNotFound = errors.New("entity not found")

// Entity is a stored content entity. Fields are keyed by storage field name
// and hold the values produced by remapping mutation input.
type Entity struct {
	ID         string                 `docstore:"id"`
	EntityType string                 `docstore:"entity_type"`
	Bundle     string                 `docstore:"bundle"`
	Fields     map[string]interface{} `docstore:"fields"`
	Created    time.Time              `docstore:"created"`
	Changed    time.Time              `docstore:"changed"`
}

// Store reads and writes entities.
type Store struct {
	coll *docstore.Collection
	now  func() time.Time
}

// Open opens the collection at url, for example "mem://entities/id".
func Open(ctx context.Context, url string) (*Store, error) {
	coll, err := docstore.OpenCollection(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not open entity collection %s: %w", url, err)
	}
	return &Store{coll: coll, now: time.Now}, nil
}

// Close releases the collection.
func (s *Store) Close() error {
	return s.coll.Close()
}

// Create stores a new entity of the given type with the given field values
// and returns it with a fresh ID.
func (s *Store) Create(ctx context.Context, entityType, bundle string, values map[string]interface{}) (*Entity, error) {
	now := s.now().UTC()
	e := &Entity{
		ID:         uuid.New().String(),
		EntityType: entityType,
		Bundle:     bundle,
		Fields:     merge(nil, values),
		Created:    now,
		Changed:    now,
	}
	if err := s.coll.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("could not create %s entity: %w", entityType, err)
	}
	return e, nil
}

// Get loads the entity with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Entity, error) {
	e := &Entity{ID: id}
	if err := s.coll.Get(ctx, e); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load entity %s: %w", id, err)
	}
	return e, nil
}

// Update merges values into the fields of the entity with the given ID.
// Each value replaces the stored field value as a whole; fields not present
// in values are kept.
func (s *Store) Update(ctx context.Context, id string, values map[string]interface{}) (*Entity, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Fields = merge(e.Fields, values)
	e.Changed = s.now().UTC()

	if err := s.coll.Replace(ctx, e); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not update entity %s: %w", id, err)
	}
	return e, nil
}

// Delete removes the entity with the given ID and returns it as it was.
func (s *Store) Delete(ctx context.Context, id string) (*Entity, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.coll.Delete(ctx, &Entity{ID: id}); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not delete entity %s: %w", id, err)
	}
	return e, nil
}

// List returns the entities of an entity type, optionally restricted to a
// bundle. An empty entityType lists everything. Entities come back oldest first.
func (s *Store) List(ctx context.Context, entityType, bundle string) ([]*Entity, error) {
	q := s.coll.Query()
	if entityType != "" {
		q = q.Where("entity_type", "=", entityType)
	}
	if bundle != "" {
		q = q.Where("bundle", "=", bundle)
	}

	iter := q.Get(ctx)
	defer iter.Stop()

	var entities []*Entity
	for {
		var e Entity
		err := iter.Next(ctx, &e)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not list entities: %w", err)
		}
		entities = append(entities, &e)
	}

	sort.Slice(entities, func(i, j int) bool {
		if !entities[i].Created.Equal(entities[j].Created) {
			return entities[i].Created.Before(entities[j].Created)
		}
		return entities[i].ID < entities[j].ID
	})
	return entities, nil
}

func merge(fields, values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+len(values))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range values {
		out[k] = v
	}
	return out
}
