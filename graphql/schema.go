package graphql

import "sort"

// Schema is the registry of input types produced by the schema builder.
//
// It is never modified after the builder returns it and is discarded as a whole
// when the schema is rebuilt.
type Schema struct {
	inputs  map[string]*InputObject
	enums   map[string]*Enum
	scalars map[string]*Scalar

	entities []*InputObject
}

// NewSchema assembles a registry. The input objects must already be sealed.
func NewSchema(inputs []*InputObject, enums []*Enum, scalars []*Scalar) *Schema {
	s := &Schema{
		inputs:  make(map[string]*InputObject, len(inputs)),
		enums:   make(map[string]*Enum, len(enums)),
		scalars: make(map[string]*Scalar, len(scalars)),
	}
	for _, io := range inputs {
		s.inputs[io.Name] = io
		if io.IsEntity() {
			s.entities = append(s.entities, io)
		}
	}
	for _, e := range enums {
		s.enums[e.Type] = e
	}
	for _, sc := range scalars {
		s.scalars[sc.Type] = sc
	}
	sort.Slice(s.entities, func(i, j int) bool {
		return s.entities[i].Name < s.entities[j].Name
	})
	return s
}

// InputObject returns the input type registered under name, or nil.
func (s *Schema) InputObject(name string) *InputObject {
	return s.inputs[name]
}

// Enum returns the enum registered under name, or nil.
func (s *Schema) Enum(name string) *Enum {
	return s.enums[name]
}

// Scalar returns the scalar registered under name, or nil.
func (s *Schema) Scalar(name string) *Scalar {
	return s.scalars[name]
}

// Entities returns the entity input types sorted by name.
func (s *Schema) Entities() []*InputObject {
	return append([]*InputObject(nil), s.entities...)
}

// InputObjects returns all input types sorted by name.
func (s *Schema) InputObjects() []*InputObject {
	out := make([]*InputObject, 0, len(s.inputs))
	for _, io := range s.inputs {
		out = append(out, io)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enums returns all enums sorted by name.
func (s *Schema) Enums() []*Enum {
	out := make([]*Enum, 0, len(s.enums))
	for _, e := range s.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Scalars returns all scalars sorted by name.
func (s *Schema) Scalars() []*Scalar {
	out := make([]*Scalar, 0, len(s.scalars))
	for _, sc := range s.scalars {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
