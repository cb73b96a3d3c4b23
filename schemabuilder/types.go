package schemabuilder

import (
	"fmt"

	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/jerrors"
)

// Schema collects scalar, enum and input type registrations and turns them into
// an immutable *graphql.Schema with Build.
//
// A Schema is not safe for concurrent registration. Registration mistakes that
// can only come from Go code (such as passing two descriptions) panic; problems
// with the definitions themselves are reported by Build.
type Schema struct {
	inputs  map[string]*InputObject
	order   []string
	enums   map[string]*graphql.Enum
	scalars map[string]*graphql.Scalar

	errs []error
}

// NewSchema creates a new schema with the built-in scalars registered.
func NewSchema() *Schema {
	s := &Schema{
		inputs:  make(map[string]*InputObject),
		enums:   make(map[string]*graphql.Enum),
		scalars: make(map[string]*graphql.Scalar),
	}
	for _, sc := range builtinScalars() {
		s.scalars[sc.Type] = sc
	}
	return s
}

// Built-in scalar names.
const (
	String    = "String"
	Int       = "Int"
	Float     = "Float"
	Boolean   = "Boolean"
	ID        = "ID"
	Timestamp = "Timestamp"
	JSON      = "JSON"
)

func builtinScalars() []*graphql.Scalar {
	return []*graphql.Scalar{
		{Type: String},
		{Type: Int},
		{Type: Float},
		{Type: Boolean},
		{Type: ID},
		{
			Type:           Timestamp,
			Description:    "An RFC 3339 date-time within the range of a protobuf Timestamp.",
			SpecifiedByURL: "https://tools.ietf.org/html/rfc3339",
		},
		{
			Type:        JSON,
			Description: "An arbitrary JSON value, stored as given.",
			Opaque:      true,
		},
	}
}

// IsBuiltinScalar reports whether name is one of the scalars every schema has.
func IsBuiltinScalar(name string) bool {
	for _, sc := range builtinScalars() {
		if sc.Type == name {
			return true
		}
	}
	return false
}

// Scalar registers a custom scalar. Custom scalars are opaque: their values are
// passed through remapping unchanged, whatever their shape.
func (s *Schema) Scalar(name string, description ...string) {
	if !s.claim(name) {
		return
	}
	s.scalars[name] = &graphql.Scalar{
		Type:        name,
		Description: oneDescription("Scalar", description),
		Opaque:      true,
	}
}

// Enum registers an enum with the given values.
func (s *Schema) Enum(name string, values []string, description ...string) {
	if !s.claim(name) {
		return
	}
	if len(values) == 0 {
		s.errs = append(s.errs, jerrors.New(jerrors.SchemaInconsistency, []string{name}, "bad enum %s: no values", name))
	}
	for _, v := range values {
		if !validName(v) {
			s.errs = append(s.errs, jerrors.New(jerrors.SchemaInconsistency, []string{name}, "bad enum %s: invalid value %q", name, v))
		}
	}
	s.enums[name] = &graphql.Enum{
		Type:        name,
		Description: oneDescription("Enum", description),
		Values:      append([]string(nil), values...),
	}
}

// EntityInput registers the input type used to create or update entities of
// the given entity type and bundle. Its fields map to storage field names.
func (s *Schema) EntityInput(name, entityType, bundle string, description ...string) *InputObject {
	io := &InputObject{
		Name:        name,
		Description: oneDescription("EntityInput", description),
		entity:      &graphql.EntityInfo{EntityType: entityType, Bundle: bundle},
	}
	if entityType == "" {
		s.errs = append(s.errs, jerrors.New(jerrors.SchemaInconsistency, []string{name}, "bad entity input %s: missing entity type", name))
	}
	if bundle == "" {
		io.entity.Bundle = entityType
	}
	s.addInput(io)
	return io
}

// FieldInput registers the input type of an entity field. Its fields map to
// the property names of the field.
func (s *Schema) FieldInput(name string, description ...string) *InputObject {
	io := &InputObject{
		Name:        name,
		Description: oneDescription("FieldInput", description),
	}
	s.addInput(io)
	return io
}

func (s *Schema) addInput(io *InputObject) {
	if !s.claim(io.Name) {
		return
	}
	s.inputs[io.Name] = io
	s.order = append(s.order, io.Name)
}

// claim reserves a type name. Duplicates are reported by Build.
func (s *Schema) claim(name string) bool {
	if !validName(name) {
		s.errs = append(s.errs, jerrors.New(jerrors.SchemaInconsistency, []string{name}, "bad type name %q", name))
		return false
	}
	_, isInput := s.inputs[name]
	_, isEnum := s.enums[name]
	_, isScalar := s.scalars[name]
	if isInput || isEnum || isScalar {
		s.errs = append(s.errs, jerrors.New(jerrors.SchemaInconsistency, []string{name}, "duplicate type %s", name))
		return false
	}
	return true
}

func oneDescription(what string, description []string) string {
	if len(description) > 1 {
		panic(fmt.Sprintf("at most one description allowed for %s", what))
	}
	if len(description) == 1 {
		return description[0]
	}
	return ""
}
