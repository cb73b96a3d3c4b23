// Package remap rewrites mutation input from GraphQL facing names to the
// storage field and property names of the entity being saved.
//
// Given the input type
//
//	input NodeArticleInput @entity(type: "node", bundle: "article") {
//	  title: String!
//	  tags: [EntityReferenceInput!] @field(name: "field_tags")
//	}
//	input EntityReferenceInput {
//	  targetId: ID! @property(name: "target_id")
//	}
//
// the input {title: "Hello", tags: [{targetId: 1}]} becomes
// {title: "Hello", field_tags: [{target_id: 1}]}.
//
// Input is validated against the declared types first. The walk itself only
// runs on valid input, never performs I/O and never returns partial results.
package remap

import (
	"go.appointy.com/entityinput/graphql"
)

// Policy decides what happens to input keys no field is declared for.
type Policy int

const (
	// RejectUnknown fails validation with a jerrors.UnknownKey error.
	RejectUnknown Policy = iota
	// DropUnknown leaves unknown keys out of the result.
	DropUnknown
)

func (p Policy) String() string {
	switch p {
	case RejectUnknown:
		return "reject"
	case DropUnknown:
		return "drop"
	default:
		return "unknown"
	}
}

// Option configures a Remapper.
type Option func(*Remapper)

// WithPolicy sets the unknown key policy. The default is RejectUnknown.
func WithPolicy(p Policy) Option {
	return func(r *Remapper) {
		r.policy = p
	}
}

// Remapper remaps entity input. It holds no mutable state and may be shared.
type Remapper struct {
	policy Policy
}

// New creates a Remapper.
func New(opts ...Option) *Remapper {
	r := &Remapper{policy: RejectUnknown}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the unknown key policy of r.
func (r *Remapper) Policy() Policy {
	return r.policy
}

var defaultRemapper = New()

// EntityInput remaps raw with the default Remapper, which rejects unknown keys.
func EntityInput(raw map[string]interface{}, typ *graphql.InputObject) (map[string]interface{}, error) {
	return defaultRemapper.EntityInput(raw, typ)
}

// EntityInput validates raw against typ and returns it keyed by internal
// names. Scalar values are copied as they are; nested field values have their
// property keys renamed, element by element for list fields.
func (r *Remapper) EntityInput(raw map[string]interface{}, typ *graphql.InputObject) (map[string]interface{}, error) {
	if err := r.Validate(raw, typ); err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		field := typ.Field(key)
		if field == nil {
			// Only reachable under DropUnknown.
			continue
		}

		switch {
		case field.Kind == graphql.ScalarValue, value == nil:
			out[field.Internal] = value
		case field.List:
			elems := asList(value)
			remapped := make([]interface{}, len(elems))
			for i, elem := range elems {
				if elem == nil {
					continue
				}
				remapped[i] = FieldInput(elem.(map[string]interface{}), field.Nested)
			}
			out[field.Internal] = remapped
		default:
			out[field.Internal] = FieldInput(value.(map[string]interface{}), field.Nested)
		}
	}
	return out, nil
}

// FieldInput renames the property keys of one field value. Values are left
// untouched, structured ones included. Keys with no declared property are
// dropped; validation has already rejected them unless the policy drops them.
func FieldInput(raw map[string]interface{}, typ *graphql.InputObject) map[string]interface{} {
	names := typ.Names()
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		internal, ok := names.Internal(key)
		if !ok {
			continue
		}
		out[internal] = value
	}
	return out
}

// asList returns v as a []interface{}. v must have passed validation.
func asList(v interface{}) []interface{} {
	l, _ := listOf(v)
	return l
}
