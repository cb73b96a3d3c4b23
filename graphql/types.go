package graphql

import (
	"fmt"
)

// Type represents a GraphQL input type, and should be either a Scalar, an Enum,
// an InputObject, a List or a NonNull
type Type interface {
	String() string

	// isType() is a no-op used to tag the known values of Type, to prevent
	// arbitrary interface{} from implementing Type
	isType()
}

// Scalar is a leaf value.
//
// Opaque scalars (JSON and custom scalars declared in SDL) accept structured
// values, which are carried through remapping untouched.
type Scalar struct {
	Type        string
	Description string
	Opaque      bool
	// SpecifiedByURL is the URL specifying scalar behaviour (from @specifiedBy(url: String!)).
	SpecifiedByURL string
}

func (s *Scalar) isType() {}

func (s *Scalar) String() string {
	return s.Type
}

// Enum is a leaf value
type Enum struct {
	Type        string
	Description string
	Values      []string
}

func (e *Enum) isType() {}

func (e *Enum) String() string {
	return e.Type
}

// Has reports whether v is one of the declared values.
func (e *Enum) Has(v string) bool {
	for _, value := range e.Values {
		if value == v {
			return true
		}
	}
	return false
}

// List is a collection of other values
type List struct {
	Type Type
}

func (l *List) isType() {}

func (l *List) String() string {
	return fmt.Sprintf("[%s]", l.Type)
}

// NonNull is a non-nullable other value
type NonNull struct {
	Type Type
}

func (n *NonNull) isType() {}

func (n *NonNull) String() string {
	return fmt.Sprintf("%s!", n.Type)
}

// EntityInfo identifies the content entity an entity input type edits.
type EntityInfo struct {
	EntityType string
	Bundle     string
}

// InputObject describes the editable shape of an entity (Entity != nil) or of
// one of its fields (Entity == nil). Fields keep their declaration order.
//
// An InputObject is sealed by the schema builder. After that the field index
// and the NameMap never change, so it may be read from any number of
// goroutines.
type InputObject struct {
	Name        string
	Description string
	Entity      *EntityInfo
	Fields      []*InputField

	byName map[string]*InputField
	names  NameMap
}

func (io *InputObject) isType() {}

func (io *InputObject) String() string {
	return io.Name
}

// IsEntity reports whether io is the input type of a whole entity.
func (io *InputObject) IsEntity() bool {
	return io.Entity != nil
}

// Field returns the field declared under the external name, or nil.
func (io *InputObject) Field(name string) *InputField {
	return io.byName[name]
}

// Names returns the external to internal name map of io. It is empty until
// the object has been sealed.
func (io *InputObject) Names() NameMap {
	return io.names
}

// Seal indexes the fields and computes the NameMap. It is called once by the
// schema builder; calling it again is a no-op.
func (io *InputObject) Seal() {
	if io.byName != nil {
		return
	}

	byName := make(map[string]*InputField, len(io.Fields))
	for _, f := range io.Fields {
		byName[f.Name] = f
	}
	io.names = NewNameMap(io.Fields)
	io.byName = byName
}

// ValueKind tells the remapper how to treat the value of a field.
type ValueKind int

const (
	// ScalarValue fields are copied as they are.
	ScalarValue ValueKind = iota
	// NestedObject fields hold an entity field input whose properties get renamed.
	NestedObject
)

func (k ValueKind) String() string {
	switch k {
	case ScalarValue:
		return "scalar"
	case NestedObject:
		return "nestedObject"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// InputField is one editable slot of an InputObject.
//
// Name is the GraphQL facing name, Internal the storage field (for entity
// inputs) or property (for field inputs) name. Kind, List and Nested are
// resolved from Type when the schema is built.
type InputField struct {
	Name              string
	Internal          string
	Description       string
	Type              Type
	DeprecationReason string

	Kind   ValueKind
	List   bool
	Nested *InputObject
}

// Required reports whether the declared type is non-null.
func (f *InputField) Required() bool {
	_, ok := f.Type.(*NonNull)
	return ok
}

// NullableType strips a NonNull wrapper off t.
func NullableType(t Type) Type {
	if n, ok := t.(*NonNull); ok {
		return n.Type
	}
	return t
}

// NamedType strips all List and NonNull wrappers off t.
func NamedType(t Type) Type {
	for {
		switch w := t.(type) {
		case *NonNull:
			t = w.Type
		case *List:
			t = w.Type
		default:
			return t
		}
	}
}

// IsList reports whether the nullable part of t is a list.
func IsList(t Type) bool {
	_, ok := NullableType(t).(*List)
	return ok
}

// KindOf derives the value kind from the named type of t.
func KindOf(t Type) ValueKind {
	if _, ok := NamedType(t).(*InputObject); ok {
		return NestedObject
	}
	return ScalarValue
}

// Verify all types implement Type
var _ Type = &Scalar{}
var _ Type = &Enum{}
var _ Type = &List{}
var _ Type = &NonNull{}
var _ Type = &InputObject{}
