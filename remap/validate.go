package remap

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"go.appointy.com/entityinput/graphql"
	"go.appointy.com/entityinput/jerrors"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

// Validate checks raw against typ without remapping it. Every problem found
// is reported in one *jerrors.Error: its kind is TypeMismatch if any value
// has the wrong shape and UnknownKey if only undeclared keys were found.
// Each problem is attached as a field violation.
func (r *Remapper) Validate(raw map[string]interface{}, typ *graphql.InputObject) error {
	v := &validator{policy: r.policy}
	v.object(raw, typ, nil)
	return v.err()
}

type validator struct {
	policy     Policy
	violations []*errdetails.BadRequest_FieldViolation
	mismatch   bool
}

func (v *validator) fail(kind jerrors.Kind, path []string, format string, args ...interface{}) {
	if kind == jerrors.TypeMismatch {
		v.mismatch = true
	}
	v.violations = append(v.violations, jerrors.Violation(path, format, args...))
}

func (v *validator) err() error {
	if len(v.violations) == 0 {
		return nil
	}

	kind := jerrors.UnknownKey
	if v.mismatch {
		kind = jerrors.TypeMismatch
	}

	msgs := make([]string, 0, len(v.violations))
	for _, violation := range v.violations {
		msgs = append(msgs, violation.GetField()+": "+violation.GetDescription())
	}
	path := strings.Split(v.violations[0].GetField(), ".")

	return jerrors.New(kind, path, "%s", strings.Join(msgs, "; ")).WithViolations(v.violations...)
}

func (v *validator) object(raw map[string]interface{}, typ *graphql.InputObject, path []string) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := typ.Field(key)
		if field == nil {
			if v.policy == RejectUnknown {
				v.fail(jerrors.UnknownKey, join(path, key), "unknown field for %s", typ.Name)
			}
			continue
		}
		v.value(raw[key], field.Type, join(path, key))
	}

	for _, field := range typ.Fields {
		if !field.Required() {
			continue
		}
		if _, ok := raw[field.Name]; !ok {
			v.fail(jerrors.TypeMismatch, join(path, field.Name), "missing required field of type %s", field.Type)
		}
	}
}

func (v *validator) value(value interface{}, t graphql.Type, path []string) {
	if nn, ok := t.(*graphql.NonNull); ok {
		if value == nil {
			v.fail(jerrors.TypeMismatch, path, "null for non-null type %s", t)
			return
		}
		t = nn.Type
	}
	if value == nil {
		return
	}

	switch typ := t.(type) {
	case *graphql.List:
		elems, ok := listOf(value)
		if !ok {
			v.fail(jerrors.TypeMismatch, path, "expected a list of %s", typ.Type)
			return
		}
		for i, elem := range elems {
			v.value(elem, typ.Type, join(path, strconv.Itoa(i)))
		}
	case *graphql.InputObject:
		m, ok := value.(map[string]interface{})
		if !ok {
			v.fail(jerrors.TypeMismatch, path, "expected an object of type %s", typ.Name)
			return
		}
		v.object(m, typ, path)
	case *graphql.Enum:
		s, ok := value.(string)
		if !ok || !typ.Has(s) {
			v.fail(jerrors.TypeMismatch, path, "expected one of %s", strings.Join(typ.Values, ", "))
		}
	case *graphql.Scalar:
		if !typ.Opaque && structured(value) {
			v.fail(jerrors.TypeMismatch, path, "expected a %s value", typ.Type)
		}
	}
}

// listOf returns value's elements if it is a slice or array of any type.
func listOf(value interface{}) ([]interface{}, bool) {
	switch l := value.(type) {
	case []interface{}:
		return l, true
	case []map[string]interface{}:
		out := make([]interface{}, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// structured reports whether value is an object or list rather than a leaf.
func structured(value interface{}) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func join(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
