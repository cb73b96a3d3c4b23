// Package jerrors defines the errors reported while building input types and
// while remapping mutation input, and their JSON and gRPC representations.
package jerrors

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies an Error.
type Kind int

const (
	Unknown Kind = iota
	// SchemaInconsistency is a broken input type definition. It is found when
	// the schema is built and is never recoverable at request time.
	SchemaInconsistency
	// TypeMismatch is a value whose shape disagrees with the declared type.
	TypeMismatch
	// UnknownKey is an input key with no matching field.
	UnknownKey
)

func (k Kind) String() string {
	switch k {
	case SchemaInconsistency:
		return "SCHEMA_INCONSISTENCY"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case UnknownKey:
		return "UNKNOWN_KEY"
	default:
		return ""
	}
}

// Code returns the gRPC code errors of this kind are reported with.
func (k Kind) Code() codes.Code {
	switch k {
	case SchemaInconsistency:
		return codes.Internal
	case TypeMismatch, UnknownKey:
		return codes.InvalidArgument
	default:
		return codes.Unknown
	}
}

// Extension is the "extensions" member of an error in a GraphQL response.
type Extension struct {
	Code string `json:"code"`
	Kind string `json:"kind,omitempty"`
}

// Error is the error type returned to the mutation execution layer.
type Error struct {
	Message   string     `json:"message"`
	Extension *Extension `json:"extensions"`
	Paths     []string   `json:"paths"`

	kind       Kind
	code       codes.Code
	violations []*errdetails.BadRequest_FieldViolation
	cause      error
}

// New creates an Error of the given kind located at path.
func New(kind Kind, path []string, format string, args ...interface{}) *Error {
	return newError(kind, kind.Code(), path, fmt.Sprintf(format, args...))
}

// Wrap creates an Error of the given kind that unwraps to cause.
func Wrap(kind Kind, cause error, path []string, format string, args ...interface{}) *Error {
	e := New(kind, path, format, args...)
	e.Message = e.Message + ": " + cause.Error()
	e.cause = cause
	return e
}

func newError(kind Kind, code codes.Code, path []string, msg string) *Error {
	if path == nil {
		path = []string{}
	}
	return &Error{
		Message: msg,
		Extension: &Extension{
			Code: code.String(),
			Kind: kind.String(),
		},
		Paths: path,
		kind:  kind,
		code:  code,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the classification of e.
func (e *Error) Kind() Kind {
	return e.kind
}

// Code returns the gRPC code of e.
func (e *Error) Code() codes.Code {
	return e.code
}

// WithViolations attaches per-field violations and returns e.
func (e *Error) WithViolations(v ...*errdetails.BadRequest_FieldViolation) *Error {
	e.violations = append(e.violations, v...)
	return e
}

// Violations returns the per-field violations attached to e.
func (e *Error) Violations() []*errdetails.BadRequest_FieldViolation {
	return e.violations
}

// Extensions makes e a graphql-go extended error, so the code and kind end
// up in the "extensions" member of the response.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.code.String(),
	}
	if e.kind != Unknown {
		ext["kind"] = e.kind.String()
	}
	if len(e.violations) > 0 {
		violations := make([]map[string]string, 0, len(e.violations))
		for _, v := range e.violations {
			violations = append(violations, map[string]string{
				"field":       v.GetField(),
				"description": v.GetDescription(),
			})
		}
		ext["violations"] = violations
	}
	return ext
}

// GRPCStatus returns e as a gRPC status. Violations travel as a BadRequest detail.
func (e *Error) GRPCStatus() *status.Status {
	st := status.New(e.code, e.Message)
	if len(e.violations) == 0 {
		return st
	}

	withDetails, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: e.violations})
	if err != nil {
		return st
	}
	return withDetails
}

// Violation describes what is wrong with the value at path.
func Violation(path []string, format string, args ...interface{}) *errdetails.BadRequest_FieldViolation {
	return &errdetails.BadRequest_FieldViolation{
		Field:       strings.Join(path, "."),
		Description: fmt.Sprintf(format, args...),
	}
}

// ConvertError turns any error into an *Error. Errors carrying a gRPC status
// keep its code; everything else is reported as Unknown.
func ConvertError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if st, ok := status.FromError(err); ok {
		converted := newError(Unknown, st.Code(), nil, st.Message())
		converted.cause = err
		return converted
	}

	converted := newError(Unknown, codes.Unknown, nil, err.Error())
	converted.cause = err
	return converted
}

// IsKind reports whether any error in err's chain is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind == kind
}
