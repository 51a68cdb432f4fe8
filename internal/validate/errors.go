package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/starter-api/backend/internal/domain"
)

// Failure kinds. An *ErrorDescriptor unwraps to exactly one of the first four.
var (
	ErrRequired = errors.New("required")
	ErrType     = errors.New("invalid type")
	ErrRange    = errors.New("out of range")
	// ErrNotFound is domain.ErrNotFound so that repositories can signal
	// absence without importing this package.
	ErrNotFound = domain.ErrNotFound

	ErrUnsupportedKind = errors.New("invalid date/time type")
	ErrUnknownTimezone = errors.New("unknown time zone")
)

// ErrorDescriptor describes one failed field. It serializes to the flat
// shape {"<field>": <raw value>, "info": "<message>", "index": <n>}, with
// index present only for batch validation.
type ErrorDescriptor struct {
	Field string
	Value any
	Info  string
	Index *int

	kind error
}

func newDescriptor(kind error, field string, value any, index *int, info string) *ErrorDescriptor {
	d := &ErrorDescriptor{Field: field, Value: value, Info: info, kind: kind}
	if index != nil {
		i := *index
		d.Index = &i
	}
	return d
}

// NewError builds a descriptor for checks that live outside this package,
// such as required text fields. Only WithIndex is honoured from opts.
func NewError(kind error, field string, value any, info string, opts ...Option) *ErrorDescriptor {
	return newOptions(opts).describe(kind, field, value, info)
}

// Error implements error.
func (d *ErrorDescriptor) Error() string { return d.Info }

// Unwrap returns the failure kind so callers can use errors.Is.
func (d *ErrorDescriptor) Unwrap() error { return d.kind }

// Kind returns the failure kind sentinel.
func (d *ErrorDescriptor) Kind() error { return d.kind }

// MarshalJSON writes the field name as a key. A field literally named
// "info" or "index" is shadowed by the descriptor keys.
func (d *ErrorDescriptor) MarshalJSON() ([]byte, error) {
	m := map[string]any{d.Field: d.Value}
	m["info"] = d.Info
	if d.Index != nil {
		m["index"] = *d.Index
	}
	return json.Marshal(m)
}

// Errors aggregates descriptors from many validator calls. Not-found
// references are kept apart from malformed input because they answer with
// a different status.
//
// The zero value is ready to use.
type Errors struct {
	Invalid  []*ErrorDescriptor `json:"invalid,omitempty"`
	NotExist []*ErrorDescriptor `json:"not_exist,omitempty"`
}

// Add records d. Nil descriptors are ignored so results can be passed
// straight through.
func (e *Errors) Add(d *ErrorDescriptor) {
	if d == nil {
		return
	}
	if errors.Is(d, ErrNotFound) {
		e.NotExist = append(e.NotExist, d)
		return
	}
	e.Invalid = append(e.Invalid, d)
}

// Merge appends every descriptor of other.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	e.Invalid = append(e.Invalid, other.Invalid...)
	e.NotExist = append(e.NotExist, other.NotExist...)
}

// Len returns the number of recorded descriptors.
func (e *Errors) Len() int { return len(e.Invalid) + len(e.NotExist) }

// Status is 400 when any input was malformed, 404 when every failure is an
// unresolved reference, and 0 when nothing failed.
func (e *Errors) Status() int {
	switch {
	case len(e.Invalid) > 0:
		return http.StatusBadRequest
	case len(e.NotExist) > 0:
		return http.StatusNotFound
	default:
		return 0
	}
}

// Err returns e as an error, or nil when no descriptor was recorded.
func (e *Errors) Err() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}

// Error implements error.
func (e *Errors) Error() string {
	msgs := make([]string, 0, e.Len())
	for _, d := range e.Invalid {
		msgs = append(msgs, d.Info)
	}
	for _, d := range e.NotExist {
		msgs = append(msgs, d.Info)
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// Unwrap makes errors.Is(err, domain.ErrValidation) hold.
func (e *Errors) Unwrap() error { return domain.ErrValidation }
