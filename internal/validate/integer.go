package validate

import "fmt"

// Outcome is the result of a field validator. Value holds the normalized
// value and Error the failure; normally exactly one is set.
//
// Int is the exception: an absent value yields the configured default in
// Value and a "required" descriptor in Error at the same time, so callers
// can either fall back or report.
type Outcome[T any] struct {
	Value *T
	Error *ErrorDescriptor
}

// OK reports whether the call produced no error descriptor.
func (o Outcome[T]) OK() bool { return o.Error == nil }

// Int validates an integer field.
//
// A nil or empty value returns the default (WithDefault, 0 otherwise)
// together with a "<field> is required" descriptor. Anything that is not an
// integer fails with "<field> must be an integer"; bounds set by WithMin and
// WithMax are inclusive.
func Int(value any, field string, opts ...Option) Outcome[int64] {
	o := newOptions(opts)

	if isBlank(value) {
		def := o.def
		return Outcome[int64]{
			Value: &def,
			Error: o.describe(ErrRequired, field, value, fmt.Sprintf("%s is required", field)),
		}
	}

	n, ok := toInt64(value)
	if !ok {
		return Outcome[int64]{Error: o.describe(ErrType, field, value, fmt.Sprintf("%s must be an integer", field))}
	}

	if o.min != nil && n < *o.min {
		return Outcome[int64]{Error: o.describe(ErrRange, field, value, fmt.Sprintf("%s must be ≥ %d", field, *o.min))}
	}
	if o.max != nil && n > *o.max {
		return Outcome[int64]{Error: o.describe(ErrRange, field, value, fmt.Sprintf("%s must be ≤ %d", field, *o.max))}
	}

	return Outcome[int64]{Value: &n}
}
