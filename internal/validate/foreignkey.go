package validate

import (
	"context"
	"errors"
	"fmt"
)

// Lookup resolves a primary key to an entity. Implementations return an
// error matching ErrNotFound when no row has that id.
type Lookup[T any] interface {
	Get(ctx context.Context, id int64) (T, error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc[T any] func(ctx context.Context, id int64) (T, error)

// Get calls f.
func (f LookupFunc[T]) Get(ctx context.Context, id int64) (T, error) { return f(ctx, id) }

// ForeignKeyOutcome is the result of ForeignKey. At most one field is set;
// all three empty means the optional reference was absent.
type ForeignKeyOutcome[T any] struct {
	Instance   *T
	InvalidFK  *ErrorDescriptor
	NotExistFK *ErrorDescriptor
}

// Err returns whichever descriptor is set, or nil.
func (o ForeignKeyOutcome[T]) Err() *ErrorDescriptor {
	if o.InvalidFK != nil {
		return o.InvalidFK
	}
	return o.NotExistFK
}

// ForeignKey validates a reference to another entity and resolves it.
//
// nil, "", false and numeric zero are absent: an error for required
// references, an empty outcome with Optional. true is looked up as id 1. Non-integers land in InvalidFK, ids the
// lookup cannot find land in NotExistFK. Lookup failures other than
// ErrNotFound are returned as err.
func ForeignKey[T any](ctx context.Context, value any, field string, lookup Lookup[T], opts ...Option) (ForeignKeyOutcome[T], error) {
	o := newOptions(opts)

	if isAbsentReference(value) {
		if o.optional {
			return ForeignKeyOutcome[T]{}, nil
		}
		return ForeignKeyOutcome[T]{
			InvalidFK: o.describe(ErrRequired, field, value, fmt.Sprintf("%s is required", field)),
		}, nil
	}

	id, ok := toReferenceID(value)
	if !ok {
		return ForeignKeyOutcome[T]{
			InvalidFK: o.describe(ErrType, field, value, fmt.Sprintf("%s must be an integer", field)),
		}, nil
	}

	instance, err := lookup.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ForeignKeyOutcome[T]{
				NotExistFK: o.describe(ErrNotFound, field, id, fmt.Sprintf("%s does not exist", field)),
			}, nil
		}
		return ForeignKeyOutcome[T]{}, fmt.Errorf("validate.ForeignKey: %s: %w", field, err)
	}

	return ForeignKeyOutcome[T]{Instance: &instance}, nil
}
