package validate

import "github.com/shopspring/decimal"

// Option configures a single validator call. Options that do not apply to
// a validator are ignored by it.
type Option func(*options)

type options struct {
	index    *int
	optional bool

	def      int64
	min, max *int64

	decMin, decMax *decimal.Decimal
	places         int32
}

func newOptions(opts []Option) options {
	o := options{places: DefaultPlaces}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithIndex attaches the row position of a bulk payload to every
// descriptor the call produces.
func WithIndex(i int) Option {
	return func(o *options) { o.index = &i }
}

// Optional marks a reference as not required: an absent value is a valid
// "no relation" outcome. Used by ForeignKey and Decimal.
func Optional() Option {
	return func(o *options) { o.optional = true }
}

// WithDefault sets the value Int returns alongside its "required" error.
func WithDefault(v int64) Option {
	return func(o *options) { o.def = v }
}

// WithMin sets the inclusive lower bound for Int.
func WithMin(v int64) Option {
	return func(o *options) { o.min = &v }
}

// WithMax sets the inclusive upper bound for Int.
func WithMax(v int64) Option {
	return func(o *options) { o.max = &v }
}

// WithDecimalMin sets the inclusive lower bound for Decimal.
func WithDecimalMin(v decimal.Decimal) Option {
	return func(o *options) { o.decMin = &v }
}

// WithDecimalMax sets the inclusive upper bound for Decimal.
func WithDecimalMax(v decimal.Decimal) Option {
	return func(o *options) { o.decMax = &v }
}

// WithPlaces sets the number of fractional digits Decimal rounds to.
func WithPlaces(places int32) Option {
	return func(o *options) { o.places = places }
}

func (o options) describe(kind error, field string, value any, info string) *ErrorDescriptor {
	return newDescriptor(kind, field, value, o.index, info)
}
