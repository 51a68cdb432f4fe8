package validate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPlaces is the number of fractional digits used for money amounts.
const DefaultPlaces int32 = 2

// RoundHalfUp quantizes value to places fractional digits, rounding ties
// away from zero: 2.345 becomes 2.35 and -2.555 becomes -2.56. Negative
// places are treated as zero.
func RoundHalfUp(value decimal.Decimal, places int32) decimal.Decimal {
	if places < 0 {
		places = 0
	}
	return value.Round(places)
}

// RoundFloat rounds a binary float through its shortest decimal
// representation, so the result does not depend on float rounding of the
// literal.
func RoundFloat(value float64, places int32) decimal.Decimal {
	return RoundHalfUp(decimal.NewFromFloat(value), places)
}

// RoundString parses a decimal literal and rounds it.
func RoundString(value string, places int32) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("validate.RoundString: %w", err)
	}
	return RoundHalfUp(d, places), nil
}

// Decimal validates a numeric amount and returns it rounded half up to the
// configured places (DefaultPlaces unless WithPlaces is given). Range
// bounds are checked before rounding.
//
// Unlike Int there is no default: an absent value is an error unless
// Optional is set, in which case the outcome is empty.
func Decimal(value any, field string, opts ...Option) Outcome[decimal.Decimal] {
	o := newOptions(opts)

	if isBlank(value) {
		if o.optional {
			return Outcome[decimal.Decimal]{}
		}
		return Outcome[decimal.Decimal]{Error: o.describe(ErrRequired, field, value, fmt.Sprintf("%s is required", field))}
	}

	d, ok := toDecimal(value)
	if !ok {
		return Outcome[decimal.Decimal]{Error: o.describe(ErrType, field, value, fmt.Sprintf("%s must be a number", field))}
	}

	// Bounds apply to the value as given, so rounding cannot pull an
	// out-of-range amount back inside them.
	if o.decMin != nil && d.LessThan(*o.decMin) {
		return Outcome[decimal.Decimal]{Error: o.describe(ErrRange, field, value, fmt.Sprintf("%s must be ≥ %s", field, o.decMin.String()))}
	}
	if o.decMax != nil && d.GreaterThan(*o.decMax) {
		return Outcome[decimal.Decimal]{Error: o.describe(ErrRange, field, value, fmt.Sprintf("%s must be ≤ %s", field, o.decMax.String()))}
	}

	d = RoundHalfUp(d, o.places)
	return Outcome[decimal.Decimal]{Value: &d}
}
