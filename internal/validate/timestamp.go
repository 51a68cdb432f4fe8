package validate

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without /usr/share/zoneinfo
)

// Kind selects the granularity of a timestamp.
type Kind int

const (
	KindDateTime Kind = iota + 1
	KindDate
	KindTime
)

const (
	layoutDateTime = "2006-01-02T15:04:05.999999Z07:00"
	layoutDate     = "2006-01-02"
	layoutTime     = "15:04:05.999999"
)

var kindNames = map[Kind]string{
	KindDateTime: "datetime",
	KindDate:     "date",
	KindTime:     "time",
}

// ParseKind maps "datetime", "date" or "time" (any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) layout() (string, bool) {
	switch k {
	case KindDateTime:
		return layoutDateTime, true
	case KindDate:
		return layoutDate, true
	case KindTime:
		return layoutTime, true
	}
	return "", false
}

// Timestamp is a moment projected to a Kind. A KindDate value is midnight
// of its day, a KindTime value sits on January 1st of year 0.
type Timestamp struct {
	kind Kind
	t    time.Time
}

// Kind returns the projection of ts.
func (ts Timestamp) Kind() Kind { return ts.kind }

// Time returns the projected time.
func (ts Timestamp) Time() time.Time { return ts.t }

// String formats ts with the layout of its kind.
func (ts Timestamp) String() string {
	layout, ok := ts.kind.layout()
	if !ok {
		return ts.t.String()
	}
	return ts.t.Format(layout)
}

// MarshalJSON writes ts as a JSON string.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

// CurrentTimestamp returns the current time in the named IANA zone,
// projected to kind.
func CurrentTimestamp(kind Kind, timezone string) (Timestamp, error) {
	return CurrentTimestampAt(time.Now(), kind, timezone)
}

// CurrentTimestampAt is CurrentTimestamp with an explicit clock reading.
func CurrentTimestampAt(now time.Time, kind Kind, timezone string) (Timestamp, error) {
	if _, ok := kind.layout(); !ok {
		return Timestamp{}, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, timezone, err)
	}

	local := now.In(loc)
	switch kind {
	case KindDate:
		y, m, d := local.Date()
		return Timestamp{kind: kind, t: time.Date(y, m, d, 0, 0, 0, 0, loc)}, nil
	case KindTime:
		return Timestamp{kind: kind, t: time.Date(0, time.January, 1, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)}, nil
	default:
		return Timestamp{kind: kind, t: local}, nil
	}
}

// FormatTimestamp renders t at the granularity of kind.
func FormatTimestamp(t time.Time, kind Kind) (string, error) {
	layout, ok := kind.layout()
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
	return t.Format(layout), nil
}
