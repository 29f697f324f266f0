package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// NumericPolicy decides how a DateTimeConverter decodes numeric storage values.
type NumericPolicy uint8

const (
	// RejectNumeric fails on numeric input; only text and time values decode.
	RejectNumeric NumericPolicy = iota
	// EpochMillis treats numeric input as milliseconds since the Unix epoch.
	EpochMillis
)

var (
	timeType        = reflect.TypeOf(time.Time{})
	timePtrType     = reflect.TypeOf((*time.Time)(nil))
	stringType      = reflect.TypeOf("")
	int64Type       = reflect.TypeOf(int64(0))
	pgTimestampType = reflect.TypeOf(pgtype.Timestamp{})
	pgTimestamptzTy = reflect.TypeOf(pgtype.Timestamptz{})
	pgDateType      = reflect.TypeOf(pgtype.Date{})
)

// DateTimeConverter converts between stored date/time representations and a
// target Go type, parsing and formatting text with Pattern.
type DateTimeConverter struct {
	Pattern  string
	Target   reflect.Type
	Location *time.Location
	Numeric  NumericPolicy
}

// NewDateTimeConverter returns a converter for pattern and target that decodes
// numeric input as epoch milliseconds and parses text in the local time zone.
func NewDateTimeConverter(pattern string, target reflect.Type) *DateTimeConverter {
	return &DateTimeConverter{
		Pattern:  pattern,
		Target:   target,
		Location: time.Local,
		Numeric:  EpochMillis,
	}
}

// Layout returns the Go reference layout derived from Pattern.
func (c *DateTimeConverter) Layout() string {
	return Layout(c.Pattern)
}

func (c *DateTimeConverter) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Decode converts a storage value into the target type. Numeric input is
// handled according to the converter's NumericPolicy; everything else goes
// through text parsing or direct time conversion.
func (c *DateTimeConverter) Decode(value any) (any, error) {
	t, ok, err := c.decodeTime(value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return zeroOf(c.Target), nil
	}
	return c.toTarget(t)
}

// Encode converts an in-memory value into a time.Time for storage. Null-like
// values encode to nil.
func (c *DateTimeConverter) Encode(value any) (any, error) {
	t, ok, err := c.decodeTime(value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return t, nil
}

// decodeTime normalizes value into a time.Time. ok is false for nil, empty
// text and invalid pgtype values.
func (c *DateTimeConverter) decodeTime(value any) (t time.Time, ok bool, err error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, false, nil
		}
		return *v, true, nil
	case string:
		return c.parseText(v)
	case []byte:
		return c.parseText(string(v))
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q is not an integer", ErrUnsupportedValue, v)
		}
		return c.fromMillis(n, value)
	case pgtype.Timestamp:
		return v.Time, v.Valid, nil
	case pgtype.Timestamptz:
		return v.Time, v.Valid, nil
	case pgtype.Date:
		return v.Time, v.Valid, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.fromMillis(rv.Int(), value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return time.Time{}, false, fmt.Errorf("%w: %d overflows epoch milliseconds", ErrUnsupportedValue, u)
		}
		return c.fromMillis(int64(u), value)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return time.Time{}, false, fmt.Errorf("%w: %v is not a valid epoch millisecond value", ErrUnsupportedValue, f)
		}
		return c.fromMillis(int64(f), value)
	case reflect.Ptr:
		if rv.IsNil() {
			return time.Time{}, false, nil
		}
		return c.decodeTime(rv.Elem().Interface())
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return rv.Convert(timeType).Interface().(time.Time), true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: cannot convert %T to time", ErrUnsupportedValue, value)
}

func (c *DateTimeConverter) fromMillis(ms int64, original any) (time.Time, bool, error) {
	if c.Numeric != EpochMillis {
		return time.Time{}, false, fmt.Errorf("%w: numeric %T not accepted as date", ErrUnsupportedValue, original)
	}
	return time.UnixMilli(ms), true, nil
}

func (c *DateTimeConverter) parseText(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	layout, err := ParseLayout(c.Pattern)
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.ParseInLocation(layout, s, c.location())
	if err == nil {
		return t, true, nil
	}
	if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t2, true, nil
	}
	return time.Time{}, false, fmt.Errorf("parse %q with pattern %q: %w", s, c.Pattern, err)
}

func (c *DateTimeConverter) toTarget(t time.Time) (any, error) {
	return c.timeAs(t, c.Target)
}

// timeAs converts t into a value of target. Pointer targets of any
// supported type are built from their element.
func (c *DateTimeConverter) timeAs(t time.Time, target reflect.Type) (any, error) {
	switch target {
	case nil, timeType:
		return t, nil
	case stringType:
		layout, err := ParseLayout(c.Pattern)
		if err != nil {
			return nil, err
		}
		return t.In(c.location()).Format(layout), nil
	case int64Type:
		return t.UnixMilli(), nil
	case pgTimestampType:
		return pgtype.Timestamp{Time: t, Valid: true}, nil
	case pgTimestamptzTy:
		return pgtype.Timestamptz{Time: t, Valid: true}, nil
	case pgDateType:
		return pgtype.Date{Time: t, Valid: true}, nil
	}

	if target.Kind() == reflect.Ptr {
		elem, err := c.timeAs(t, target.Elem())
		if err != nil {
			return nil, err
		}
		out := reflect.New(target.Elem())
		out.Elem().Set(reflect.ValueOf(elem))
		return out.Interface(), nil
	}
	if timeType.ConvertibleTo(target) {
		return reflect.ValueOf(t).Convert(target).Interface(), nil
	}
	return nil, fmt.Errorf("%w: cannot convert time to %s", ErrUnsupportedValue, target)
}

func zeroOf(t reflect.Type) any {
	if t == nil {
		return nil
	}
	return reflect.Zero(t).Interface()
}
