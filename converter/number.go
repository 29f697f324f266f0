package converter

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	bigIntType   = reflect.TypeOf(big.Int{})
	bigFloatType = reflect.TypeOf(big.Float{})
	bigRatType   = reflect.TypeOf(big.Rat{})
	numericType  = reflect.TypeOf(pgtype.Numeric{})
)

// NumberConverter coerces numeric storage values into Target. Values are
// normalized to an exact rational first, so no precision is lost on the way
// to arbitrary-precision targets.
type NumberConverter struct {
	Target reflect.Type
}

// NewNumberConverter returns a converter producing values of target.
func NewNumberConverter(target reflect.Type) *NumberConverter {
	return &NumberConverter{Target: target}
}

// Decode converts a storage value into Target. Null-like input decodes to the
// zero value of Target.
func (c *NumberConverter) Decode(value any) (any, error) {
	r, err := toRat(value)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return zeroOf(c.Target), nil
	}
	return ratTo(r, c.Target, value)
}

// Encode converts an in-memory number into int64, uint64, float64 or a
// decimal string for arbitrary-precision values.
func (c *NumberConverter) Encode(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Struct {
			break // big.* values are used through pointers
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}

	r, err := toRat(value)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return ratString(r), nil
}

// toRat normalizes a numeric value. A nil result without error means the
// input was null-like.
func toRat(value any) (*big.Rat, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *big.Rat:
		if v == nil {
			return nil, nil
		}
		return new(big.Rat).Set(v), nil
	case big.Rat:
		return new(big.Rat).Set(&v), nil
	case *big.Int:
		if v == nil {
			return nil, nil
		}
		return new(big.Rat).SetInt(v), nil
	case big.Int:
		return new(big.Rat).SetInt(&v), nil
	case *big.Float:
		if v == nil {
			return nil, nil
		}
		r, _ := v.Rat(nil)
		if r == nil {
			return nil, fmt.Errorf("%w: infinite big.Float", ErrUnsupportedValue)
		}
		return r, nil
	case big.Float:
		return toRat(&v)
	case pgtype.Numeric:
		return numericToRat(v)
	case *pgtype.Numeric:
		if v == nil {
			return nil, nil
		}
		return numericToRat(*v)
	case json.Number:
		return parseRat(string(v))
	case string:
		return parseRat(v)
	case []byte:
		return parseRat(string(v))
	case bool:
		if v {
			return big.NewRat(1, 1), nil
		}
		return new(big.Rat), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		return parseRat(strconv.FormatFloat(rv.Float(), 'f', -1, bits))
	case reflect.String:
		return parseRat(rv.String())
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return toRat(rv.Elem().Interface())
	}

	return nil, fmt.Errorf("%w: cannot convert %T to number", ErrUnsupportedValue, value)
}

func parseRat(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NULL" || s == "null" {
		return nil, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrUnsupportedValue, s)
	}
	return r, nil
}

func numericToRat(n pgtype.Numeric) (*big.Rat, error) {
	if !n.Valid {
		return nil, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return nil, fmt.Errorf("%w: non-finite numeric", ErrUnsupportedValue)
	}
	if n.Int == nil {
		return new(big.Rat), nil
	}
	r := new(big.Rat).SetInt(n.Int)
	if n.Exp == 0 {
		return r, nil
	}
	exp := int64(n.Exp)
	if exp < 0 {
		exp = -exp
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	if n.Exp > 0 {
		return r.Mul(r, new(big.Rat).SetInt(pow)), nil
	}
	return r.Quo(r, new(big.Rat).SetInt(pow)), nil
}

// ratString renders r as a plain decimal when it has a finite expansion,
// otherwise as a fraction.
func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	for prec := 1; prec <= 64; prec++ {
		s := r.FloatString(prec)
		if back, ok := new(big.Rat).SetString(s); ok && back.Cmp(r) == 0 {
			return s
		}
	}
	return r.String()
}

func ratTo(r *big.Rat, target reflect.Type, original any) (any, error) {
	if target == nil {
		return ratString(r), nil
	}

	if target.Kind() == reflect.Ptr {
		elem, err := ratTo(r, target.Elem(), original)
		if err != nil {
			return nil, err
		}
		out := reflect.New(target.Elem())
		out.Elem().Set(reflect.ValueOf(elem))
		return out.Interface(), nil
	}

	switch target {
	case bigIntType:
		if !r.IsInt() {
			return nil, fmt.Errorf("%w: %s has a fractional part", ErrUnsupportedValue, r.FloatString(8))
		}
		return *new(big.Int).Set(r.Num()), nil
	case bigFloatType:
		return *new(big.Float).SetRat(r), nil
	case bigRatType:
		return *new(big.Rat).Set(r), nil
	case numericType:
		var n pgtype.Numeric
		if err := n.Scan(ratString(r)); err != nil {
			return nil, fmt.Errorf("scan numeric: %w", err)
		}
		return n, nil
	}

	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !r.IsInt() || !r.Num().IsInt64() {
			return nil, fmt.Errorf("%w: cannot convert %v to %s: precision loss", ErrUnsupportedValue, original, target)
		}
		v := r.Num().Int64()
		if out.OverflowInt(v) {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrUnsupportedValue, v, target)
		}
		out.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if r.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative value %v cannot convert to %s", ErrUnsupportedValue, original, target)
		}
		if !r.IsInt() || !r.Num().IsUint64() {
			return nil, fmt.Errorf("%w: cannot convert %v to %s: precision loss", ErrUnsupportedValue, original, target)
		}
		v := r.Num().Uint64()
		if out.OverflowUint(v) {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrUnsupportedValue, v, target)
		}
		out.SetUint(v)
	case reflect.Float32, reflect.Float64:
		f, _ := r.Float64()
		out.SetFloat(f)
	case reflect.String:
		out.SetString(ratString(r))
	default:
		return nil, fmt.Errorf("%w: cannot convert number to %s", ErrUnsupportedValue, target)
	}
	return out.Interface(), nil
}
