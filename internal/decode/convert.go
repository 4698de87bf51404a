package decode

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the Go type a scalar result is converted to.
type Kind int

const (
	String Kind = iota + 1
	Int64
	Bool
	Time
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case Time:
		return "time.Time"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ConversionError is returned when a value cannot be represented as the
// requested kind.
type ConversionError struct {
	Want  Kind
	Value any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %T to %s", e.Value, e.Want)
}

// Convert converts v to the kind. A nil value cannot be converted to any
// kind.
func Convert(kind Kind, v any) (any, error) {
	switch kind {
	case String:
		return AsString(v)
	case Int64:
		return AsInt64(v)
	case Bool:
		return AsBool(v)
	case Time:
		return AsTime(v)
	}
	return nil, fmt.Errorf("internal error: unknown kind %s", kind)
}

// AsString converts text and numbers to a string.
func AsString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}
	return "", &ConversionError{Want: String, Value: v}
}

// AsInt64 converts integers and numeric text to an int64.
func AsInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			break
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt64 || x < math.MinInt64 {
			break
		}
		return int64(x), nil
	case []byte:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, &ConversionError{Want: Int64, Value: v}
}

// AsBool converts booleans, the integers 0 and 1, single bit values and
// boolean text to a bool.
func AsBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		if x == 0 || x == 1 {
			return x == 1, nil
		}
	case []byte:
		// BIT(1) columns are reported as a single byte.
		if len(x) == 1 && (x[0] == 0 || x[0] == 1) {
			return x[0] == 1, nil
		}
		if b, err := strconv.ParseBool(string(x)); err == nil {
			return b, nil
		}
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b, nil
		}
	}
	return false, &ConversionError{Want: Bool, Value: v}
}

// AsTime converts a time.Time or timestamp text to a time.Time. Text without
// a zone is read as UTC.
func AsTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case []byte:
		if t, ok := parseTime(string(x)); ok {
			return t, nil
		}
	case string:
		if t, ok := parseTime(x); ok {
			return t, nil
		}
	}
	return time.Time{}, &ConversionError{Want: Time, Value: v}
}
