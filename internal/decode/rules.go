package decode

import (
	"strings"
	"time"
)

// Rule decodes a value scanned from a column.
type Rule func(v any) (any, error)

// rules maps upper-cased engine type names to the rule decoding them.
var rules = map[string]Rule{}

func register(rule Rule, typeNames ...string) {
	for _, name := range typeNames {
		rules[name] = rule
	}
}

func init() {
	register(decodeBigInt,
		"BIGINT", "BIGINT UNSIGNED", "UNSIGNED BIGINT", "INT8", "INT", "INT UNSIGNED",
		"INT4", "INTEGER", "MEDIUMINT", "SMALLINT", "UNSIGNED INT", "SERIAL", "BIGSERIAL",
		"INT2", "TINYINT", "UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT")
	register(decodeTimestamp,
		"TIMESTAMP", "TIMESTAMPTZ", "DATETIME", "DATE")
	register(decodeBoolean,
		"BOOLEAN", "BOOL", "BIT")
}

// RuleFor returns the rule for the engine type, or Passthrough if there is
// none.
func RuleFor(databaseType string) Rule {
	if r, ok := rules[strings.ToUpper(strings.TrimSpace(databaseType))]; ok {
		return r
	}
	return Passthrough
}

// Passthrough returns the value as the driver reported it. Byte slices are
// returned as strings.
func Passthrough(v any) (any, error) {
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

func decodeBigInt(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return AsInt64(v)
}

func decodeTimestamp(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return AsTime(v)
}

func decodeBoolean(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return AsBool(v)
}

// timeLayouts are tried in order when a timestamp is reported as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339Nano,
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
