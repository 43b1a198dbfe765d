// Package jsonnav reads loosely-typed JSON trees returned by undocumented endpoints.
//
// Lookups never panic: a missing or mistyped intermediate node yields an empty
// Object or Array, so chained reads short-circuit to "not found". Optional
// fields take a caller-supplied default; required fields fail with a
// *ParsingError.
package jsonnav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrParsing matches every *ParsingError via errors.Is.
var ErrParsing = errors.New("parsing failed")

// ParsingError reports a required field that is absent or has the wrong shape.
type ParsingError struct {
	Key    string
	Reason string
}

func (e *ParsingError) Error() string {
	if e.Key == "" {
		return "parsing failed: " + e.Reason
	}
	return fmt.Sprintf("parsing failed at %q: %s", e.Key, e.Reason)
}

func (e *ParsingError) Is(target error) bool {
	return target == ErrParsing
}

// Errorf builds a *ParsingError for checks that are not a single key lookup.
func Errorf(key, format string, args ...any) *ParsingError {
	return &ParsingError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// Object is a JSON object node.
type Object map[string]any

// Array is a JSON array node.
type Array []any

// ParseObject decodes data whose top-level value must be an object.
func ParseObject(data []byte) (Object, error) {
	v, err := decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, Errorf("", "expected JSON object, got %s", kind(v))
	}
	return Object(obj), nil
}

// ParseArray decodes data whose top-level value must be an array.
func ParseArray(data []byte) (Array, error) {
	v, err := decode(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, Errorf("", "expected JSON array, got %s", kind(v))
	}
	return Array(arr), nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParsingError{Reason: "malformed JSON: " + err.Error()}
	}
	if dec.More() {
		return nil, &ParsingError{Reason: "malformed JSON: trailing data"}
	}
	return v, nil
}

// Has reports whether key is present, whatever its value.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// IsString reports whether key holds a string.
func (o Object) IsString(key string) bool {
	_, ok := o[key].(string)
	return ok
}

// Object returns the object at key, or an empty object.
func (o Object) Object(key string) Object {
	if m, ok := o[key].(map[string]any); ok {
		return Object(m)
	}
	return Object{}
}

// Path follows a chain of object keys.
func (o Object) Path(keys ...string) Object {
	cur := o
	for _, k := range keys {
		cur = cur.Object(k)
	}
	return cur
}

// Array returns the array at key, or an empty array.
func (o Object) Array(key string) Array {
	if a, ok := o[key].([]any); ok {
		return Array(a)
	}
	return Array{}
}

// String returns the string at key, or def.
func (o Object) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Int64 returns the integer at key, or def. Fractional numbers are truncated.
func (o Object) Int64(key string, def int64) int64 {
	if n, ok := toInt64(o[key]); ok {
		return n
	}
	return def
}

// Float64 returns the number at key, or def.
func (o Object) Float64(key string, def float64) float64 {
	if f, ok := toFloat64(o[key]); ok {
		return f
	}
	return def
}

// Bool returns the boolean at key, or def.
func (o Object) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// RequireString returns the string at key or a *ParsingError.
func (o Object) RequireString(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", &ParsingError{Key: key, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParsingError{Key: key, Reason: "expected string, got " + kind(v)}
	}
	return s, nil
}

// RequireFloat64 returns the number at key or a *ParsingError.
func (o Object) RequireFloat64(key string) (float64, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, &ParsingError{Key: key, Reason: "missing"}
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, &ParsingError{Key: key, Reason: "expected number, got " + kind(v)}
	}
	return f, nil
}

// RequireObject returns the object at key or a *ParsingError.
func (o Object) RequireObject(key string) (Object, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, &ParsingError{Key: key, Reason: "missing"}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ParsingError{Key: key, Reason: "expected object, got " + kind(v)}
	}
	return Object(m), nil
}

// RequireArray returns the array at key or a *ParsingError.
func (o Object) RequireArray(key string) (Array, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, &ParsingError{Key: key, Reason: "missing"}
	}
	a, ok := v.([]any)
	if !ok {
		return nil, &ParsingError{Key: key, Reason: "expected array, got " + kind(v)}
	}
	return Array(a), nil
}

// Objects returns the object entries in order, skipping everything else.
func (a Array) Objects() []Object {
	out := make([]Object, 0, len(a))
	for _, v := range a {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Object(m))
		}
	}
	return out
}

// Float64 returns the number at index i, or def.
func (a Array) Float64(i int, def float64) float64 {
	if i < 0 || i >= len(a) {
		return def
	}
	if f, ok := toFloat64(a[i]); ok {
		return f
	}
	return def
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		return int64(f), err == nil
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
