package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
)

// Value is one entry of a feature's property mapping. GIS layers deliver
// loosely typed attribute bags; Value narrows them to number, text, or null.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Null is the absent/unusable value.
func Null() Value { return Value{} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric payload. The second result is false for text,
// null, NaN and ±Inf.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload, the formatted number, or "" for null.
func (v Value) Str() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return ""
	}
}

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// UnmarshalJSON maps JSON numbers to Number and strings to Text. Everything
// else (null, booleans, objects, arrays) becomes Null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// Out-of-range numbers parse to ±Inf, which Float rejects.
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		*v = Number(f)
	default:
		*v = Null()
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON. Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if f, ok := v.Float(); ok {
			return json.Marshal(f)
		}
	}
	return []byte("null"), nil
}

// ValueOf converts a decoded scalar into a Value.
func ValueOf(raw any) Value {
	switch t := raw.(type) {
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case string:
		return Text(t)
	default:
		return Null()
	}
}
