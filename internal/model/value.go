package model

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing a node value.
// Only Number and Label implement it. Arithmetic is defined over Number
// only; a Label never participates in weighted-sum propagation.
type Value interface {
	value() // Sealed - only Number and Label implement it
}

// Number is a numeric node value (continuous, or binary held as 0/1).
type Number float64

func (Number) value() {}

// MarshalJSON implements json.Marshaler for Number.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// Label is a categorical node value (or binary held as a label).
type Label string

func (Label) value() {}

// MarshalJSON implements json.Marshaler for Label.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(l))
}

// NewNumber creates a Number value.
func NewNumber(f float64) Number {
	return Number(f)
}

// NewLabel creates a Label value.
func NewLabel(s string) Label {
	return Label(s)
}

// AsNumber extracts the numeric variant.
// Returns false for Label and nil values.
func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

// AsLabel extracts the label variant.
// Returns false for Number and nil values.
func AsLabel(v Value) (string, bool) {
	l, ok := v.(Label)
	return string(l), ok
}

// UnmarshalValue decodes a JSON scalar into a Value.
// JSON numbers become Number, JSON strings become Label.
// Everything else (null, bool, array, object) is rejected: a node value is
// always a scalar.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Label(s), nil

	case 'n', 't', 'f', '[', '{':
		return nil, fmt.Errorf("node value must be a number or a string, got %s", string(data))

	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("node value must be a number or a string: %w", err)
		}
		return Number(f), nil
	}
}

// MarshalValue encodes a Value as its JSON scalar form.
// Used by the stores to persist base values as a single column.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Number:
		return val.MarshalJSON()
	case Label:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// EqualLabels reports whether two labels are the same after NFC
// normalization. Categorical matching must not depend on Unicode
// composition of the input.
func EqualLabels(a, b string) bool {
	return norm.NFC.String(a) == norm.NFC.String(b)
}
