package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalValue_Number(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"integer", "42", 42},
		{"float", "3.25", 3.25},
		{"negative", "-7.5", -7.5},
		{"zero", "0", 0},
		{"exponent", "1e3", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := UnmarshalValue([]byte(tt.in))
			require.NoError(t, err)
			n, ok := AsNumber(v)
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestUnmarshalValue_Label(t *testing.T) {
	v, err := UnmarshalValue([]byte(`"premium"`))
	require.NoError(t, err)

	l, ok := AsLabel(v)
	require.True(t, ok)
	assert.Equal(t, "premium", l)

	_, isNum := AsNumber(v)
	assert.False(t, isNum, "a label must never read as a number")
}

func TestUnmarshalValue_RejectsNonScalars(t *testing.T) {
	for _, in := range []string{"null", "true", "false", "[1]", `{"a":1}`, ""} {
		_, err := UnmarshalValue([]byte(in))
		assert.Error(t, err, "input %q should be rejected", in)
	}
}

func TestMarshalValue_RoundTrip(t *testing.T) {
	for _, v := range []Value{NewNumber(2.5), NewLabel("high")} {
		data, err := MarshalValue(v)
		require.NoError(t, err)
		back, err := UnmarshalValue(data)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestMarshalValue_Nil(t *testing.T) {
	_, err := MarshalValue(nil)
	assert.Error(t, err)
}

func TestValue_MarshalsAsScalarInsideStructs(t *testing.T) {
	n := Node{ID: "x", Name: "X", Type: Continuous, BaseValue: NewNumber(5)}
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"base_value":5`)

	c := Node{ID: "y", Name: "Y", Type: Categorical, BaseValue: NewLabel("low")}
	data, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"base_value":"low"`)
}

func TestEqualLabels_NFCNormalization(t *testing.T) {
	// U+00E9 (precomposed) vs e + U+0301 (combining acute)
	assert.True(t, EqualLabels("café", "café"))
	assert.False(t, EqualLabels("cafe", "café"))
	assert.True(t, EqualLabels("plain", "plain"))
}
