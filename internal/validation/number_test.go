package validation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIntegerValue_IsDecimalValue(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		wantInteger bool
		wantDecimal bool
	}{
		{"json integer", json.Number("12"), true, false},
		{"json integer with zero fraction", json.Number("12.0"), true, false},
		{"json decimal", json.Number("12.5"), false, true},
		{"json negative decimal", json.Number("-0.25"), false, true},
		{"json exponent", json.Number("1e3"), true, false},
		{"json out of range", json.Number("1e400"), false, false},
		{"json garbage", json.Number("abc"), false, false},
		{"int", 4, true, false},
		{"int64", int64(40), true, false},
		{"uint8", uint8(3), true, false},
		{"float64 whole", 2.0, true, false},
		{"float64 fraction", 2.75, false, true},
		{"float32 fraction", float32(1.5), false, true},
		{"zero", 0, true, false},
		{"numeric string", "5", false, false},
		{"bool", true, false, false},
		{"nil", nil, false, false},
		{"NaN", math.NaN(), false, false},
		{"infinity", math.Inf(1), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotInteger := IsIntegerValue(tt.value)
			gotDecimal := IsDecimalValue(tt.value)

			assert.Equal(t, tt.wantInteger, gotInteger, "IsIntegerValue")
			assert.Equal(t, tt.wantDecimal, gotDecimal, "IsDecimalValue")
			assert.False(t, gotInteger && gotDecimal, "a value is never both integer and decimal")
		})
	}
}

type named string

func (n named) GetName() string { return string(n) }

func TestIsDuplicateName(t *testing.T) {
	rooms := []named{"Room A", "Board Room"}

	tests := []struct {
		name       string
		collection []named
		candidate  string
		want       bool
	}{
		{"exact match", rooms, "Room A", true},
		{"case-insensitive match", rooms, "room a", true},
		{"upper case match", rooms, "BOARD ROOM", true},
		{"no match", rooms, "Room B", false},
		{"empty collection", []named{}, "Room A", false},
		{"nil collection", nil, "Room A", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateName(tt.collection, tt.candidate))
		})
	}
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat(json.Number("19.99"))
	assert.True(t, ok)
	assert.InDelta(t, 19.99, f, 1e-9)

	_, ok = AsFloat("19.99")
	assert.False(t, ok)
}

func TestIsBlankValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"false", false, true},
		{"empty string", "", true},
		{"json zero", json.Number("0"), true},
		{"json zero decimal", json.Number("0.0"), true},
		{"int zero", 0, true},
		{"true", true, false},
		{"text", "x", false},
		{"json one", json.Number("1"), false},
		{"negative", -3, false},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlankValue(tt.value); got != tt.want {
				t.Errorf("IsBlankValue(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
