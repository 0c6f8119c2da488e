package validation

import (
	"encoding/json"
	"math"
	"strings"
)

// Named is implemented by every entity whose name must be unique.
type Named interface {
	GetName() string
}

// IsIntegerValue reports whether v is a number with no fractional part.
// Values that are not numbers (including numeric strings) are never integers.
func IsIntegerValue(v any) bool {
	f, ok := asNumber(v)
	return ok && f == math.Trunc(f)
}

// IsDecimalValue reports whether v is a number with a fractional part.
func IsDecimalValue(v any) bool {
	f, ok := asNumber(v)
	return ok && f != math.Trunc(f)
}

// IsDuplicateName reports whether any entity in collection already carries
// name, ignoring case.
func IsDuplicateName[T Named](collection []T, name string) bool {
	for _, entity := range collection {
		if strings.EqualFold(entity.GetName(), name) {
			return true
		}
	}
	return false
}

// IsBlankValue reports whether v counts as not provided: nil, false, an empty
// string or the number zero.
func IsBlankValue(v any) bool {
	switch b := v.(type) {
	case nil:
		return true
	case bool:
		return !b
	case string:
		return b == ""
	}
	f, ok := asNumber(v)
	return ok && f == 0
}

// AsFloat returns v as a float64 when it is a finite number.
func AsFloat(v any) (float64, bool) {
	return asNumber(v)
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
