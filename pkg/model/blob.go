package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Blob is a client-supplied JSON value stored without interpretation. It is
// kept as the raw JSON text and persisted to Mongo as a string.
type Blob json.RawMessage

var jsonNull = []byte("null")

func (b Blob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return jsonNull, nil
	}
	return b, nil
}

func (b *Blob) UnmarshalJSON(data []byte) error {
	if b == nil {
		return fmt.Errorf("model.Blob: UnmarshalJSON on nil pointer")
	}
	*b = append(Blob(nil), data...)
	return nil
}

func (b Blob) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if len(b) == 0 {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(string(b))
}

func (b *Blob) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		*b = nil
		return nil
	}

	var s string
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&s); err != nil {
		return fmt.Errorf("model.Blob: %w", err)
	}
	*b = Blob(s)
	return nil
}

// IsEmpty reports whether b holds no usable value: nothing at all, or one of
// the JSON falsy literals null, false, "" and zero.
func (b Blob) IsEmpty() bool {
	s := string(bytes.TrimSpace(b))
	switch s {
	case "", "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f == 0
	}
	return false
}
