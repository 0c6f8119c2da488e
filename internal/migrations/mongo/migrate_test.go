package mongo

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"roomly/internal/overlap"
	"roomly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func bsonFields(t reflect.Type) []string {
	fields := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("bson"), ",")[0]
		if tag != "" && tag != "-" {
			fields = append(fields, tag)
		}
	}
	return fields
}

func schemaOf(t *testing.T, validator bson.M) bson.M {
	t.Helper()
	schema, ok := validator["$jsonSchema"].(bson.M)
	require.True(t, ok)
	return schema
}

func TestValidatorsMatchModels(t *testing.T) {
	models := map[string]reflect.Type{
		"Rooms":     reflect.TypeOf(model.Room{}),
		"Customers": reflect.TypeOf(model.Customer{}),
		"Bookings":  reflect.TypeOf(model.Booking{}),
	}

	for _, def := range Collections {
		typ, ok := models[def.Name]
		if !ok {
			assert.Nil(t, def.Validator, def.Name)
			continue
		}

		t.Run(def.Name, func(t *testing.T) {
			schema := schemaOf(t, def.Validator)
			properties, ok := schema["properties"].(bson.M)
			require.True(t, ok)

			fields := bsonFields(typ)
			assert.ElementsMatch(t, fields, schema["required"])
			for _, field := range fields {
				assert.Contains(t, properties, field)
			}
		})
	}
}

func TestClockPatternMatchesParser(t *testing.T) {
	pattern := regexp.MustCompile(clockPatternOf(t))

	for _, clock := range []string{"9:00", "09:00", "23:59", "10:30:15", "10:30:15.250"} {
		assert.True(t, overlap.ValidClock(clock), clock)
		assert.True(t, pattern.MatchString(clock), clock)
	}
	for _, clock := range []string{"24:00", "9:60", "nine", "10:30:15."} {
		assert.False(t, pattern.MatchString(clock), clock)
	}
}

func clockPatternOf(t *testing.T) string {
	t.Helper()
	for _, def := range Collections {
		if def.Name != "Bookings" {
			continue
		}
		properties := schemaOf(t, def.Validator)["properties"].(bson.M)
		return properties["start_time"].(bson.M)["pattern"].(string)
	}
	t.Fatal("bookings collection not defined")
	return ""
}
