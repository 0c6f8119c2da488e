package validators

import "go.mongodb.org/mongo-driver/bson"

// clockPattern mirrors the wall-clock layouts accepted by overlap.ParseClock.
const clockPattern = `^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d(\.\d+)?)?$`

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"name",
			"seats",
			"amenities",
			"hourly_rate",
			"is_booked",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"seats": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			// Raw JSON text as sent by the client.
			"amenities": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"hourly_rate": bson.M{
				"bsonType":         []string{"double", "int", "long"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"is_booked": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var CustomerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
		},
	},
}
