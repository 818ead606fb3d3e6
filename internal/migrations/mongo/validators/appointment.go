package validators

import "go.mongodb.org/mongo-driver/bson"

var AppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"service_id",
			"scheduled_start",
			"scheduled_end",
			"status",
			"view_token",
			"cancellation_token",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"scheduled_start": bson.M{
				"bsonType": "date",
			},

			"scheduled_end": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"enum": []string{"scheduled", "completed", "cancelled", "no_show"},
			},

			"view_token": bson.M{
				"bsonType":  "string",
				"minLength": 16,
			},

			"cancellation_token": bson.M{
				"bsonType":  "string",
				"minLength": 16,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
