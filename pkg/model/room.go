package model

type Room struct {
	ID         int64    `json:"id" bson:"_id"`
	Name       string   `json:"name" bson:"name"`
	Seats      int      `json:"seats" bson:"seats"`
	Amenities  Blob     `json:"amenities" bson:"amenities"`
	HourlyRate float64  `json:"hourly_rate" bson:"hourly_rate"`
	IsBooked   bool     `json:"is_booked" bson:"is_booked"`
}

func (r *Room) GetName() string { return r.Name }

// RoomRequest is the registration payload. Seats and HourlyRate stay untyped
// until the numeric shape has been checked. Amenities accepts any JSON value;
// its presence is checked by the room service.
type RoomRequest struct {
	Name       string `json:"name" validate:"required"`
	Seats      any    `json:"seats" validate:"required"`
	Amenities  Blob   `json:"amenities"`
	HourlyRate any    `json:"hourly_rate" validate:"required"`
}

type Customer struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

func (c *Customer) GetName() string { return c.Name }

type CustomerRequest struct {
	Name string `json:"name" validate:"required"`
}
